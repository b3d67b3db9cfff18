package mvc

import (
	"context"

	errorc "qrhub/pkg/core/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDaoImpl MongoDB数据访问实现，_id 使用字符串主键
type MongoDaoImpl[T any] struct {
	coll *mongo.Collection
}

// NewMongoDao 创建MongoDB数据访问实例
func NewMongoDao[T any](coll *mongo.Collection) *MongoDaoImpl[T] {
	return &MongoDaoImpl[T]{
		coll: coll,
	}
}

// Coll 暴露集合，供领域 Dao 编写聚合查询
func (d *MongoDaoImpl[T]) Coll() *mongo.Collection {
	return d.coll
}

func (d *MongoDaoImpl[T]) Create(ctx context.Context, entity *T) error {
	if _, err := d.coll.InsertOne(ctx, entity); err != nil {
		return errorc.New("数据库操作失败", err).DB()
	}
	return nil
}

func (d *MongoDaoImpl[T]) FindById(ctx context.Context, id string) (*T, error) {
	var entity T
	err := d.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entity)
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *MongoDaoImpl[T]) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result, err := d.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return errorc.New("更新记录失败", err).DB()
	}
	if result.MatchedCount == 0 {
		return errorc.New("要更新的记录不存在", nil).NotFound()
	}
	return nil
}

func (d *MongoDaoImpl[T]) UpdateByMap(ctx context.Context, conditions map[string]interface{}, fields map[string]interface{}) (int64, error) {
	result, err := d.coll.UpdateMany(ctx, bson.M(conditions), bson.M{"$set": fields})
	if err != nil {
		return 0, errorc.New("更新记录失败", err).DB()
	}
	return result.ModifiedCount, nil
}

func (d *MongoDaoImpl[T]) DeleteById(ctx context.Context, id string) error {
	result, err := d.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errorc.New("删除记录失败", err).DB()
	}
	if result.DeletedCount == 0 {
		return errorc.New("要删除的记录不存在", nil).NotFound()
	}
	return nil
}

func (d *MongoDaoImpl[T]) FindByMap(ctx context.Context, conditions map[string]interface{}) ([]*T, error) {
	return d.Find(ctx, bson.M(conditions))
}

func (d *MongoDaoImpl[T]) FindPageByMap(ctx context.Context, page *Page, conditions map[string]interface{}) ([]*T, int64, error) {
	return d.FindPage(ctx, page, bson.M(conditions))
}

// FindPage 以任意 mongo 过滤器分页
func (d *MongoDaoImpl[T]) FindPage(ctx context.Context, page *Page, filter interface{}) ([]*T, int64, error) {
	total, err := d.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	_, size := page.Normalize()
	opts := options.Find().SetSkip(int64(page.Offset())).SetLimit(int64(size))
	if page != nil && page.Sort != "" {
		order := 1
		if page.Desc {
			order = -1
		}
		opts.SetSort(bson.D{{Key: page.Sort, Value: order}})
	}

	entities, err := d.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (d *MongoDaoImpl[T]) CountByMap(ctx context.Context, conditions map[string]interface{}) (int64, error) {
	count, err := d.coll.CountDocuments(ctx, bson.M(conditions))
	if err != nil {
		return 0, errorc.New("查询记录失败", err).DB()
	}
	return count, nil
}

// Find 通用查询方法
func (d *MongoDaoImpl[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := d.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	defer cursor.Close(ctx)

	entities := make([]*T, 0)
	if err = cursor.All(ctx, &entities); err != nil {
		return nil, errorc.New("解析记录失败", err).DB()
	}
	return entities, nil
}
