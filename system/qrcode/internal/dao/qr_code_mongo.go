package dao

import (
	"context"
	"regexp"
	"strings"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	QRCodeCollection    = "qr_codes"
	ScanEventCollection = "scan_events"
)

// QRCodeMongoDao 二维码文档库实现
type QRCodeMongoDao struct {
	*mvc.MongoDaoImpl[model.QRCode]
	events *mongo.Collection
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

func NewQRCodeMongoDao(db *mongo.Database, log *logger.Log) *QRCodeMongoDao {
	return &QRCodeMongoDao{
		MongoDaoImpl: mvc.NewMongoDao[model.QRCode](db.Collection(QRCodeCollection)),
		events:       db.Collection(ScanEventCollection),
		log:          log.WithEntryName("QRCodeDao"),
		err:          errorc.NewErrorBuilder("QRCodeDao"),
	}
}

func (d *QRCodeMongoDao) findOne(ctx context.Context, filter bson.M, notFoundMsg string) (*model.QRCode, error) {
	var result model.QRCode
	err := d.Coll().FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, d.err.New(notFoundMsg, err).NotFound()
		}
		return nil, d.err.New("查询二维码失败", err).DB()
	}
	return &result, nil
}

func (d *QRCodeMongoDao) FindByIdAndOwner(ctx context.Context, id, ownerID string) (*model.QRCode, error) {
	return d.findOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, "二维码不存在")
}

func (d *QRCodeMongoDao) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	return d.findOne(ctx, bson.M{"code": code}, "短码不存在")
}

func (d *QRCodeMongoDao) ExistsCode(ctx context.Context, code string) (bool, error) {
	count, err := d.Coll().CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, d.err.New("检查短码是否存在失败", err).DB()
	}
	return count > 0, nil
}

func (d *QRCodeMongoDao) List(ctx context.Context, ownerID string, filter QRCodeFilter, page *mvc.Page) ([]*model.QRCode, int64, error) {
	return d.FindPage(ctx, page, listFilter(ownerID, filter))
}

// listFilter 列表查询条件，关键字按名称做不区分大小写的包含匹配
func listFilter(ownerID string, filter QRCodeFilter) bson.M {
	query := bson.M{"owner_id": ownerID}
	if filter.Deleted {
		query["deleted_at"] = bson.M{"$ne": nil}
	} else {
		query["deleted_at"] = nil
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Dynamic != nil {
		query["is_dynamic"] = *filter.Dynamic
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
	}
	return query
}

// incrementScansUpdate 计数原子递增；最近扫码时间只前进不后退
func incrementScansUpdate(at time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"scans": 1},
		"$max": bson.M{"last_scan_at": at},
	}
}

func (d *QRCodeMongoDao) IncrementScans(ctx context.Context, id string, at time.Time) error {
	result, err := d.Coll().UpdateOne(ctx, bson.M{"_id": id}, incrementScansUpdate(at))
	if err != nil {
		return d.err.New("更新扫码次数失败", err).DB()
	}
	if result.MatchedCount == 0 {
		return d.err.New("二维码不存在", nil).NotFound()
	}
	return nil
}

func (d *QRCodeMongoDao) SoftDelete(ctx context.Context, id, ownerID string, at time.Time) (bool, error) {
	result, err := d.Coll().UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID, "deleted_at": nil},
		bson.M{"$set": bson.M{"deleted_at": at}})
	if err != nil {
		return false, d.err.New("删除二维码失败", err).DB()
	}
	return result.ModifiedCount > 0, nil
}

func (d *QRCodeMongoDao) Restore(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := d.Coll().UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID, "deleted_at": bson.M{"$ne": nil}},
		bson.M{"$set": bson.M{"deleted_at": nil}})
	if err != nil {
		return false, d.err.New("恢复二维码失败", err).DB()
	}
	return result.ModifiedCount > 0, nil
}

// HardDelete 先删主记录再删事件；事件删除失败只会留下孤立事件，不影响主流程
func (d *QRCodeMongoDao) HardDelete(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := d.Coll().DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID, "deleted_at": bson.M{"$ne": nil}})
	if err != nil {
		return false, d.err.New("永久删除二维码失败", err).DB()
	}
	if result.DeletedCount == 0 {
		return false, nil
	}
	if _, err := d.events.DeleteMany(ctx, bson.M{"qr_code_id": id}); err != nil {
		d.log.WithQRCodeID(id).WithErr(err).Error("删除扫码事件失败")
	}
	return true, nil
}

func (d *QRCodeMongoDao) FindTrashedBefore(ctx context.Context, before time.Time, limit int) ([]*model.QRCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: 1}}).SetLimit(int64(limit))
	return d.Find(ctx, bson.M{"deleted_at": bson.M{"$ne": nil, "$lt": before}}, opts)
}

// TopByScans mongo 中 null 排序最小，降序时从未扫码的自然排在最后
func (d *QRCodeMongoDao) TopByScans(ctx context.Context, ownerID string, limit int) ([]*model.QRCode, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "scans", Value: -1},
			{Key: "last_scan_at", Value: -1},
			{Key: "created_at", Value: -1},
		}).
		SetLimit(int64(limit))
	return d.Find(ctx, bson.M{"owner_id": ownerID, "deleted_at": nil}, opts)
}

// summaryPipeline 单次分组统计；deleted_at 缺失或为 null 都算作未删除
func summaryPipeline(ownerID string) mongo.Pipeline {
	live := bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$deleted_at", nil}}, nil}}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"total":   bson.M{"$sum": bson.M{"$cond": bson.A{live, 1, 0}}},
			"dynamic": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$and": bson.A{live, "$is_dynamic"}}, 1, 0}}},
			"trashed": bson.M{"$sum": bson.M{"$cond": bson.A{live, 0, 1}}},
			"scans":   bson.M{"$sum": bson.M{"$cond": bson.A{live, "$scans", 0}}},
		}}},
	}
}

func (d *QRCodeMongoDao) Summary(ctx context.Context, ownerID string) (*model.OwnerSummary, error) {
	cursor, err := d.Coll().Aggregate(ctx, summaryPipeline(ownerID))
	if err != nil {
		return nil, d.err.New("统计二维码失败", err).DB()
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total   int64 `bson:"total"`
		Dynamic int64 `bson:"dynamic"`
		Trashed int64 `bson:"trashed"`
		Scans   int64 `bson:"scans"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, d.err.New("解析统计结果失败", err).DB()
	}

	summary := &model.OwnerSummary{}
	if len(rows) > 0 {
		summary.TotalCodes = rows[0].Total
		summary.DynamicCodes = rows[0].Dynamic
		summary.TrashedCodes = rows[0].Trashed
		summary.TotalScans = rows[0].Scans
	}
	return summary, nil
}

func (d *QRCodeMongoDao) UpdateCampaign(ctx context.Context, id string, settings model.CampaignSettings, at time.Time) error {
	result, err := d.Coll().UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"campaign": settings, "updated_at": at}})
	if err != nil {
		return d.err.New("更新活动设置失败", err).DB()
	}
	if result.MatchedCount == 0 {
		return d.err.New("二维码不存在", nil).NotFound()
	}
	return nil
}
