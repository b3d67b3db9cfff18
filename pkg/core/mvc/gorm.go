package mvc

import (
	"context"

	errorc "qrhub/pkg/core/err"

	"gorm.io/gorm"
)

// GormDaoImpl GORM数据访问实现
type GormDaoImpl[T any] struct {
	db *gorm.DB
}

// NewGormDao 创建GORM数据访问实例
func NewGormDao[T any](db *gorm.DB) *GormDaoImpl[T] {
	return &GormDaoImpl[T]{
		db: db,
	}
}

// DB 暴露底层连接，供领域 Dao 编写专用查询
func (d *GormDaoImpl[T]) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

func (d *GormDaoImpl[T]) Create(ctx context.Context, entity *T) error {
	err := d.db.WithContext(ctx).Create(entity).Error
	if err != nil {
		return errorc.New("数据库操作失败", err).DB()
	}
	return nil
}

func (d *GormDaoImpl[T]) FindById(ctx context.Context, id string) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := d.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return errorc.New("更新记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return errorc.New("要更新的记录不存在", nil).NotFound()
	}
	return nil
}

func (d *GormDaoImpl[T]) UpdateByMap(ctx context.Context, conditions map[string]interface{}, fields map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(new(T)).Where(conditions).Updates(fields)
	if result.Error != nil {
		return 0, errorc.New("更新记录失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

func (d *GormDaoImpl[T]) DeleteById(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return errorc.New("删除记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return errorc.New("要删除的记录不存在", nil).NotFound()
	}
	return nil
}

func (d *GormDaoImpl[T]) FindByMap(ctx context.Context, conditions map[string]interface{}) ([]*T, error) {
	var entities []*T
	err := d.db.WithContext(ctx).Where(conditions).Find(&entities).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return entities, nil
}

func (d *GormDaoImpl[T]) FindPageByMap(ctx context.Context, page *Page, conditions map[string]interface{}) ([]*T, int64, error) {
	var entities []*T
	var total int64

	db := d.db.WithContext(ctx).Model(new(T))
	if len(conditions) > 0 {
		db = db.Where(conditions)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	if err := db.Scopes(Paginate(page)).Find(&entities).Error; err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	return entities, total, nil
}

func (d *GormDaoImpl[T]) CountByMap(ctx context.Context, conditions map[string]interface{}) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(new(T)).Where(conditions).Count(&count).Error
	if err != nil {
		return 0, errorc.New("查询记录失败", err).DB()
	}
	return count, nil
}
