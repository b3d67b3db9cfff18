package mvc

import (
	"context"
)

// IBaseDao 通用数据访问接口，gorm 与 mongo 两套实现共用
//
// 条件 map 的 key 统一使用列名（mongo 中为同名 bson 字段）。
type IBaseDao[T any] interface {
	// Create 创建记录
	Create(ctx context.Context, entity *T) error
	// FindById 根据ID查询，不存在时返回 NotFound
	FindById(ctx context.Context, id string) (*T, error)
	// UpdateFields 根据ID更新部分字段，不存在时返回 NotFound
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// UpdateByMap 按条件批量更新，返回影响行数
	UpdateByMap(ctx context.Context, conditions map[string]interface{}, fields map[string]interface{}) (int64, error)
	// DeleteById 根据ID物理删除，不存在时返回 NotFound
	DeleteById(ctx context.Context, id string) error
	// FindByMap 根据多个条件查询记录
	FindByMap(ctx context.Context, conditions map[string]interface{}) ([]*T, error)
	// FindPageByMap 分页查询
	FindPageByMap(ctx context.Context, page *Page, conditions map[string]interface{}) ([]*T, int64, error)
	// CountByMap 根据多个条件统计记录数
	CountByMap(ctx context.Context, conditions map[string]interface{}) (int64, error)
}
