package mvc

import (
	"context"
)

// BaseService 基础服务实现，领域服务嵌入后按需扩展
type BaseService[T any] struct {
	Dao IBaseDao[T]
}

// NewBaseService 创建基础服务实例
func NewBaseService[T any](dao IBaseDao[T]) *BaseService[T] {
	return &BaseService[T]{
		Dao: dao,
	}
}

func (s *BaseService[T]) FindById(ctx context.Context, id string) (*T, error) {
	return s.Dao.FindById(ctx, id)
}

func (s *BaseService[T]) FindPageByMap(ctx context.Context, page *Page, conditions map[string]interface{}) ([]*T, int64, error) {
	return s.Dao.FindPageByMap(ctx, page, conditions)
}

func (s *BaseService[T]) DeleteById(ctx context.Context, id string) error {
	return s.Dao.DeleteById(ctx, id)
}
