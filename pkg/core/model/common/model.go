package common

import (
	"time"

	"github.com/google/uuid"
)

// Model 字符串主键的实体基类；bson 字段名与列名保持一致，便于两种存储共用查询条件
type Model struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt time.Time `gorm:"index" bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Init 补齐主键与时间戳，由创建路径调用
func (m *Model) Init(now time.Time) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now
}
