package db

import (
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// AutoMigrate 自动执行所有数据库迁移
func AutoMigrate(db *gorm.DB) error {
	log := logger.GetLogger().WithEntryName("DatabaseMigration")

	log.Info("开始执行数据库迁移...")

	// 二维码组件表迁移（二维码、扫码记录、名片、分组）
	if err := qrcode.AutoMigrate(db, log); err != nil {
		return err
	}

	log.Info("数据库迁移完成")
	return nil
}

// EnsureMongoIndexes 使用 mongo 存储时创建索引
func EnsureMongoIndexes(db *mongo.Database) error {
	log := logger.GetLogger().WithEntryName("DatabaseMigration")
	return qrcode.EnsureMongoIndexes(db, log)
}
