package qrcode

import (
	"context"
	"time"

	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// AutoMigrate 自动执行二维码组件的数据库迁移
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移二维码组件表...")

	if err := db.AutoMigrate(
		&model.QRCode{},
		&model.ScanEvent{},
		&model.Profile{},
		&model.ProfileGroup{},
	); err != nil {
		log.WithErr(err).Error("二维码组件表迁移失败")
		return err
	}

	log.Info("二维码组件表迁移完成")
	return nil
}

// EnsureMongoIndexes 创建 mongo 集合索引
func EnsureMongoIndexes(db *mongo.Database, log *logger.Log) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dao.EnsureIndexes(ctx, db); err != nil {
		log.WithErr(err).Error("二维码组件索引创建失败")
		return err
	}
	log.Info("二维码组件索引创建完成")
	return nil
}
