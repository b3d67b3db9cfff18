// Package daotest 提供基于内存 SQLite 的测试库
package daotest

import (
	"testing"
	"time"

	"qrhub/system/qrcode/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 打开迁移完成的内存库，单连接保证所有查询落在同一个库上
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.QRCode{},
		&model.ScanEvent{},
		&model.Profile{},
		&model.ProfileGroup{},
	))
	return db
}
