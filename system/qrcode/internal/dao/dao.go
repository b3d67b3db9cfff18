package dao

import (
	"context"
	"time"

	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/model"
)

// QRCodeFilter 列表过滤条件
type QRCodeFilter struct {
	Type    model.QRType
	Dynamic *bool
	// Deleted 为 true 时只查回收站，否则只查未删除
	Deleted bool
	Keyword string
}

// QRCodeDao 二维码存储，gorm 与 mongo 各有一份实现
type QRCodeDao interface {
	mvc.IBaseDao[model.QRCode]
	// FindByIdAndOwner 跨所有者访问与不存在一样返回 NotFound
	FindByIdAndOwner(ctx context.Context, id, ownerID string) (*model.QRCode, error)
	FindByCode(ctx context.Context, code string) (*model.QRCode, error)
	ExistsCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, ownerID string, filter QRCodeFilter, page *mvc.Page) ([]*model.QRCode, int64, error)
	// IncrementScans 原子递增扫码数，lastScanAt 只会前进
	IncrementScans(ctx context.Context, id string, at time.Time) error
	// UpdateCampaign 整体覆盖活动字段
	UpdateCampaign(ctx context.Context, id string, settings model.CampaignSettings, at time.Time) error
	// SoftDelete 仅对未删除的记录生效，返回是否发生了变更
	SoftDelete(ctx context.Context, id, ownerID string, at time.Time) (bool, error)
	// Restore 仅对已删除的记录生效，返回是否发生了变更
	Restore(ctx context.Context, id, ownerID string) (bool, error)
	// HardDelete 物理删除回收站中的记录及其扫码事件，返回是否删除
	HardDelete(ctx context.Context, id, ownerID string) (bool, error)
	FindTrashedBefore(ctx context.Context, before time.Time, limit int) ([]*model.QRCode, error)
	TopByScans(ctx context.Context, ownerID string, limit int) ([]*model.QRCode, error)
	Summary(ctx context.Context, ownerID string) (*model.OwnerSummary, error)
}

// ScanColumn 允许分组统计的扫码事件字段
type ScanColumn string

const (
	ScanColumnDevice   ScanColumn = "device"
	ScanColumnBrowser  ScanColumn = "browser"
	ScanColumnLocation ScanColumn = "location"
)

// ScanEventDao 扫码事件存储，只追加
type ScanEventDao interface {
	Create(ctx context.Context, event *model.ScanEvent) error
	CountByQRCode(ctx context.Context, qrCodeID string) (int64, error)
	// CountBetween 统计 [from, to) 内的事件数
	CountBetween(ctx context.Context, qrCodeID string, from, to time.Time) (int64, error)
	// ScannedAtBetween 返回 [from, to) 内的事件时间
	ScannedAtBetween(ctx context.Context, qrCodeID string, from, to time.Time) ([]time.Time, error)
	// GroupCount 按字段分组计数，空值不计入
	GroupCount(ctx context.Context, qrCodeID string, column ScanColumn) ([]model.Bucket, error)
	CountDistinctVisitors(ctx context.Context, qrCodeID string) (int64, error)
}

var (
	_ QRCodeDao    = (*QRCodeGormDao)(nil)
	_ QRCodeDao    = (*QRCodeMongoDao)(nil)
	_ ScanEventDao = (*ScanEventGormDao)(nil)
	_ ScanEventDao = (*ScanEventMongoDao)(nil)
)
