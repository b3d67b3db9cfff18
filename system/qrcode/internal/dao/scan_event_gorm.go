package dao

import (
	"context"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/model"

	"gorm.io/gorm"
)

// ScanEventGormDao 扫码事件关系库实现
type ScanEventGormDao struct {
	db  *gorm.DB
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewScanEventGormDao(db *gorm.DB, log *logger.Log) *ScanEventGormDao {
	return &ScanEventGormDao{
		db:  db,
		log: log.WithEntryName("ScanEventDao"),
		err: errorc.NewErrorBuilder("ScanEventDao"),
	}
}

func (d *ScanEventGormDao) Create(ctx context.Context, event *model.ScanEvent) error {
	if err := d.db.WithContext(ctx).Create(event).Error; err != nil {
		return d.err.New("写入扫码事件失败", err).DB()
	}
	return nil
}

func (d *ScanEventGormDao) CountByQRCode(ctx context.Context, qrCodeID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.ScanEvent{}).Where("qr_code_id = ?", qrCodeID).Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计扫码事件失败", err).DB()
	}
	return count, nil
}

func (d *ScanEventGormDao) CountBetween(ctx context.Context, qrCodeID string, from, to time.Time) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.ScanEvent{}).
		Where("qr_code_id = ? AND scanned_at >= ? AND scanned_at < ?", qrCodeID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计扫码事件失败", err).DB()
	}
	return count, nil
}

func (d *ScanEventGormDao) ScannedAtBetween(ctx context.Context, qrCodeID string, from, to time.Time) ([]time.Time, error) {
	times := make([]time.Time, 0)
	err := d.db.WithContext(ctx).Model(&model.ScanEvent{}).
		Where("qr_code_id = ? AND scanned_at >= ? AND scanned_at < ?", qrCodeID, from, to).
		Pluck("scanned_at", &times).Error
	if err != nil {
		return nil, d.err.New("查询扫码时间失败", err).DB()
	}
	return times, nil
}

func (d *ScanEventGormDao) GroupCount(ctx context.Context, qrCodeID string, column ScanColumn) ([]model.Bucket, error) {
	var rows []struct {
		Name  string
		Total int64
	}
	col := string(column)
	err := d.db.WithContext(ctx).Model(&model.ScanEvent{}).
		Select(col+" AS name, COUNT(*) AS total").
		Where("qr_code_id = ? AND "+col+" <> ''", qrCodeID).
		Group(col).
		Order("total DESC").
		Order(col).
		Scan(&rows).Error
	if err != nil {
		return nil, d.err.New("分组统计扫码事件失败", err).DB()
	}

	buckets := make([]model.Bucket, 0, len(rows))
	for _, r := range rows {
		buckets = append(buckets, model.Bucket{Key: r.Name, Count: r.Total})
	}
	return buckets, nil
}

func (d *ScanEventGormDao) CountDistinctVisitors(ctx context.Context, qrCodeID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.ScanEvent{}).
		Where("qr_code_id = ? AND visitor_hash <> ''", qrCodeID).
		Distinct("visitor_hash").
		Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计独立访客失败", err).DB()
	}
	return count, nil
}
