package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/model"

	"gorm.io/gorm"
)

var errNothingDeleted = errors.New("nothing deleted")

// QRCodeGormDao 二维码关系库实现
type QRCodeGormDao struct {
	*mvc.GormDaoImpl[model.QRCode]
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewQRCodeGormDao(db *gorm.DB, log *logger.Log) *QRCodeGormDao {
	return &QRCodeGormDao{
		GormDaoImpl: mvc.NewGormDao[model.QRCode](db),
		log:         log.WithEntryName("QRCodeDao"),
		err:         errorc.NewErrorBuilder("QRCodeDao"),
	}
}

func (d *QRCodeGormDao) FindByIdAndOwner(ctx context.Context, id, ownerID string) (*model.QRCode, error) {
	var result model.QRCode
	err := d.DB(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("二维码不存在", err).NotFound()
		}
		return nil, d.err.New("查询二维码失败", err).DB()
	}
	return &result, nil
}

func (d *QRCodeGormDao) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	var result model.QRCode
	err := d.DB(ctx).Where("code = ?", code).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("短码不存在", err).NotFound()
		}
		return nil, d.err.New("查询短码失败", err).DB()
	}
	return &result, nil
}

func (d *QRCodeGormDao) ExistsCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := d.DB(ctx).Model(&model.QRCode{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, d.err.New("检查短码是否存在失败", err).DB()
	}
	return count > 0, nil
}

func (d *QRCodeGormDao) List(ctx context.Context, ownerID string, filter QRCodeFilter, page *mvc.Page) ([]*model.QRCode, int64, error) {
	db := d.DB(ctx).Model(&model.QRCode{}).Where("owner_id = ?", ownerID)
	if filter.Deleted {
		db = db.Where("deleted_at IS NOT NULL")
	} else {
		db = db.Where("deleted_at IS NULL")
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Dynamic != nil {
		db = db.Where("is_dynamic = ?", *filter.Dynamic)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		db = db.Where("name LIKE ?", "%"+kw+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计二维码失败", err).DB()
	}

	list := make([]*model.QRCode, 0)
	if err := db.Scopes(mvc.Paginate(page)).Order("id DESC").Find(&list).Error; err != nil {
		return nil, 0, d.err.New("查询二维码列表失败", err).DB()
	}
	return list, total, nil
}

func (d *QRCodeGormDao) IncrementScans(ctx context.Context, id string, at time.Time) error {
	result := d.DB(ctx).Model(&model.QRCode{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"scans":        gorm.Expr("scans + ?", 1),
			"last_scan_at": gorm.Expr("CASE WHEN last_scan_at IS NULL OR last_scan_at < ? THEN ? ELSE last_scan_at END", at, at),
		})
	if result.Error != nil {
		return d.err.New("更新扫码次数失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return d.err.New("二维码不存在", nil).NotFound()
	}
	return nil
}

func (d *QRCodeGormDao) SoftDelete(ctx context.Context, id, ownerID string, at time.Time) (bool, error) {
	result := d.DB(ctx).Model(&model.QRCode{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", id, ownerID).
		UpdateColumn("deleted_at", at)
	if result.Error != nil {
		return false, d.err.New("删除二维码失败", result.Error).DB()
	}
	return result.RowsAffected > 0, nil
}

func (d *QRCodeGormDao) Restore(ctx context.Context, id, ownerID string) (bool, error) {
	result := d.DB(ctx).Model(&model.QRCode{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NOT NULL", id, ownerID).
		UpdateColumn("deleted_at", nil)
	if result.Error != nil {
		return false, d.err.New("恢复二维码失败", result.Error).DB()
	}
	return result.RowsAffected > 0, nil
}

func (d *QRCodeGormDao) HardDelete(ctx context.Context, id, ownerID string) (bool, error) {
	err := d.DB(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ? AND deleted_at IS NOT NULL", id, ownerID).Delete(&model.QRCode{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNothingDeleted
		}
		return tx.Where("qr_code_id = ?", id).Delete(&model.ScanEvent{}).Error
	})
	if errors.Is(err, errNothingDeleted) {
		return false, nil
	}
	if err != nil {
		return false, d.err.New("永久删除二维码失败", err).DB()
	}
	return true, nil
}

func (d *QRCodeGormDao) FindTrashedBefore(ctx context.Context, before time.Time, limit int) ([]*model.QRCode, error) {
	list := make([]*model.QRCode, 0)
	err := d.DB(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
		Order("deleted_at ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, d.err.New("查询回收站失败", err).DB()
	}
	return list, nil
}

// TopByScans 按扫码数降序，同分时最近扫码的在前，从未扫码的排在最后
func (d *QRCodeGormDao) TopByScans(ctx context.Context, ownerID string, limit int) ([]*model.QRCode, error) {
	list := make([]*model.QRCode, 0)
	err := d.DB(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("scans DESC").
		Order("last_scan_at IS NULL").
		Order("last_scan_at DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, d.err.New("查询排行失败", err).DB()
	}
	return list, nil
}

func (d *QRCodeGormDao) Summary(ctx context.Context, ownerID string) (*model.OwnerSummary, error) {
	var row struct {
		Total   int64
		Dynamic int64
		Trashed int64
		Scans   int64
	}
	err := d.DB(ctx).Model(&model.QRCode{}).
		Select("COUNT(CASE WHEN deleted_at IS NULL THEN 1 END) AS total, "+
			"COUNT(CASE WHEN deleted_at IS NULL AND is_dynamic = ? THEN 1 END) AS dynamic, "+
			"COUNT(CASE WHEN deleted_at IS NOT NULL THEN 1 END) AS trashed, "+
			"COALESCE(SUM(CASE WHEN deleted_at IS NULL THEN scans ELSE 0 END), 0) AS scans", true).
		Where("owner_id = ?", ownerID).
		Scan(&row).Error
	if err != nil {
		return nil, d.err.New("统计二维码失败", err).DB()
	}
	return &model.OwnerSummary{
		TotalCodes:   row.Total,
		DynamicCodes: row.Dynamic,
		TrashedCodes: row.Trashed,
		TotalScans:   row.Scans,
	}, nil
}

func (d *QRCodeGormDao) UpdateCampaign(ctx context.Context, id string, settings model.CampaignSettings, at time.Time) error {
	result := d.DB(ctx).Model(&model.QRCode{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"campaign_objective":         settings.Objective,
			"campaign_duration_mode":     settings.DurationMode,
			"campaign_start_date":        settings.StartDate,
			"campaign_end_date":          settings.EndDate,
			"campaign_fallback_url":      settings.FallbackURL,
			"campaign_redirect_behavior": settings.RedirectBehavior,
			"updated_at":                 at,
		})
	if result.Error != nil {
		return d.err.New("更新活动设置失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return d.err.New("二维码不存在", nil).NotFound()
	}
	return nil
}
