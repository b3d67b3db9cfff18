package model

import (
	"time"

	"qrhub/pkg/core/model/common"
)

// QRCode 二维码（含活动码），活动码通过 Type 区分并使用 Campaign 字段
type QRCode struct {
	common.Model `bson:",inline"`
	OwnerID      string `gorm:"type:varchar(64);not null;index:idx_qr_owner_deleted,priority:1" bson:"owner_id" json:"ownerId"`
	Code         string `gorm:"type:varchar(32);not null;uniqueIndex" bson:"code" json:"code"`
	Type         QRType `gorm:"type:varchar(16);not null;index" bson:"type" json:"type"`
	IsDynamic    bool   `gorm:"not null;default:false" bson:"is_dynamic" json:"isDynamic"`
	Name         string `gorm:"type:varchar(128)" bson:"name" json:"name"`
	TargetURL    string `gorm:"type:varchar(2048);not null" bson:"target_url" json:"targetUrl"`
	// ProfileID PROFILE 类型引用的名片
	ProfileID       *string `gorm:"type:varchar(36);index" bson:"profile_id" json:"profileId"`
	Color           string  `gorm:"type:varchar(16)" bson:"color" json:"color"`
	BackgroundColor string  `gorm:"type:varchar(16)" bson:"background_color" json:"backgroundColor"`
	// Scans 扫码总数，只通过原子递增修改
	Scans      int64      `gorm:"not null;default:0;index" bson:"scans" json:"scans"`
	LastScanAt *time.Time `bson:"last_scan_at" json:"lastScanAt"`
	// DeletedAt 非空表示在回收站中
	DeletedAt *time.Time       `gorm:"index:idx_qr_owner_deleted,priority:2" bson:"deleted_at" json:"deletedAt"`
	Campaign  CampaignSettings `gorm:"embedded;embeddedPrefix:campaign_" bson:"campaign" json:"campaign"`
}

// TableName 设置表名
func (QRCode) TableName() string {
	return "qr_codes"
}

func (q *QRCode) IsDeleted() bool {
	return q.DeletedAt != nil
}

func (q *QRCode) IsCampaign() bool {
	return q.Type == QRTypeCampaign
}

// OwnerSummary 所有者维度的汇总
type OwnerSummary struct {
	TotalCodes   int64 `json:"totalCodes"`
	DynamicCodes int64 `json:"dynamicCodes"`
	TrashedCodes int64 `json:"trashedCodes"`
	TotalScans   int64 `json:"totalScans"`
}
