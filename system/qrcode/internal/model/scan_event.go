package model

import "time"

// 设备类别
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// ScanEvent 扫码事件，只追加不修改
type ScanEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	QRCodeID  string    `gorm:"type:varchar(36);not null;index:idx_scan_qr_time,priority:1" bson:"qr_code_id" json:"qrCodeId"`
	ScannedAt time.Time `gorm:"not null;index:idx_scan_qr_time,priority:2" bson:"scanned_at" json:"timestamp"`
	Device    string    `gorm:"type:varchar(16);not null" bson:"device" json:"device"`
	Browser   string    `gorm:"type:varchar(64)" bson:"browser" json:"browser"`
	OS        string    `gorm:"type:varchar(64)" bson:"os" json:"os"`
	// Location ISO 国家/地区码，无法判断时为空
	Location string `gorm:"type:varchar(8)" bson:"location" json:"location,omitempty"`
	// VisitorHash 访客指纹（IP + UA 加盐哈希），不保存原始 IP
	VisitorHash string `gorm:"type:varchar(64);index" bson:"visitor_hash" json:"-"`
	Referer     string `gorm:"type:varchar(512)" bson:"referer" json:"referer,omitempty"`
}

// TableName 设置表名
func (ScanEvent) TableName() string {
	return "scan_events"
}

// Bucket 分组计数
type Bucket struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
