package model

import "time"

// DurationMode 活动时长模式
type DurationMode string

const (
	DurationUnlimited DurationMode = "UNLIMITED"
	DurationScheduled DurationMode = "SCHEDULED"
)

// RedirectBehavior 活动结束后的跳转策略
type RedirectBehavior string

const (
	// RedirectAlwaysPrimary 结束后仍跳转主链接
	RedirectAlwaysPrimary RedirectBehavior = "ALWAYS_PRIMARY"
	// RedirectSmartExpiration 结束后跳转备用链接，未配置备用链接则视为过期
	RedirectSmartExpiration RedirectBehavior = "SMART_EXPIRATION"
)

// CampaignState 活动在某一时刻的状态，读取时计算，不落库
type CampaignState string

const (
	CampaignStateUnlimited CampaignState = "UNLIMITED"
	CampaignStatePending   CampaignState = "PENDING"
	CampaignStateRunning   CampaignState = "RUNNING"
	// CampaignStateEnded 已结束但按 ALWAYS_PRIMARY 继续跳转主链接
	CampaignStateEnded    CampaignState = "ENDED"
	CampaignStateFallback CampaignState = "FALLBACK"
	CampaignStateExpired  CampaignState = "EXPIRED"
)

// CampaignSettings 活动码附加字段，仅 Type 为 CAMPAIGN 时有意义
type CampaignSettings struct {
	Objective        string           `gorm:"type:varchar(255)" bson:"objective" json:"objective"`
	DurationMode     DurationMode     `gorm:"type:varchar(16)" bson:"duration_mode" json:"durationMode"`
	StartDate        *time.Time       `bson:"start_date" json:"startDate"`
	EndDate          *time.Time       `bson:"end_date" json:"endDate"`
	FallbackURL      string           `gorm:"type:varchar(2048)" bson:"fallback_url" json:"fallbackUrl"`
	RedirectBehavior RedirectBehavior `gorm:"type:varchar(32)" bson:"redirect_behavior" json:"redirectBehavior"`
}

// StateAt 计算 now 时刻的活动状态，时间窗口两端均为闭区间
func (c *CampaignSettings) StateAt(now time.Time) CampaignState {
	if c.DurationMode != DurationScheduled || c.StartDate == nil || c.EndDate == nil {
		return CampaignStateUnlimited
	}
	if now.Before(*c.StartDate) {
		return CampaignStatePending
	}
	if !now.After(*c.EndDate) {
		return CampaignStateRunning
	}
	if c.RedirectBehavior == RedirectSmartExpiration {
		if c.FallbackURL != "" {
			return CampaignStateFallback
		}
		return CampaignStateExpired
	}
	return CampaignStateEnded
}
