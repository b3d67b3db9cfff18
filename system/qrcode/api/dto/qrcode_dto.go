package dto

import (
	"time"

	"qrhub/pkg/core/model/common"
)

// CampaignReq 活动设置，更新时整体替换
type CampaignReq struct {
	Objective        string           `json:"objective" validate:"max=255" comment:"活动目标"`
	DurationMode     string           `json:"durationMode" validate:"omitempty,oneof=UNLIMITED SCHEDULED" comment:"时长模式"`
	StartDate        *common.FlexTime `json:"startDate" comment:"开始时间"`
	EndDate          *common.FlexTime `json:"endDate" comment:"结束时间"`
	FallbackURL      string           `json:"fallbackUrl" validate:"max=2048" comment:"备用链接"`
	RedirectBehavior string           `json:"redirectBehavior" validate:"omitempty,oneof=ALWAYS_PRIMARY SMART_EXPIRATION" comment:"结束后跳转策略"`
}

// CreateQRCodeReq 创建二维码
type CreateQRCodeReq struct {
	Type            string       `json:"type" validate:"omitempty,oneof=URL PROFILE CAMPAIGN" comment:"类型"`
	IsDynamic       bool         `json:"isDynamic" comment:"是否动态码"`
	Name            string       `json:"name" validate:"max=128" comment:"名称"`
	TargetURL       string       `json:"targetUrl" validate:"max=2048" comment:"目标地址"`
	ProfileID       *string      `json:"profileId" comment:"名片ID"`
	Color           string       `json:"color" validate:"max=16" comment:"前景色"`
	BackgroundColor string       `json:"backgroundColor" validate:"max=16" comment:"背景色"`
	Campaign        *CampaignReq `json:"campaign" comment:"活动设置"`
}

// CreateCampaignReq 创建活动码，类型固定为 CAMPAIGN
type CreateCampaignReq struct {
	Name            string      `json:"name" validate:"max=128" comment:"名称"`
	TargetURL       string      `json:"targetUrl" validate:"max=2048" comment:"目标地址"`
	Color           string      `json:"color" validate:"max=16" comment:"前景色"`
	BackgroundColor string      `json:"backgroundColor" validate:"max=16" comment:"背景色"`
	Campaign        CampaignReq `json:"campaign" comment:"活动设置"`
}

// UpdateQRCodeReq 更新二维码，未传字段保持不变
type UpdateQRCodeReq struct {
	Name            *string      `json:"name" validate:"omitempty,max=128" comment:"名称"`
	TargetURL       *string      `json:"targetUrl" validate:"omitempty,max=2048" comment:"目标地址"`
	IsDynamic       *bool        `json:"isDynamic" comment:"是否动态码，创建后不可修改"`
	Color           *string      `json:"color" validate:"omitempty,max=16" comment:"前景色"`
	BackgroundColor *string      `json:"backgroundColor" validate:"omitempty,max=16" comment:"背景色"`
	Campaign        *CampaignReq `json:"campaign" comment:"活动设置"`
}

// ListQRCodeReq 列表查询参数
type ListQRCodeReq struct {
	PageNum int    `query:"pageNum" validate:"gte=0" comment:"页码"`
	Size    int    `query:"size" validate:"gte=0,lte=100" comment:"页大小"`
	Sort    string `query:"sort" validate:"omitempty,oneof=created_at updated_at scans name last_scan_at" comment:"排序字段"`
	Desc    bool   `query:"desc" comment:"是否倒序"`
	Type    string `query:"type" validate:"omitempty,oneof=URL PROFILE CAMPAIGN" comment:"类型"`
	Dynamic string `query:"dynamic" validate:"omitempty,oneof=true false" comment:"是否动态码"`
	Deleted bool   `query:"deleted" comment:"是否查询回收站"`
	Keyword string `query:"keyword" validate:"max=64" comment:"名称关键字"`
}

// CampaignDTO 活动设置
type CampaignDTO struct {
	Objective        string     `json:"objective" comment:"活动目标"`
	DurationMode     string     `json:"durationMode" comment:"时长模式"`
	StartDate        *time.Time `json:"startDate" comment:"开始时间"`
	EndDate          *time.Time `json:"endDate" comment:"结束时间"`
	FallbackURL      string     `json:"fallbackUrl" comment:"备用链接"`
	RedirectBehavior string     `json:"redirectBehavior" comment:"结束后跳转策略"`
}

// QRCodeDTO 二维码
type QRCodeDTO struct {
	ID              string       `json:"id" comment:"ID"`
	Code            string       `json:"code" comment:"短码"`
	Type            string       `json:"type" comment:"类型"`
	IsDynamic       bool         `json:"isDynamic" comment:"是否动态码"`
	Name            string       `json:"name" comment:"名称"`
	TargetURL       string       `json:"targetUrl" comment:"目标地址"`
	ProfileID       *string      `json:"profileId,omitempty" comment:"名片ID"`
	Color           string       `json:"color" comment:"前景色"`
	BackgroundColor string       `json:"backgroundColor" comment:"背景色"`
	ShortURL        string       `json:"shortUrl,omitempty" comment:"短链，仅动态码"`
	EncodedContent  string       `json:"encodedContent" comment:"图片中编码的内容"`
	Scans           int64        `json:"scans" comment:"扫码次数"`
	LastScanAt      *time.Time   `json:"lastScanAt" comment:"最近扫码时间"`
	DeletedAt       *time.Time   `json:"deletedAt" comment:"移入回收站时间"`
	Campaign        *CampaignDTO `json:"campaign,omitempty" comment:"活动设置"`
	CampaignState   string       `json:"campaignState,omitempty" comment:"活动当前状态"`
	CreatedAt       time.Time    `json:"createdAt" comment:"创建时间"`
	UpdatedAt       time.Time    `json:"updatedAt" comment:"更新时间"`
}
