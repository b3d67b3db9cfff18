package service

import (
	"context"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/model"
)

// CampaignService 活动码的校验层，校验通过后交给 QRCodeService 落库
type CampaignService struct {
	QR  *QRCodeService
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewCampaignService(qr *QRCodeService, log *logger.Log) *CampaignService {
	return &CampaignService{
		QR:  qr,
		log: log.WithEntryName("CampaignService"),
		err: errorc.NewErrorBuilder("CampaignService"),
	}
}

// NormalizeCampaign 填充枚举缺省值
func NormalizeCampaign(c *model.CampaignSettings) {
	if c.DurationMode == "" {
		c.DurationMode = model.DurationUnlimited
	}
	if c.RedirectBehavior == "" {
		c.RedirectBehavior = model.RedirectAlwaysPrimary
	}
	if c.StartDate != nil {
		t := c.StartDate.UTC()
		c.StartDate = &t
	}
	if c.EndDate != nil {
		t := c.EndDate.UTC()
		c.EndDate = &t
	}
}

// ValidateCampaign 校验活动字段，返回全部违规项
func ValidateCampaign(c *model.CampaignSettings) []errorc.FieldError {
	var fields []errorc.FieldError
	add := func(field, msg string) {
		fields = append(fields, errorc.FieldError{Field: field, Message: msg})
	}

	switch c.DurationMode {
	case model.DurationUnlimited, model.DurationScheduled:
	default:
		add("campaign.durationMode", "durationMode必须是[UNLIMITED SCHEDULED]中的一个")
	}

	switch c.RedirectBehavior {
	case model.RedirectAlwaysPrimary, model.RedirectSmartExpiration:
	default:
		add("campaign.redirectBehavior", "redirectBehavior必须是[ALWAYS_PRIMARY SMART_EXPIRATION]中的一个")
	}

	scheduled := c.DurationMode == model.DurationScheduled
	if c.StartDate == nil && (scheduled || c.EndDate != nil) {
		add("campaign.startDate", "startDate不能为空")
	}
	if c.EndDate == nil && (scheduled || c.StartDate != nil) {
		add("campaign.endDate", "endDate不能为空")
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		add("campaign.endDate", "endDate不能早于startDate")
	}

	if c.FallbackURL != "" {
		if fe := CheckTargetURL("campaign.fallbackUrl", c.FallbackURL); fe != nil {
			fields = append(fields, *fe)
		}
	}

	return fields
}

// Create 创建活动码，活动码始终为动态码
func (s *CampaignService) Create(ctx context.Context, ownerID string, in *CreateInput) (*model.QRCode, error) {
	asCampaign(in)
	return s.QR.Create(ctx, ownerID, in)
}

// Check 只校验不落库，返回目标地址与活动设置的全部违规项
func (s *CampaignService) Check(in *CreateInput) []errorc.FieldError {
	asCampaign(in)
	return s.QR.CheckCreate(in)
}

func asCampaign(in *CreateInput) {
	in.Type = model.QRTypeCampaign
	in.IsDynamic = true
	if in.Campaign == nil {
		in.Campaign = &model.CampaignSettings{}
	}
}

// Update 更新活动码；settings 非空时整体替换活动设置
func (s *CampaignService) Update(ctx context.Context, id, ownerID string, in *UpdateInput) (*model.QRCode, error) {
	q, err := s.QR.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !q.IsCampaign() {
		return nil, s.err.New("该二维码不是活动码", nil).InvalidState()
	}
	return s.QR.Update(ctx, id, ownerID, in)
}
