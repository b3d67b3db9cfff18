package service

import (
	"context"
	"strings"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
)

// QRCodeOptions 二维码服务参数
type QRCodeOptions struct {
	CodeLength  int
	CodeRetries int
}

// CreateInput 创建二维码参数
type CreateInput struct {
	Type            model.QRType
	IsDynamic       bool
	Name            string
	TargetURL       string
	ProfileID       *string
	Color           string
	BackgroundColor string
	Campaign        *model.CampaignSettings
}

// UpdateInput 更新参数，nil 字段保持不变
type UpdateInput struct {
	Name            *string
	TargetURL       *string
	IsDynamic       *bool
	Color           *string
	BackgroundColor *string
	// Campaign 非空时整体替换活动设置，仅对活动码有效
	Campaign *model.CampaignSettings
}

func (in *UpdateInput) empty() bool {
	return in == nil || (in.Name == nil && in.TargetURL == nil && in.IsDynamic == nil &&
		in.Color == nil && in.BackgroundColor == nil && in.Campaign == nil)
}

// 列表允许的排序字段
var sortableColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"scans":        true,
	"name":         true,
	"last_scan_at": true,
}

// QRCodeService 二维码生命周期
type QRCodeService struct {
	Dao  dao.QRCodeDao
	opts QRCodeOptions
	now  func() time.Time
	log  *logger.Log
	err  *errorc.ErrorBuilder
}

func NewQRCodeService(qrDao dao.QRCodeDao, opts QRCodeOptions, log *logger.Log) *QRCodeService {
	if opts.CodeLength <= 0 {
		opts.CodeLength = 7
	}
	if opts.CodeRetries <= 0 {
		opts.CodeRetries = 5
	}
	return &QRCodeService{
		Dao:  qrDao,
		opts: opts,
		now:  func() time.Time { return time.Now().UTC() },
		log:  log.WithEntryName("QRCodeService"),
		err:  errorc.NewErrorBuilder("QRCodeService"),
	}
}

// Now 服务使用的当前时间
func (s *QRCodeService) Now() time.Time {
	return s.now()
}

func (s *QRCodeService) Create(ctx context.Context, ownerID string, in *CreateInput) (*model.QRCode, error) {
	entity, fields := s.prepare(ownerID, in)
	if len(fields) > 0 {
		return nil, s.err.Validation("参数校验失败", fields)
	}

	code, err := s.issueCode(ctx)
	if err != nil {
		return nil, err
	}
	entity.Code = code
	entity.Init(s.now())

	if err := s.Dao.Create(ctx, entity); err != nil {
		return nil, s.err.New("创建二维码失败", err).DB()
	}

	s.log.WithOwnerID(ownerID).WithQRCodeID(entity.ID).
		WithField("code", entity.Code).
		WithField("dynamic", entity.IsDynamic).
		Info("创建二维码")
	return entity, nil
}

// CheckCreate 校验创建参数，返回全部违规项，不落库
func (s *QRCodeService) CheckCreate(in *CreateInput) []errorc.FieldError {
	_, fields := s.prepare("", in)
	return fields
}

// prepare 规整输入并组装实体，同时收集所有字段错误
func (s *QRCodeService) prepare(ownerID string, in *CreateInput) (*model.QRCode, []errorc.FieldError) {
	var fields []errorc.FieldError

	if in.Type == "" {
		in.Type = model.QRTypeURL
	}
	if !in.Type.IsValid() {
		fields = append(fields, errorc.FieldError{Field: "type", Message: "type必须是[URL PROFILE CAMPAIGN]中的一个"})
	}

	in.TargetURL = strings.TrimSpace(in.TargetURL)
	if fe := CheckTargetURL("targetUrl", in.TargetURL); fe != nil {
		fields = append(fields, *fe)
	}

	entity := &model.QRCode{
		OwnerID:         ownerID,
		Type:            in.Type,
		IsDynamic:       in.IsDynamic,
		Name:            strings.TrimSpace(in.Name),
		TargetURL:       in.TargetURL,
		Color:           in.Color,
		BackgroundColor: in.BackgroundColor,
	}

	switch in.Type {
	case model.QRTypeCampaign:
		entity.IsDynamic = true
		if in.Campaign != nil {
			entity.Campaign = *in.Campaign
		}
		NormalizeCampaign(&entity.Campaign)
		fields = append(fields, ValidateCampaign(&entity.Campaign)...)
	case model.QRTypeProfile:
		if in.ProfileID == nil || *in.ProfileID == "" {
			fields = append(fields, errorc.FieldError{Field: "profileId", Message: "profileId不能为空"})
		}
		entity.ProfileID = in.ProfileID
	}

	return entity, fields
}

// issueCode 生成未被占用的短码，冲突时重试
func (s *QRCodeService) issueCode(ctx context.Context) (string, error) {
	for i := 0; i < s.opts.CodeRetries; i++ {
		code, err := GenerateShortCode(s.opts.CodeLength)
		if err != nil {
			return "", s.err.New("生成短码失败", err)
		}
		exists, err := s.Dao.ExistsCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.log.WithField("code", code).Warn("短码冲突，重新生成")
	}
	return "", s.err.Internal("短码生成重试次数耗尽")
}

func (s *QRCodeService) Get(ctx context.Context, id, ownerID string) (*model.QRCode, error) {
	return s.Dao.FindByIdAndOwner(ctx, id, ownerID)
}

// List 默认按创建时间倒序
func (s *QRCodeService) List(ctx context.Context, ownerID string, filter dao.QRCodeFilter, page *mvc.Page) ([]*model.QRCode, int64, error) {
	p := mvc.Page{}
	if page != nil {
		p = *page
	}
	if !sortableColumns[p.Sort] {
		p.Sort = "created_at"
		p.Desc = true
	}
	return s.Dao.List(ctx, ownerID, filter, &p)
}

func (s *QRCodeService) Update(ctx context.Context, id, ownerID string, in *UpdateInput) (*model.QRCode, error) {
	q, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if in.empty() {
		return q, nil
	}
	if q.IsDeleted() {
		return nil, s.err.New("回收站中的二维码不能修改", nil).InvalidState()
	}
	if in.IsDynamic != nil && *in.IsDynamic != q.IsDynamic {
		return nil, s.err.New("isDynamic 创建后不可修改", nil).InvalidState()
	}

	updates := make(map[string]interface{})
	var fields []errorc.FieldError

	if in.TargetURL != nil {
		target := strings.TrimSpace(*in.TargetURL)
		if target != q.TargetURL {
			if !q.IsDynamic {
				return nil, s.err.New("静态二维码的目标地址不可修改", nil).StaticImmutable()
			}
			if fe := CheckTargetURL("targetUrl", target); fe != nil {
				fields = append(fields, *fe)
			}
			updates["target_url"] = target
		}
	}

	var campaign *model.CampaignSettings
	if in.Campaign != nil {
		if !q.IsCampaign() {
			fields = append(fields, errorc.FieldError{Field: "campaign", Message: "campaign仅适用于活动码"})
		} else {
			settings := *in.Campaign
			NormalizeCampaign(&settings)
			fields = append(fields, ValidateCampaign(&settings)...)
			campaign = &settings
		}
	}

	if len(fields) > 0 {
		return nil, s.err.Validation("参数校验失败", fields)
	}

	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		updates["color"] = *in.Color
	}
	if in.BackgroundColor != nil {
		updates["background_color"] = *in.BackgroundColor
	}

	now := s.now()
	if len(updates) > 0 {
		updates["updated_at"] = now
		if err := s.Dao.UpdateFields(ctx, id, updates); err != nil {
			return nil, s.err.New("更新二维码失败", err).DB()
		}
	}
	if campaign != nil {
		if err := s.Dao.UpdateCampaign(ctx, id, *campaign, now); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id, ownerID)
}

// SoftDelete 放入回收站；已在回收站时直接返回，不会刷新删除时间
func (s *QRCodeService) SoftDelete(ctx context.Context, id, ownerID string) (*model.QRCode, error) {
	q, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if q.IsDeleted() {
		return q, nil
	}
	if _, err := s.Dao.SoftDelete(ctx, id, ownerID, s.now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, ownerID)
}

func (s *QRCodeService) Restore(ctx context.Context, id, ownerID string) (*model.QRCode, error) {
	q, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !q.IsDeleted() {
		return nil, s.err.New("二维码不在回收站中", nil).InvalidState()
	}
	if _, err := s.Dao.Restore(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, ownerID)
}

// HardDelete 永久删除，必须先放入回收站
func (s *QRCodeService) HardDelete(ctx context.Context, id, ownerID string) error {
	q, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !q.IsDeleted() {
		return s.err.New("请先将二维码移入回收站", nil).InvalidState()
	}
	deleted, err := s.Dao.HardDelete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		// 期间被恢复
		return s.err.New("二维码不在回收站中", nil).InvalidState()
	}
	s.log.WithOwnerID(ownerID).WithQRCodeID(id).Info("永久删除二维码")
	return nil
}

// PurgeTrashed 清理删除时间早于 before 的回收站记录，返回清理数量
func (s *QRCodeService) PurgeTrashed(ctx context.Context, before time.Time, batch int) (int, error) {
	if batch <= 0 {
		batch = 100
	}
	purged := 0
	for {
		list, err := s.Dao.FindTrashedBefore(ctx, before, batch)
		if err != nil {
			return purged, err
		}
		removed := 0
		for _, q := range list {
			ok, err := s.Dao.HardDelete(ctx, q.ID, q.OwnerID)
			if err != nil {
				return purged, err
			}
			if ok {
				removed++
			}
		}
		purged += removed
		if len(list) < batch || removed == 0 {
			return purged, nil
		}
	}
}
