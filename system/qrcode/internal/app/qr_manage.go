package app

import (
	"context"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"
)

// CreateQRCode 创建二维码；名片码未填目标地址时指向名片公开页
func (a *App) CreateQRCode(ctx context.Context, ownerID string, in *service.CreateInput) (*model.QRCode, error) {
	if in.Type == model.QRTypeProfile && in.ProfileID != nil && *in.ProfileID != "" {
		if _, err := a.ProfileService.Get(ctx, *in.ProfileID, ownerID); err != nil {
			if errorc.IsNotFound(err) {
				return nil, a.err.New("参数校验失败", nil).
					WithFields(errorc.FieldError{Field: "profileId", Message: "名片不存在"})
			}
			return nil, err
		}
		if in.TargetURL == "" {
			in.TargetURL = a.ProfileURL(*in.ProfileID)
		}
	}
	if in.Type == model.QRTypeCampaign {
		return a.CampaignService.Create(ctx, ownerID, in)
	}
	return a.QRCodeService.Create(ctx, ownerID, in)
}

// CreateCampaign 创建活动码
func (a *App) CreateCampaign(ctx context.Context, ownerID string, in *service.CreateInput) (*model.QRCode, error) {
	return a.CampaignService.Create(ctx, ownerID, in)
}

// CheckCampaign 校验活动码参数，用于和请求体校验结果合并
func (a *App) CheckCampaign(in *service.CreateInput) []errorc.FieldError {
	return a.CampaignService.Check(in)
}

func (a *App) GetQRCode(ctx context.Context, ownerID, id string) (*model.QRCode, error) {
	return a.QRCodeService.Get(ctx, id, ownerID)
}

func (a *App) ListQRCodes(ctx context.Context, ownerID string, filter dao.QRCodeFilter, page *mvc.Page) ([]*model.QRCode, int64, error) {
	return a.QRCodeService.List(ctx, ownerID, filter, page)
}

func (a *App) UpdateQRCode(ctx context.Context, ownerID, id string, in *service.UpdateInput) (*model.QRCode, error) {
	q, err := a.QRCodeService.Update(ctx, id, ownerID, in)
	if err != nil {
		return nil, err
	}
	a.evict(ctx, codeCacheKey(q.Code))
	return q, nil
}

func (a *App) UpdateCampaign(ctx context.Context, ownerID, id string, in *service.UpdateInput) (*model.QRCode, error) {
	q, err := a.CampaignService.Update(ctx, id, ownerID, in)
	if err != nil {
		return nil, err
	}
	a.evict(ctx, codeCacheKey(q.Code))
	return q, nil
}

// DeleteQRCode 移入回收站，重复删除不报错
func (a *App) DeleteQRCode(ctx context.Context, ownerID, id string) (*model.QRCode, error) {
	q, err := a.QRCodeService.SoftDelete(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	a.evict(ctx, codeCacheKey(q.Code))
	return q, nil
}

func (a *App) RestoreQRCode(ctx context.Context, ownerID, id string) (*model.QRCode, error) {
	q, err := a.QRCodeService.Restore(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	a.evict(ctx, codeCacheKey(q.Code))
	return q, nil
}

// PurgeQRCode 永久删除回收站中的二维码
func (a *App) PurgeQRCode(ctx context.Context, ownerID, id string) error {
	q, err := a.QRCodeService.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := a.QRCodeService.HardDelete(ctx, id, ownerID); err != nil {
		return err
	}
	a.evict(ctx, append([]string{codeCacheKey(q.Code)}, analyticsKeys(q.ID)...)...)
	return nil
}

// EncodedContent 写入二维码图片的内容：静态码为目标地址，动态码为短链
func (a *App) EncodedContent(q *model.QRCode) string {
	if q.IsDynamic {
		return a.ShortURL(q.Code)
	}
	return q.TargetURL
}
