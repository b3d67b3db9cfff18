package service

import (
	"context"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
)

// Resolution 短码解析结果
type Resolution struct {
	QRCodeID string
	URL      string
	State    model.CampaignState
	// Fallback 为 true 表示跳转到了活动备用链接
	Fallback bool
}

// ResolverService 短码解析
type ResolverService struct {
	Dao dao.QRCodeDao
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewResolverService(qrDao dao.QRCodeDao, log *logger.Log) *ResolverService {
	return &ResolverService{
		Dao: qrDao,
		log: log.WithEntryName("ResolverService"),
		err: errorc.NewErrorBuilder("ResolverService"),
	}
}

// Lookup 按短码查找可跳转的二维码；格式错误、不存在、已删除统一返回 NotFound
func (s *ResolverService) Lookup(ctx context.Context, code string) (*model.QRCode, error) {
	if !IsWellFormedCode(code) {
		return nil, s.err.New("短码不存在", nil).NotFound()
	}
	q, err := s.Dao.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if q.IsDeleted() {
		return nil, s.err.New("短码不存在", nil).NotFound()
	}
	return q, nil
}

// Decide 根据当前时间决定跳转目标
func (s *ResolverService) Decide(q *model.QRCode, now time.Time) (*Resolution, error) {
	res := &Resolution{QRCodeID: q.ID, URL: q.TargetURL}
	if !q.IsCampaign() {
		return res, nil
	}

	res.State = q.Campaign.StateAt(now)
	switch res.State {
	case model.CampaignStatePending:
		return nil, s.err.New("活动尚未开始", nil).NotActive()
	case model.CampaignStateExpired:
		return nil, s.err.New("活动已结束", nil).Expired()
	case model.CampaignStateFallback:
		res.URL = q.Campaign.FallbackURL
		res.Fallback = true
	}
	return res, nil
}

// Resolve 查找并决定跳转目标
func (s *ResolverService) Resolve(ctx context.Context, code string, now time.Time) (*Resolution, error) {
	q, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.Decide(q, now)
}
