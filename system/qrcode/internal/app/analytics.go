package app

import (
	"context"
	"fmt"

	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"
)

func analyticsKey(qrCodeID, kind string) string {
	return fmt.Sprintf("qrcode:analytics:%s:%s", qrCodeID, kind)
}

func analyticsKeys(qrCodeID string) []string {
	return []string{
		analyticsKey(qrCodeID, "devices"),
		analyticsKey(qrCodeID, "browsers"),
		analyticsKey(qrCodeID, "stats"),
	}
}

// Timeline 按天统计，先校验归属再读缓存
func (a *App) Timeline(ctx context.Context, ownerID, id string, days int) ([]service.TimelinePoint, error) {
	q, err := a.QRCodeService.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	days = service.ClampDays(days)
	key := analyticsKey(q.ID, fmt.Sprintf("timeline:%d", days))
	return cached(a, ctx, key, a.cfg.AnalyticsCacheTTL, func() ([]service.TimelinePoint, error) {
		return a.AnalyticsService.Timeline(ctx, q.ID, days, a.now())
	})
}

func (a *App) DeviceBreakdown(ctx context.Context, ownerID, id string) (map[string]int64, error) {
	q, err := a.QRCodeService.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return cached(a, ctx, analyticsKey(q.ID, "devices"), a.cfg.AnalyticsCacheTTL, func() (map[string]int64, error) {
		return a.AnalyticsService.DeviceBreakdown(ctx, q.ID)
	})
}

func (a *App) BrowserBreakdown(ctx context.Context, ownerID, id string) (map[string]int64, error) {
	q, err := a.QRCodeService.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return cached(a, ctx, analyticsKey(q.ID, "browsers"), a.cfg.AnalyticsCacheTTL, func() (map[string]int64, error) {
		return a.AnalyticsService.BrowserBreakdown(ctx, q.ID)
	})
}

func (a *App) Stats(ctx context.Context, ownerID, id string) (*service.Stats, error) {
	q, err := a.QRCodeService.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return cached(a, ctx, analyticsKey(q.ID, "stats"), a.cfg.AnalyticsCacheTTL, func() (*service.Stats, error) {
		return a.AnalyticsService.Stats(ctx, q, a.now())
	})
}

// TopPerformers 不走缓存，排行依赖实时计数
func (a *App) TopPerformers(ctx context.Context, ownerID string, limit int) ([]*model.QRCode, error) {
	return a.AnalyticsService.TopPerformers(ctx, ownerID, limit)
}

func (a *App) OwnerSummary(ctx context.Context, ownerID string) (*model.OwnerSummary, error) {
	return a.AnalyticsService.OwnerSummary(ctx, ownerID)
}
