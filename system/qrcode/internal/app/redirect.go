package app

import (
	"context"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"
)

// ScanRequest 跳转请求携带的扫码上下文
type ScanRequest struct {
	IP        string
	UserAgent string
	Referer   string
	// Header 读取请求头
	Header func(name string) string
}

// Resolve 解析短码并异步记录扫码，记录失败不影响跳转
func (a *App) Resolve(ctx context.Context, code string, req ScanRequest) (*service.Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ResolveTimeout)
	defer cancel()

	if !service.IsWellFormedCode(code) {
		return nil, a.err.New("短码不存在", nil).NotFound()
	}

	q, err := sharedCached(a, ctx, codeCacheKey(code), a.cfg.ResolveCacheTTL, func() (*model.QRCode, error) {
		return a.ResolverService.Lookup(ctx, code)
	})
	if err != nil {
		if errorc.IsTransient(err) {
			return nil, a.err.New("短码解析超时", err).Unavailable()
		}
		return nil, err
	}

	now := a.now()
	res, err := a.ResolverService.Decide(q, now)
	if err != nil {
		return nil, err
	}

	a.recordAsync(ctx, q.ID, a.scanInput(req), now)
	return res, nil
}

func (a *App) scanInput(req ScanRequest) service.ScanInput {
	client := service.ClassifyUserAgent(req.UserAgent)
	in := service.ScanInput{
		Device:      client.Device,
		Browser:     client.Browser,
		OS:          client.OS,
		VisitorHash: service.VisitorHash(a.cfg.VisitorSalt, req.IP, req.UserAgent),
		Referer:     req.Referer,
	}
	if req.Header != nil {
		in.Location = service.CountryFromHeaders(req.Header, a.cfg.CountryHeaders)
	}
	return in
}

// recordAsync 脱离请求生命周期写入扫码记录，受 RecordTimeout 约束
func (a *App) recordAsync(ctx context.Context, qrCodeID string, in service.ScanInput, at time.Time) {
	a.recorders.Add(1)
	go func() {
		defer a.recorders.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.RecordTimeout)
		defer cancel()

		if err := a.ScanService.Record(rctx, qrCodeID, in, at); err != nil {
			a.log.WithTrace(ctx).WithQRCodeID(qrCodeID).WithErr(err).Warn("记录扫码失败")
		}
	}()
}
