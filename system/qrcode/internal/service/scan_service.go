package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
)

const defaultRetryBackoff = 50 * time.Millisecond

// ScanInput 一次扫码的上下文
type ScanInput struct {
	Device      string
	Browser     string
	OS          string
	Location    string
	VisitorHash string
	Referer     string
}

// ScanService 扫码记录：追加事件并原子递增计数，两步互不依赖
type ScanService struct {
	QR      dao.QRCodeDao
	Events  dao.ScanEventDao
	backoff time.Duration
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

func NewScanService(qrDao dao.QRCodeDao, events dao.ScanEventDao, log *logger.Log) *ScanService {
	return &ScanService{
		QR:      qrDao,
		Events:  events,
		backoff: defaultRetryBackoff,
		log:     log.WithEntryName("ScanService"),
		err:     errorc.NewErrorBuilder("ScanService"),
	}
}

// Record 记录一次扫码。瞬时故障各重试一次，事件与计数之间允许出现偏差
func (s *ScanService) Record(ctx context.Context, qrCodeID string, in ScanInput, at time.Time) error {
	at = at.UTC()
	if in.Device == "" {
		in.Device = model.DeviceUnknown
	}
	event := &model.ScanEvent{
		ID:          uuid.NewString(),
		QRCodeID:    qrCodeID,
		ScannedAt:   at,
		Device:      in.Device,
		Browser:     truncate(in.Browser, 64),
		OS:          truncate(in.OS, 64),
		Location:    in.Location,
		VisitorHash: in.VisitorHash,
		Referer:     truncate(in.Referer, 512),
	}

	eventErr := s.retryOnce(ctx, func() error {
		return s.Events.Create(ctx, event)
	})
	if eventErr != nil {
		eventErr = s.err.New("写入扫码事件失败", eventErr).DB()
	}

	counterErr := s.retryOnce(ctx, func() error {
		return s.QR.IncrementScans(ctx, qrCodeID, at)
	})
	if counterErr != nil {
		counterErr = s.err.New("递增扫码次数失败", counterErr).DB()
	}

	return errors.Join(eventErr, counterErr)
}

func (s *ScanService) retryOnce(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !errorc.IsTransient(err) {
		return err
	}

	s.log.WithErr(err).Warn("存储瞬时故障，重试一次")
	timer := time.NewTimer(s.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return err
	case <-timer.C:
	}
	return op()
}

// truncate 按字节上限截断，不切开多字节字符
func truncate(v string, n int) string {
	if len(v) <= n {
		return v
	}
	for n > 0 && !utf8.RuneStart(v[n]) {
		n--
	}
	return v[:n]
}
