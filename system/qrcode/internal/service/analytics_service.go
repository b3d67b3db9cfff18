package service

import (
	"context"
	"math"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
)

const (
	DefaultTimelineDays = 30
	MaxTimelineDays     = 365
	DefaultTopLimit     = 5
	MaxTopLimit         = 50

	dayLayout = "2006-01-02"
	trendSpan = 7 * 24 * time.Hour
)

// TimelinePoint 某一天的扫码数
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Stats 单个二维码的汇总指标
type Stats struct {
	TotalScans    int64   `json:"totalScans"`
	UniqueDevices int64   `json:"uniqueDevices"`
	TopLocation   string  `json:"topLocation"`
	ScanTrend     float64 `json:"scanTrend"`
}

// AnalyticsService 只读统计
type AnalyticsService struct {
	QR     dao.QRCodeDao
	Events dao.ScanEventDao
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

func NewAnalyticsService(qrDao dao.QRCodeDao, events dao.ScanEventDao, log *logger.Log) *AnalyticsService {
	return &AnalyticsService{
		QR:     qrDao,
		Events: events,
		log:    log.WithEntryName("AnalyticsService"),
		err:    errorc.NewErrorBuilder("AnalyticsService"),
	}
}

// ClampDays 修正时间线天数
func ClampDays(days int) int {
	if days <= 0 {
		return DefaultTimelineDays
	}
	if days > MaxTimelineDays {
		return MaxTimelineDays
	}
	return days
}

// Timeline 返回 [今天-days, 今天]（UTC，两端含）的逐日扫码数，共 days+1 个点，无扫码的日期补 0
func (s *AnalyticsService) Timeline(ctx context.Context, qrCodeID string, days int, now time.Time) ([]TimelinePoint, error) {
	days = ClampDays(days)
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -days)
	to := today.AddDate(0, 0, 1)

	times, err := s.Events.ScannedAtBetween(ctx, qrCodeID, from, to)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, days+1)
	for _, t := range times {
		counts[t.UTC().Format(dayLayout)]++
	}

	points := make([]TimelinePoint, 0, days+1)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		points = append(points, TimelinePoint{Date: key, Count: counts[key]})
	}
	return points, nil
}

func (s *AnalyticsService) breakdown(ctx context.Context, qrCodeID string, column dao.ScanColumn) (map[string]int64, error) {
	buckets, err := s.Events.GroupCount(ctx, qrCodeID, column)
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		result[b.Key] = b.Count
	}
	return result, nil
}

// DeviceBreakdown 全量历史按终端类型计数
func (s *AnalyticsService) DeviceBreakdown(ctx context.Context, qrCodeID string) (map[string]int64, error) {
	return s.breakdown(ctx, qrCodeID, dao.ScanColumnDevice)
}

func (s *AnalyticsService) BrowserBreakdown(ctx context.Context, qrCodeID string) (map[string]int64, error) {
	return s.breakdown(ctx, qrCodeID, dao.ScanColumnBrowser)
}

// TopPerformers 扫码数降序，同分时最近扫码在前
func (s *AnalyticsService) TopPerformers(ctx context.Context, ownerID string, limit int) ([]*model.QRCode, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	return s.QR.TopByScans(ctx, ownerID, limit)
}

func (s *AnalyticsService) Stats(ctx context.Context, q *model.QRCode, now time.Time) (*Stats, error) {
	now = now.UTC()
	stats := &Stats{TotalScans: q.Scans}

	unique, err := s.Events.CountDistinctVisitors(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	stats.UniqueDevices = unique

	locations, err := s.Events.GroupCount(ctx, q.ID, dao.ScanColumnLocation)
	if err != nil {
		return nil, err
	}
	if len(locations) > 0 {
		stats.TopLocation = locations[0].Key
	}

	// 最近 7 天包含 now 本身
	end := now.Add(time.Nanosecond)
	recent, err := s.Events.CountBetween(ctx, q.ID, now.Add(-trendSpan), end)
	if err != nil {
		return nil, err
	}
	previous, err := s.Events.CountBetween(ctx, q.ID, now.Add(-2*trendSpan), now.Add(-trendSpan))
	if err != nil {
		return nil, err
	}
	stats.ScanTrend = ScanTrend(recent, previous)
	return stats, nil
}

// ScanTrend 环比百分比，保留一位小数；上一周期为 0 时返回 0
func ScanTrend(recent, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	change := float64(recent-previous) / float64(previous) * 100
	return math.Round(change*10) / 10
}

func (s *AnalyticsService) OwnerSummary(ctx context.Context, ownerID string) (*model.OwnerSummary, error) {
	return s.QR.Summary(ctx, ownerID)
}
