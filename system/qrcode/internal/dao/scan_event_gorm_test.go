package dao

import (
	"context"
	"testing"
	"time"

	"qrhub/system/qrcode/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanEventGormDao_Aggregates(t *testing.T) {
	ctx := context.Background()
	_, events := newTestDaos(t)
	base := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

	add := func(at time.Time, device, browser, location, visitor string) {
		require.NoError(t, events.Create(ctx, &model.ScanEvent{
			ID:          uuid.NewString(),
			QRCodeID:    "qr-1",
			ScannedAt:   at,
			Device:      device,
			Browser:     browser,
			Location:    location,
			VisitorHash: visitor,
		}))
	}
	add(base, model.DeviceMobile, "Safari", "US", "v1")
	add(base.Add(time.Hour), model.DeviceMobile, "Chrome", "US", "v1")
	add(base.Add(24*time.Hour), model.DeviceDesktop, "Chrome", "DE", "v2")
	add(base.Add(48*time.Hour), model.DeviceTablet, "", "", "")

	total, err := events.CountByQRCode(ctx, "qr-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	t.Run("区间左闭右开", func(t *testing.T) {
		count, err := events.CountBetween(ctx, "qr-1", base, base.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		times, err := events.ScannedAtBetween(ctx, "qr-1", base.Add(time.Hour), base.Add(49*time.Hour))
		require.NoError(t, err)
		assert.Len(t, times, 3)
	})

	t.Run("分组忽略空值", func(t *testing.T) {
		buckets, err := events.GroupCount(ctx, "qr-1", ScanColumnBrowser)
		require.NoError(t, err)
		assert.Equal(t, []model.Bucket{{Key: "Chrome", Count: 2}, {Key: "Safari", Count: 1}}, buckets)

		buckets, err = events.GroupCount(ctx, "qr-1", ScanColumnLocation)
		require.NoError(t, err)
		require.NotEmpty(t, buckets)
		assert.Equal(t, "US", buckets[0].Key)
	})

	t.Run("独立访客", func(t *testing.T) {
		count, err := events.CountDistinctVisitors(ctx, "qr-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
