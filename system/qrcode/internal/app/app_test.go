package app

import (
	"context"
	"testing"
	"time"

	"qrhub/pkg/core/config"
	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/pkg/scheduler"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/dao/daotest"
	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

func newTestApp(t *testing.T, withCache bool) *App {
	deps := Deps{
		DB:            daotest.NewDB(t),
		PublicBaseURL: "https://qr.test/",
		Config:        config.QRCodeConfig{TrashRetentionDays: 30},
		Log:           logger.GetLogger(),
	}
	if withCache {
		deps.Cache = config.InitCache(nil, 100)
	}
	return NewApp(deps)
}

func scanFrom(ua string) ScanRequest {
	return ScanRequest{
		IP:        "203.0.113.7",
		UserAgent: ua,
		Header: func(name string) string {
			if name == "CF-IPCountry" {
				return "de"
			}
			return ""
		},
	}
}

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestApp_ShortURLTrimsBase(t *testing.T) {
	a := newTestApp(t, false)
	assert.Equal(t, "https://qr.test/q/abc", a.ShortURL("abc"))
	assert.Equal(t, "https://qr.test/p/p1", a.ProfileURL("p1"))
}

func TestApp_EncodedContent(t *testing.T) {
	a := newTestApp(t, false)
	ctx := context.Background()

	static, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", a.EncodedContent(static))

	dynamic, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/b", IsDynamic: true})
	require.NoError(t, err)
	assert.Equal(t, a.ShortURL(dynamic.Code), a.EncodedContent(dynamic))
}

func TestApp_ResolveRecordsScan(t *testing.T) {
	a := newTestApp(t, false)
	ctx := context.Background()

	q, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/x", IsDynamic: true})
	require.NoError(t, err)

	res, err := a.Resolve(ctx, q.Code, scanFrom(iphoneUA))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", res.URL)

	a.WaitRecorders()

	got, err := a.GetQRCode(ctx, testOwner, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Scans)
	assert.NotNil(t, got.LastScanAt)

	devices, err := a.DeviceBreakdown(ctx, testOwner, q.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"mobile": 1}, devices)

	stats, err := a.Stats(ctx, testOwner, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalScans)
	assert.Equal(t, "DE", stats.TopLocation)
}

func TestApp_ResolveUnknownCode(t *testing.T) {
	a := newTestApp(t, true)
	ctx := context.Background()

	_, err := a.Resolve(ctx, "nope123", scanFrom(""))
	assert.True(t, errorc.IsNotFound(err))

	_, err = a.Resolve(ctx, "../etc", scanFrom(""))
	assert.True(t, errorc.IsNotFound(err))
}

func TestApp_UpdateEvictsResolveCache(t *testing.T) {
	a := newTestApp(t, true)
	ctx := context.Background()

	q, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/old", IsDynamic: true})
	require.NoError(t, err)

	res, err := a.Resolve(ctx, q.Code, scanFrom(""))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/old", res.URL)

	target := "https://example.com/new"
	_, err = a.UpdateQRCode(ctx, testOwner, q.ID, &service.UpdateInput{TargetURL: &target})
	require.NoError(t, err)

	res, err = a.Resolve(ctx, q.Code, scanFrom(""))
	require.NoError(t, err)
	assert.Equal(t, target, res.URL)

	_, err = a.DeleteQRCode(ctx, testOwner, q.ID)
	require.NoError(t, err)
	_, err = a.Resolve(ctx, q.Code, scanFrom(""))
	assert.True(t, errorc.IsNotFound(err))

	a.WaitRecorders()
}

func TestApp_ProfileCodeDefaultsToProfilePage(t *testing.T) {
	a := newTestApp(t, false)
	ctx := context.Background()

	name := "Ada"
	p, err := a.CreateProfile(ctx, testOwner, &service.ProfileInput{Name: &name})
	require.NoError(t, err)

	q, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{Type: model.QRTypeProfile, ProfileID: &p.ID})
	require.NoError(t, err)
	assert.Equal(t, a.ProfileURL(p.ID), q.TargetURL)

	// 其他所有者的名片不可引用
	_, err = a.CreateQRCode(ctx, "owner-2", &service.CreateInput{Type: model.QRTypeProfile, ProfileID: &p.ID})
	require.Error(t, err)
	assert.True(t, errorc.Is(err, errorc.ErrorCodeValid))
	assert.Equal(t, "profileId", errorc.ParseError(err).Fields[0].Field)
}

func TestApp_CampaignPendingIsNotRecorded(t *testing.T) {
	a := newTestApp(t, false)
	ctx := context.Background()

	start := time.Now().UTC().Add(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	q, err := a.CreateCampaign(ctx, testOwner, &service.CreateInput{
		TargetURL: "https://example.com/promo",
		Campaign: &model.CampaignSettings{
			DurationMode: model.DurationScheduled,
			StartDate:    &start,
			EndDate:      &end,
		},
	})
	require.NoError(t, err)

	_, err = a.Resolve(ctx, q.Code, scanFrom(""))
	assert.True(t, errorc.Is(err, errorc.ErrorCodeNotActive))
	a.WaitRecorders()

	got, err := a.GetQRCode(ctx, testOwner, q.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Scans)
}

func TestApp_PurgeTrash(t *testing.T) {
	a := newTestApp(t, false)
	ctx := context.Background()

	q, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/x"})
	require.NoError(t, err)
	_, err = a.DeleteQRCode(ctx, testOwner, q.ID)
	require.NoError(t, err)

	purged, err := a.PurgeTrash(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	a.now = func() time.Time { return time.Now().UTC().AddDate(0, 0, 31) }
	purged, err = a.PurgeTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = a.GetQRCode(ctx, testOwner, q.ID)
	assert.True(t, errorc.IsNotFound(err))

	list, total, err := a.ListQRCodes(ctx, testOwner, dao.QRCodeFilter{Deleted: true}, &mvc.Page{PageNum: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestApp_RegisterJobs(t *testing.T) {
	a := newTestApp(t, false)
	s := scheduler.NewScheduler(nil, "qrhub", logger.GetLogger())

	require.NoError(t, a.RegisterJobs(s))
	task := s.GetTask(purgeTaskName)
	require.NotNil(t, task)
	assert.Equal(t, scheduler.TaskExecuteModeDistributed, task.ExecuteMode)

	assert.Error(t, a.RegisterJobs(s))
}

func TestApp_PurgeQRCodeEvictsCaches(t *testing.T) {
	a := newTestApp(t, true)
	ctx := context.Background()

	q, err := a.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/p", IsDynamic: true})
	require.NoError(t, err)

	_, err = a.Resolve(ctx, q.Code, scanFrom(""))
	require.NoError(t, err)
	a.WaitRecorders()
	_, err = a.Stats(ctx, testOwner, q.ID)
	require.NoError(t, err)
	_, err = a.DeviceBreakdown(ctx, testOwner, q.ID)
	require.NoError(t, err)
	require.True(t, a.cache.Exists(ctx, analyticsKey(q.ID, "stats")))

	_, err = a.DeleteQRCode(ctx, testOwner, q.ID)
	require.NoError(t, err)
	require.NoError(t, a.PurgeQRCode(ctx, testOwner, q.ID))

	for _, key := range append([]string{codeCacheKey(q.Code)}, analyticsKeys(q.ID)...) {
		assert.False(t, a.cache.Exists(ctx, key), key)
	}
	_, err = a.Resolve(ctx, q.Code, scanFrom(""))
	assert.True(t, errorc.IsNotFound(err))
}

// 两个实例共用一个库，各自持有本地缓存层
func TestApp_SharedCacheResolveSeesOtherInstanceDelete(t *testing.T) {
	db := daotest.NewDB(t)
	newInstance := func() *App {
		return NewApp(Deps{
			DB:            db,
			Cache:         config.InitCache(nil, 100),
			SharedCache:   true,
			PublicBaseURL: "https://qr.test",
			Log:           logger.GetLogger(),
		})
	}
	writer, reader := newInstance(), newInstance()
	ctx := context.Background()

	q, err := writer.CreateQRCode(ctx, testOwner, &service.CreateInput{TargetURL: "https://example.com/old", IsDynamic: true})
	require.NoError(t, err)

	res, err := reader.Resolve(ctx, q.Code, scanFrom(""))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/old", res.URL)

	target := "https://example.com/new"
	_, err = writer.UpdateQRCode(ctx, testOwner, q.ID, &service.UpdateInput{TargetURL: &target})
	require.NoError(t, err)
	res, err = reader.Resolve(ctx, q.Code, scanFrom(""))
	require.NoError(t, err)
	assert.Equal(t, target, res.URL)

	_, err = writer.DeleteQRCode(ctx, testOwner, q.ID)
	require.NoError(t, err)
	_, err = reader.Resolve(ctx, q.Code, scanFrom(""))
	assert.True(t, errorc.IsNotFound(err))

	reader.WaitRecorders()
}

func TestApp_ResolveStorageTimeoutIsUnavailable(t *testing.T) {
	a := newTestApp(t, false)

	q, err := a.CreateQRCode(context.Background(), testOwner, &service.CreateInput{TargetURL: "https://example.com/x", IsDynamic: true})
	require.NoError(t, err)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err = a.Resolve(ctx, q.Code, scanFrom(""))
	require.Error(t, err)
	assert.True(t, errorc.Is(err, errorc.ErrorCodeUnavailable))
	assert.Contains(t, errorc.ParseError(err).RootCause(), "deadline exceeded")
}
