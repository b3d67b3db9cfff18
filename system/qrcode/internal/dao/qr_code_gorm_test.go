package dao

import (
	"context"
	"sync"
	"testing"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/dao/daotest"
	"qrhub/system/qrcode/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDaos(t *testing.T) (*QRCodeGormDao, *ScanEventGormDao) {
	db := daotest.NewDB(t)
	log := logger.GetLogger()
	return NewQRCodeGormDao(db, log), NewScanEventGormDao(db, log)
}

func seedQRCode(t *testing.T, d *QRCodeGormDao, owner, code string, created time.Time) *model.QRCode {
	q := &model.QRCode{
		OwnerID:   owner,
		Code:      code,
		Type:      model.QRTypeURL,
		IsDynamic: true,
		Name:      "code " + code,
		TargetURL: "https://example.com/" + code,
	}
	q.Init(created)
	require.NoError(t, d.Create(context.Background(), q))
	return q
}

func TestQRCodeGormDao_IncrementScansConcurrent(t *testing.T) {
	ctx := context.Background()
	qrDao, _ := newTestDaos(t)
	q := seedQRCode(t, qrDao, "owner-1", "abc1234", time.Now().UTC())

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, qrDao.IncrementScans(ctx, q.ID, base.Add(time.Duration(i)*time.Second)))
		}(i)
	}
	wg.Wait()

	got, err := qrDao.FindById(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Scans)
	require.NotNil(t, got.LastScanAt)
	assert.True(t, got.LastScanAt.Equal(base.Add((n-1)*time.Second)))
}

func TestQRCodeGormDao_LastScanAtOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	qrDao, _ := newTestDaos(t)
	q := seedQRCode(t, qrDao, "owner-1", "fwd0001", time.Now().UTC())

	later := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, qrDao.IncrementScans(ctx, q.ID, later))
	require.NoError(t, qrDao.IncrementScans(ctx, q.ID, later.Add(-time.Hour)))

	got, err := qrDao.FindById(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Scans)
	assert.True(t, got.LastScanAt.Equal(later))

	assert.True(t, errorc.IsNotFound(qrDao.IncrementScans(ctx, "missing", later)))
}

func TestQRCodeGormDao_SoftDeleteRestoreHardDelete(t *testing.T) {
	ctx := context.Background()
	qrDao, events := newTestDaos(t)
	q := seedQRCode(t, qrDao, "owner-1", "del0001", time.Now().UTC())
	require.NoError(t, events.Create(ctx, &model.ScanEvent{
		ID: uuid.NewString(), QRCodeID: q.ID, ScannedAt: time.Now().UTC(), Device: model.DeviceMobile,
	}))

	// 未进回收站不能永久删除
	deleted, err := qrDao.HardDelete(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	changed, err := qrDao.SoftDelete(ctx, q.ID, "owner-1", at)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = qrDao.SoftDelete(ctx, q.ID, "owner-1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := qrDao.FindById(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, got.DeletedAt.Equal(at))

	changed, err = qrDao.Restore(ctx, q.ID, "other-owner")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = qrDao.Restore(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = qrDao.SoftDelete(ctx, q.ID, "owner-1", at)
	require.NoError(t, err)
	deleted, err = qrDao.HardDelete(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = qrDao.FindById(ctx, q.ID)
	assert.True(t, errorc.IsNotFound(err))
	count, err := events.CountByQRCode(ctx, q.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestQRCodeGormDao_List(t *testing.T) {
	ctx := context.Background()
	qrDao, _ := newTestDaos(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := seedQRCode(t, qrDao, "owner-1", "list001", base)
	b := seedQRCode(t, qrDao, "owner-1", "list002", base.Add(time.Hour))
	c := seedQRCode(t, qrDao, "owner-1", "list003", base.Add(2*time.Hour))
	seedQRCode(t, qrDao, "owner-2", "list004", base)
	_, err := qrDao.SoftDelete(ctx, c.ID, "owner-1", base.Add(3*time.Hour))
	require.NoError(t, err)

	page := &mvc.Page{Sort: "created_at", Desc: true}
	list, total, err := qrDao.List(ctx, "owner-1", QRCodeFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	list, total, err = qrDao.List(ctx, "owner-1", QRCodeFilter{Deleted: true}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.ID, list[0].ID)

	list, _, err = qrDao.List(ctx, "owner-1", QRCodeFilter{Keyword: "list002"}, page)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	static := false
	_, total, err = qrDao.List(ctx, "owner-1", QRCodeFilter{Dynamic: &static}, page)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestQRCodeGormDao_TopByScansTieBreak(t *testing.T) {
	ctx := context.Background()
	qrDao, _ := newTestDaos(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := seedQRCode(t, qrDao, "owner-1", "top0001", base)
	newer := seedQRCode(t, qrDao, "owner-1", "top0002", base)
	best := seedQRCode(t, qrDao, "owner-1", "top0003", base)
	never := seedQRCode(t, qrDao, "owner-1", "top0004", base)

	require.NoError(t, qrDao.IncrementScans(ctx, older.ID, base.Add(time.Hour)))
	require.NoError(t, qrDao.IncrementScans(ctx, newer.ID, base.Add(2*time.Hour)))
	require.NoError(t, qrDao.IncrementScans(ctx, best.ID, base.Add(time.Minute)))
	require.NoError(t, qrDao.IncrementScans(ctx, best.ID, base.Add(2*time.Minute)))

	list, err := qrDao.TopByScans(ctx, "owner-1", 10)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, []string{best.ID, newer.ID, older.ID, never.ID},
		[]string{list[0].ID, list[1].ID, list[2].ID, list[3].ID})

	list, err = qrDao.TopByScans(ctx, "owner-1", 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestQRCodeGormDao_Summary(t *testing.T) {
	ctx := context.Background()
	qrDao, _ := newTestDaos(t)
	now := time.Now().UTC()
	a := seedQRCode(t, qrDao, "owner-1", "sum0001", now)
	b := seedQRCode(t, qrDao, "owner-1", "sum0002", now)
	require.NoError(t, qrDao.UpdateFields(ctx, b.ID, map[string]interface{}{"is_dynamic": false}))
	c := seedQRCode(t, qrDao, "owner-1", "sum0003", now)
	require.NoError(t, qrDao.IncrementScans(ctx, a.ID, now))
	require.NoError(t, qrDao.IncrementScans(ctx, c.ID, now))
	_, err := qrDao.SoftDelete(ctx, c.ID, "owner-1", now)
	require.NoError(t, err)

	summary, err := qrDao.Summary(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, model.OwnerSummary{TotalCodes: 2, DynamicCodes: 1, TrashedCodes: 1, TotalScans: 1}, *summary)
}

func TestQRCodeGormDao_UpdateCampaign(t *testing.T) {
	ctx := context.Background()
	qrDao, _ := newTestDaos(t)
	q := seedQRCode(t, qrDao, "owner-1", "cmp0001", time.Now().UTC())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	settings := model.CampaignSettings{
		Objective:        "launch",
		DurationMode:     model.DurationScheduled,
		StartDate:        &start,
		EndDate:          &end,
		FallbackURL:      "https://expired.example.com",
		RedirectBehavior: model.RedirectSmartExpiration,
	}
	require.NoError(t, qrDao.UpdateCampaign(ctx, q.ID, settings, time.Now().UTC()))

	got, err := qrDao.FindById(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "launch", got.Campaign.Objective)
	assert.Equal(t, model.RedirectSmartExpiration, got.Campaign.RedirectBehavior)
	require.NotNil(t, got.Campaign.EndDate)
	assert.True(t, got.Campaign.EndDate.Equal(end))
}
