package service

import (
	"context"
	"testing"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{Name: " menu ", TargetURL: "https://example.com/menu"})
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Len(t, q.Code, 7)
	assert.True(t, IsWellFormedCode(q.Code))
	assert.Equal(t, model.QRTypeURL, q.Type)
	assert.Equal(t, "menu", q.Name)
	assert.Zero(t, q.Scans)
	assert.Nil(t, q.DeletedAt)
	assert.Nil(t, q.LastScanAt)

	tests := []struct {
		name   string
		in     CreateInput
		fields []string
	}{
		{"缺少目标地址", CreateInput{}, []string{"targetUrl"}},
		{"相对地址", CreateInput{TargetURL: "/menu"}, []string{"targetUrl"}},
		{"非 http 协议", CreateInput{TargetURL: "ftp://example.com"}, []string{"targetUrl"}},
		{"非法类型", CreateInput{Type: "SMS", TargetURL: "https://example.com"}, []string{"type"}},
		{"名片码缺少名片", CreateInput{Type: model.QRTypeProfile, TargetURL: "https://example.com"}, []string{"profileId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			_, err := env.qr.Create(ctx, "owner-1", &in)
			require.Error(t, err)
			assert.True(t, errorc.Is(err, errorc.ErrorCodeValid))
			var got []string
			for _, f := range errorc.ParseError(err).Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestQRCodeService_GetIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{TargetURL: "https://example.com"})
	require.NoError(t, err)

	_, err = env.qr.Get(ctx, q.ID, "owner-2")
	assert.True(t, errorc.IsNotFound(err))
	_, err = env.qr.Get(ctx, "missing", "owner-1")
	assert.True(t, errorc.IsNotFound(err))
}

func TestQRCodeService_StaticImmutable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{TargetURL: "https://example.com"})
	require.NoError(t, err)
	require.False(t, q.IsDynamic)

	_, err = env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{TargetURL: strPtr("https://other.com")})
	require.Error(t, err)
	assert.True(t, errorc.Is(err, errorc.ErrorCodeStaticImmutable))

	got, err := env.qr.Get(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.TargetURL)

	// 同值视为未修改
	_, err = env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{TargetURL: strPtr("https://example.com"), Name: strPtr("renamed")})
	require.NoError(t, err)

	_, err = env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{IsDynamic: boolPtr(true)})
	assert.True(t, errorc.Is(err, errorc.ErrorCodeInvalidState))
}

func TestQRCodeService_UpdateDynamic(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{IsDynamic: true, TargetURL: "https://example.com"})
	require.NoError(t, err)

	env.clock = env.clock.Add(time.Minute)
	got, err := env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{
		TargetURL: strPtr("https://other.com"),
		Color:     strPtr("#112233"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://other.com", got.TargetURL)
	assert.Equal(t, "#112233", got.Color)
	assert.Equal(t, q.Code, got.Code)
	assert.True(t, got.UpdatedAt.Equal(env.clock))

	_, err = env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{TargetURL: strPtr("not a url")})
	assert.True(t, errorc.Is(err, errorc.ErrorCodeValid))

	_, err = env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{Campaign: &model.CampaignSettings{}})
	assert.True(t, errorc.Is(err, errorc.ErrorCodeValid))
}

func TestQRCodeService_SoftDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{IsDynamic: true, TargetURL: "https://example.com"})
	require.NoError(t, err)

	first, err := env.qr.SoftDelete(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, first.DeletedAt)

	env.clock = env.clock.Add(time.Hour)
	second, err := env.qr.SoftDelete(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	assert.True(t, first.DeletedAt.Equal(*second.DeletedAt))

	_, err = env.qr.Update(ctx, q.ID, "owner-1", &UpdateInput{Name: strPtr("x")})
	assert.True(t, errorc.Is(err, errorc.ErrorCodeInvalidState))
}

func TestQRCodeService_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{IsDynamic: true, Name: "poster", TargetURL: "https://example.com"})
	require.NoError(t, err)
	before, err := env.qr.Get(ctx, q.ID, "owner-1")
	require.NoError(t, err)

	_, err = env.qr.Restore(ctx, q.ID, "owner-1")
	assert.True(t, errorc.Is(err, errorc.ErrorCodeInvalidState))

	_, err = env.qr.SoftDelete(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	after, err := env.qr.Restore(ctx, q.ID, "owner-1")
	require.NoError(t, err)

	before.UpdatedAt, after.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, before, after)
}

func TestQRCodeService_HardDeleteRequiresTrash(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	q, err := env.qr.Create(ctx, "owner-1", &CreateInput{IsDynamic: true, TargetURL: "https://example.com"})
	require.NoError(t, err)
	require.NoError(t, env.scans.Record(ctx, q.ID, ScanInput{Device: model.DeviceMobile}, env.clock))

	err = env.qr.HardDelete(ctx, q.ID, "owner-1")
	assert.True(t, errorc.Is(err, errorc.ErrorCodeInvalidState))
	_, err = env.qr.Get(ctx, q.ID, "owner-1")
	require.NoError(t, err)

	_, err = env.qr.SoftDelete(ctx, q.ID, "owner-1")
	require.NoError(t, err)
	require.NoError(t, env.qr.HardDelete(ctx, q.ID, "owner-1"))

	_, err = env.qr.Get(ctx, q.ID, "owner-1")
	assert.True(t, errorc.IsNotFound(err))
	count, err := env.eventDao.CountByQRCode(ctx, q.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// 恢复已永久删除的记录
	_, err = env.qr.Restore(ctx, q.ID, "owner-1")
	assert.True(t, errorc.IsNotFound(err))
}

func TestQRCodeService_ListDefaultsToNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	var ids []string
	for i := 0; i < 3; i++ {
		env.clock = env.clock.Add(time.Minute)
		q, err := env.qr.Create(ctx, "owner-1", &CreateInput{IsDynamic: i%2 == 0, TargetURL: "https://example.com"})
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}

	list, total, err := env.qr.List(ctx, "owner-1", dao.QRCodeFilter{}, &mvc.Page{Sort: "drop table"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, total, err = env.qr.List(ctx, "owner-1", dao.QRCodeFilter{Dynamic: boolPtr(true)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestQRCodeService_PurgeTrashed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	old, err := env.qr.Create(ctx, "owner-1", &CreateInput{TargetURL: "https://example.com"})
	require.NoError(t, err)
	_, err = env.qr.SoftDelete(ctx, old.ID, "owner-1")
	require.NoError(t, err)

	env.clock = env.clock.Add(48 * time.Hour)
	recent, err := env.qr.Create(ctx, "owner-1", &CreateInput{TargetURL: "https://example.com"})
	require.NoError(t, err)
	_, err = env.qr.SoftDelete(ctx, recent.ID, "owner-1")
	require.NoError(t, err)

	purged, err := env.qr.PurgeTrashed(ctx, env.clock.Add(-24*time.Hour), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = env.qr.Get(ctx, old.ID, "owner-1")
	assert.True(t, errorc.IsNotFound(err))
	_, err = env.qr.Get(ctx, recent.ID, "owner-1")
	assert.NoError(t, err)
}
