package service

import (
	"context"
	"testing"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/system/qrcode/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledCampaign(start, end time.Time, behavior model.RedirectBehavior, fallback string) *model.CampaignSettings {
	return &model.CampaignSettings{
		DurationMode:     model.DurationScheduled,
		StartDate:        timePtr(start),
		EndDate:          timePtr(end),
		RedirectBehavior: behavior,
		FallbackURL:      fallback,
	}
}

func TestResolver_PlainCodes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	static, err := env.qr.Create(ctx, "owner-1", &CreateInput{TargetURL: "https://example.com/static"})
	require.NoError(t, err)
	dynamic, err := env.qr.Create(ctx, "owner-1", &CreateInput{IsDynamic: true, TargetURL: "https://example.com/dynamic"})
	require.NoError(t, err)

	res, err := env.resolver.Resolve(ctx, dynamic.Code, env.clock)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dynamic", res.URL)
	assert.Equal(t, dynamic.ID, res.QRCodeID)

	res, err = env.resolver.Resolve(ctx, static.Code, env.clock)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/static", res.URL)

	for _, code := range []string{"", "nope000", "bad/code", "../../etc", "x' OR '1'='1"} {
		_, err := env.resolver.Resolve(ctx, code, env.clock)
		assert.True(t, errorc.IsNotFound(err), code)
	}

	_, err = env.qr.SoftDelete(ctx, dynamic.ID, "owner-1")
	require.NoError(t, err)
	_, err = env.resolver.Resolve(ctx, dynamic.Code, env.clock)
	assert.True(t, errorc.IsNotFound(err))
}

func TestResolver_CampaignSchedule(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	create := func(c *model.CampaignSettings) *model.QRCode {
		q, err := env.campaigns.Create(ctx, "owner-1", &CreateInput{TargetURL: "https://example.com/primary", Campaign: c})
		require.NoError(t, err)
		return q
	}

	smart := create(scheduledCampaign(jan1, jan31, model.RedirectSmartExpiration, "https://expired.example.com"))
	primary := create(scheduledCampaign(jan1, jan31, model.RedirectAlwaysPrimary, ""))
	noFallback := create(scheduledCampaign(jan1, jan31, model.RedirectSmartExpiration, ""))
	unlimited := create(&model.CampaignSettings{})

	tests := []struct {
		name  string
		code  string
		now   time.Time
		url   string
		state model.CampaignState
		errIs *errorc.ErrorCode
	}{
		{"未开始", smart.Code, jan1.Add(-time.Nanosecond), "", "", errorc.ErrorCodeNotActive},
		{"开始时刻", smart.Code, jan1, "https://example.com/primary", model.CampaignStateRunning, nil},
		{"结束后跳备用链接", smart.Code, feb1, "https://expired.example.com", model.CampaignStateFallback, nil},
		{"结束后仍跳主链接", primary.Code, feb1, "https://example.com/primary", model.CampaignStateEnded, nil},
		{"无备用链接则过期", noFallback.Code, feb1, "", "", errorc.ErrorCodeExpired},
		{"不限时", unlimited.Code, feb1.AddDate(5, 0, 0), "https://example.com/primary", model.CampaignStateUnlimited, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.resolver.Resolve(ctx, tt.code, tt.now)
			if tt.errIs != nil {
				assert.True(t, errorc.Is(err, tt.errIs))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.url, res.URL)
			assert.Equal(t, tt.state, res.State)
		})
	}
}

func TestResolver_SingleInstantWindow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := time.Date(2024, 7, 4, 12, 30, 0, 0, time.UTC)
	q, err := env.campaigns.Create(ctx, "owner-1", &CreateInput{
		TargetURL: "https://example.com/primary",
		Campaign:  scheduledCampaign(d, d, model.RedirectSmartExpiration, "https://expired.example.com"),
	})
	require.NoError(t, err)

	res, err := env.resolver.Resolve(ctx, q.Code, d)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/primary", res.URL)

	res, err = env.resolver.Resolve(ctx, q.Code, d.Add(time.Nanosecond))
	require.NoError(t, err)
	assert.Equal(t, "https://expired.example.com", res.URL)
	assert.True(t, res.Fallback)
}
