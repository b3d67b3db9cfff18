package service

import (
	"net/http"
	"testing"

	"qrhub/system/qrcode/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUserAgent(t *testing.T) {
	tests := []struct {
		name   string
		ua     string
		device string
	}{
		{"空", "", model.DeviceUnknown},
		{"iPhone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", model.DeviceMobile},
		{"iPad", "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1", model.DeviceTablet},
		{"Android 平板", "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", model.DeviceTablet},
		{"Android 手机", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36", model.DeviceMobile},
		{"桌面", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", model.DeviceDesktop},
		{"爬虫", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", model.DeviceBot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.device, ClassifyUserAgent(tt.ua).Device)
		})
	}

	info := ClassifyUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Equal(t, "Chrome", info.Browser)
	assert.NotEmpty(t, info.OS)
}

func TestVisitorHash(t *testing.T) {
	a := VisitorHash("salt", "203.0.113.7", "ua")
	assert.Len(t, a, 32)
	assert.Equal(t, a, VisitorHash("salt", "203.0.113.7", "ua"))
	assert.NotEqual(t, a, VisitorHash("other", "203.0.113.7", "ua"))
	assert.NotEqual(t, a, VisitorHash("salt", "203.0.113.8", "ua"))
	assert.NotContains(t, a, "203.0.113.7")
	assert.Empty(t, VisitorHash("salt", "", ""))
}

func TestCountryFromHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("CF-IPCountry", "XX")
	h.Set("X-Country-Code", "de")
	assert.Equal(t, "DE", CountryFromHeaders(h.Get, []string{"CF-IPCountry", "X-Country-Code"}))

	h.Set("CF-IPCountry", "us")
	assert.Equal(t, "US", CountryFromHeaders(h.Get, []string{"CF-IPCountry", "X-Country-Code"}))

	assert.Empty(t, CountryFromHeaders(http.Header{}.Get, []string{"CF-IPCountry"}))
	h2 := http.Header{}
	h2.Set("CF-IPCountry", "1A")
	assert.Empty(t, CountryFromHeaders(h2.Get, []string{"CF-IPCountry"}))
}

func TestShortCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateShortCode(8)
		assert.NoError(t, err)
		assert.Len(t, code, 8)
		assert.True(t, IsWellFormedCode(code))
		assert.NotContainsf(t, code, "0", "confusable char in %s", code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190)

	assert.False(t, IsWellFormedCode(""))
	assert.False(t, IsWellFormedCode("abc-123"))
	assert.False(t, IsWellFormedCode("abcdefghijklmnopqrstuvwxyz0123456789"))
}
