package service

import (
	"encoding/hex"
	"strings"

	"qrhub/system/qrcode/internal/model"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/blake2b"
)

// ClientInfo 由 User-Agent 解析出的粗粒度终端信息
type ClientInfo struct {
	Device  string
	Browser string
	OS      string
}

// ClassifyUserAgent 解析 User-Agent
func ClassifyUserAgent(raw string) ClientInfo {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ClientInfo{Device: model.DeviceUnknown}
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	info := ClientInfo{
		Browser: browser,
		OS:      ua.OSInfo().Name,
	}

	lower := strings.ToLower(raw)
	switch {
	case ua.Bot():
		info.Device = model.DeviceBot
	case strings.Contains(lower, "ipad"),
		strings.Contains(lower, "tablet"),
		strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		info.Device = model.DeviceTablet
	case ua.Mobile():
		info.Device = model.DeviceMobile
	default:
		info.Device = model.DeviceDesktop
	}
	return info
}

// VisitorHash 以 salt 为密钥对 ip 与 ua 做 blake2b 摘要，不落原始 IP
func VisitorHash(salt, ip, ua string) string {
	if ip == "" && ua == "" {
		return ""
	}
	var key []byte
	if salt != "" {
		key = []byte(salt)
		if len(key) > blake2b.Size {
			key = key[:blake2b.Size]
		}
	}
	h, err := blake2b.New(16, key)
	if err != nil {
		return ""
	}
	h.Write([]byte(ip))
	h.Write([]byte{0})
	h.Write([]byte(ua))
	return hex.EncodeToString(h.Sum(nil))
}

// CountryFromHeaders 按顺序读取 CDN 国家头，XX 与 T1 视为未知
func CountryFromHeaders(get func(string) string, headers []string) string {
	for _, name := range headers {
		v := strings.ToUpper(strings.TrimSpace(get(name)))
		if len(v) != 2 || v == "XX" || v == "T1" {
			continue
		}
		if v[0] < 'A' || v[0] > 'Z' || v[1] < 'A' || v[1] > 'Z' {
			continue
		}
		return v
	}
	return ""
}
