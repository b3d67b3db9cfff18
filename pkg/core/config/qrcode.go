package config

import "time"

// QRCodeConfig 二维码组件配置
type QRCodeConfig struct {
	CodeLength        int           `yaml:"code-length"`
	CodeRetries       int           `yaml:"code-retries"`
	ResolveTimeout    time.Duration `yaml:"resolve-timeout"`
	RecordTimeout     time.Duration `yaml:"record-timeout"`
	ResolveCacheTTL   time.Duration `yaml:"resolve-cache-ttl"`
	AnalyticsCacheTTL time.Duration `yaml:"analytics-cache-ttl"`
	// TrashRetentionDays 回收站保留天数，0 表示不自动清理
	TrashRetentionDays int    `yaml:"trash-retention-days"`
	PurgeCron          string `yaml:"purge-cron"`
	// CountryHeaders 可信 CDN 注入的国家/地区请求头，按顺序取第一个非空值
	CountryHeaders []string `yaml:"country-headers"`
	// VisitorSalt 访客哈希盐值
	VisitorSalt string `yaml:"visitor-salt"`
}

// WithDefaults 填充缺省值
func (c QRCodeConfig) WithDefaults() QRCodeConfig {
	if c.CodeLength <= 0 {
		c.CodeLength = 7
	}
	if c.CodeRetries <= 0 {
		c.CodeRetries = 10
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = 800 * time.Millisecond
	}
	if c.RecordTimeout <= 0 {
		c.RecordTimeout = 300 * time.Millisecond
	}
	if c.ResolveCacheTTL <= 0 {
		c.ResolveCacheTTL = 5 * time.Minute
	}
	if c.AnalyticsCacheTTL <= 0 {
		c.AnalyticsCacheTTL = time.Minute
	}
	if c.PurgeCron == "" {
		c.PurgeCron = "0 30 3 * * *"
	}
	if len(c.CountryHeaders) == 0 {
		c.CountryHeaders = []string{"CF-IPCountry", "X-Country-Code"}
	}
	return c
}
