package config

type JwtConfig struct {
	Secret string `yaml:"secret" json:"secret,omitempty"`
	// ExpireTime 单位：天
	ExpireTime int `yaml:"expire-time" json:"expire-time,omitempty"`
}
