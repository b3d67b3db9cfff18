package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/proxy"
)

// ProxyConfig SOCKS代理配置结构体
type ProxyConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

func defaultDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
}

// GetDialer 获取配置好的SOCKS5 dialer，未启用或创建失败时返回直连 dialer
func (p ProxyConfig) GetDialer() proxy.Dialer {
	if !p.Enabled {
		return defaultDialer()
	}

	var auth *proxy.Auth
	if p.Username != "" && p.Password != "" {
		auth = &proxy.Auth{User: p.Username, Password: p.Password}
	}

	dialer, err := proxy.SOCKS5("tcp", fmt.Sprintf("%s:%d", p.Host, p.Port), auth, proxy.Direct)
	if err != nil {
		return defaultDialer()
	}
	return dialer
}

// ContextDialer 适配 mongo-driver 的 ContextDialer 接口
func (p ProxyConfig) ContextDialer() contextDialer {
	return contextDialer{dialer: p.GetDialer()}
}

type contextDialer struct {
	dialer proxy.Dialer
}

func (d contextDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := d.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}
	return d.dialer.Dial(network, address)
}
