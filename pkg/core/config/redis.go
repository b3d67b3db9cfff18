package config

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// InitRDB 初始化 redis 客户端，single 为单机模式，其余按哨兵模式处理
func InitRDB(redisConfig RedisConfig, proxyConfig ProxyConfig) *redis.Client {
	var dialer func(ctx context.Context, network, addr string) (net.Conn, error)
	if proxyConfig.Enabled {
		d := proxyConfig.GetDialer()
		dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return d.Dial(network, addr)
		}
	}

	if redisConfig.Mode == "single" {
		return redis.NewClient(&redis.Options{
			Addr:     redisConfig.Host,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
			Dialer:   dialer,
		})
	}

	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       "mymaster",
		SentinelAddrs:    strings.Split(redisConfig.Host, ","),
		Password:         redisConfig.Password,
		SentinelPassword: redisConfig.Password,
		DB:               redisConfig.DB,
		Dialer:           dialer,
	})
}

// InitCache 两级缓存：本地 TinyLFU + redis；rdb 为空时只使用本地缓存
func InitCache(rdb *redis.Client, localSize int) *cache.Cache {
	if localSize <= 0 {
		localSize = 1000
	}
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(localSize, time.Minute),
	}
	if rdb != nil {
		opts.Redis = rdb
	}
	return cache.New(opts)
}
