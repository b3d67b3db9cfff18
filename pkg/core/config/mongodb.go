package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	Enabled         bool   `yaml:"enabled"`
	URI             string `yaml:"uri"`
	DBName          string `yaml:"db-name"`
	UserName        string `yaml:"user-name"`
	Password        string `yaml:"password"`
	ConsistencyMode string `yaml:"consistency-mode"`
	PoolSize        uint64 `yaml:"pool-size"`
}

// InitMongo 连接 MongoDB 并返回目标库
func InitMongo(ctx context.Context, config MongoConfig, proxyConfig ProxyConfig) (*mongo.Database, error) {
	if config.DBName == "" {
		return nil, errors.New("数据库名不存在")
	}

	opts := options.Client().ApplyURI(config.URI)
	if config.UserName != "" && config.Password != "" {
		opts.SetAuth(options.Credential{
			Username:   config.UserName,
			Password:   config.Password,
			AuthSource: config.DBName,
		})
	}

	switch config.ConsistencyMode {
	case "monotonic":
		opts.SetReadPreference(readpref.PrimaryPreferred())
	case "eventual":
		opts.SetReadPreference(readpref.Nearest())
	default:
		opts.SetReadPreference(readpref.Primary())
	}

	poolSize := config.PoolSize
	if poolSize == 0 {
		poolSize = 100
	}
	opts.SetMaxPoolSize(poolSize)

	if proxyConfig.Enabled {
		opts.SetDialer(proxyConfig.ContextDialer())
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client.Database(config.DBName), nil
}
