package base

import (
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/security"
	"qrhub/pkg/core/start"
	"qrhub/pkg/core/tracer"
	"qrhub/pkg/scheduler"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	OwnerAuth  *security.OwnerAuth
	DB         *gorm.DB
	// Mongo 仅在 mongodb.enabled 时非空，此时二维码数据存放在 mongo
	Mongo     *mongo.Database
	RDB       *redis.Client
	Cache     *cache.Cache
	Locker    *redislock.Client
	Tracer    tracer.Tracer
	Scheduler *scheduler.Scheduler
)
