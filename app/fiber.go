package app

import (
	"context"
	"time"

	"qrhub/base"
	"qrhub/pkg/core/fiber_handle"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/start"

	"github.com/gofiber/fiber/v2"
)

// GetApp 创建 Fiber 应用并挂载追踪与请求日志
func GetApp() *fiber.App {
	app := start.GetApp(start.AppOptions{
		Alerter: base.Configures.Alerter,
		Probe:   probe,
	})
	app.Use(fiber_handle.NewApiTracer(fiber_handle.TracerConfig{
		Tracer:  base.Tracer,
		AppName: base.Configures.Config.AppName,
	}))
	app.Use(logger.NewApiLogger(logger.Config{Logger: base.Logger}))
	return app
}

// probe 健康检查时探测存储与缓存
func probe(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if base.Mongo != nil {
		if err := base.Mongo.Client().Ping(ctx, nil); err != nil {
			return err
		}
	} else if base.DB != nil {
		sqlDB, err := base.DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
	}
	if base.RDB != nil {
		return base.RDB.Ping(ctx).Err()
	}
	return nil
}
