package start

import (
	"context"
	"fmt"
	"time"

	"qrhub/pkg/core/fiber_handle"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/util"

	"github.com/gofiber/fiber/v2"
	recover2 "github.com/gofiber/fiber/v2/middleware/recover"
)

type AppOptions struct {
	Alerter *util.Alerter
	// Probe 健康检查时的依赖探活，可为空
	Probe func(c *fiber.Ctx) error
}

func GetApp(opts AppOptions) *fiber.App {
	app := fiber.New(
		fiber.Config{
			BodyLimit:    1 * 1024 * 1024,
			ErrorHandler: fiber_handle.ErrHandler,
		})
	app.Use(fiber_handle.Cors())
	app.Use(recover2.New(recover2.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.GetLogger().WithEntryName("Recover").WithField("path", c.Path()).Errorf("panic: %+v", e)

			msg := fmt.Sprintf("url：%s崩溃了。%+v", c.Path(), e)
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := opts.Alerter.Send(ctx, msg); err != nil {
					logger.GetLogger().WithEntryName("Recover").WithErr(err).Warn("告警推送失败")
				}
			}()
		},
	}))
	app.Use(fiber_handle.HealthCheck(fiber_handle.HealthCheckConfig{Path: "/health", Probe: opts.Probe}))
	return app
}
