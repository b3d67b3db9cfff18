package fiber_handle

import "github.com/gofiber/fiber/v2"

type HealthCheckConfig struct {
	Path string
	// Probe 可选的依赖探活（数据库、Redis），返回错误时响应 503
	Probe func(c *fiber.Ctx) error
}

func HealthCheck(config HealthCheckConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != config.Path {
			return c.Next()
		}
		if config.Probe != nil {
			if err := config.Probe(c); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
			}
		}
		return c.Status(200).SendString("")
	}
}
