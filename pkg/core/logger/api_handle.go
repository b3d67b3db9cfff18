package logger

import (
	"strings"
	"time"

	"qrhub/pkg/core/consts"
	errorc "qrhub/pkg/core/err"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Logger *Log
}

// NewApiLogger 请求日志中间件
func NewApiLogger(config Config) fiber.Handler {
	log := config.Logger.WithEntryName("API")

	return func(c *fiber.Ctx) error {
		path := strings.SplitN(c.OriginalURL(), "?", 2)[0]
		start := time.Now()

		err := c.Next()

		log.WithField("status", c.Response().StatusCode()).
			WithField("latency", time.Since(start).Round(time.Millisecond)).
			WithField("method", c.Method()).
			WithField("path", path).
			WithField("TraceId", c.Locals(consts.TraceKey)).
			WithField("OwnerId", c.Locals(consts.OwnerKey)).
			Debug("请求处理完毕")

		if err != nil {
			errc := errorc.ParseError(err)
			// 参数与状态类错误属于正常业务分支，不记录错误堆栈
			if errc.Code >= 500 {
				errc.ToLog(log.WithTrace(c.UserContext()).GetLogger())
			}
		}

		return err
	}
}
