package util

import (
	"context"

	"qrhub/pkg/core/consts"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
)

// Context 取出请求上下文，缺少 TraceID 时生成一个新的
func Context(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx.Value(consts.TraceKey) == nil {
		traceID := uuid.NewV4().String()
		ctx = context.WithValue(ctx, consts.TraceKey, traceID)
		c.SetUserContext(ctx)
		c.Locals(consts.TraceKey, traceID)
	}
	return ctx
}
