package fiber_handle

import (
	"errors"

	"qrhub/pkg/core/consts"
	errorc "qrhub/pkg/core/err"

	"github.com/gofiber/fiber/v2"
)

// ErrHandler 统一错误响应：HTTP 状态码与业务错误码保持一致
func ErrHandler(ctx *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return ctx.Status(e.Code).JSON(fiber.Map{"status": e.Code, "message": e.Message})
	}

	cError := errorc.ParseError(err)
	code := errorc.ErrorCodeUnknown.Code
	if cError.ErrorCode != nil {
		code = cError.Code
	}

	body := fiber.Map{"status": code, "message": cError.Msg}
	if len(cError.Fields) > 0 {
		body["fields"] = cError.Fields
	}
	traceID := cError.TraceID
	if traceID == "" {
		traceID, _ = ctx.Locals(consts.TraceKey).(string)
	}
	if traceID != "" {
		body["traceId"] = traceID
	}

	// 5xx 一律以 500 段返回给客户端
	httpStatus := code
	if httpStatus >= 500 {
		httpStatus = fiber.StatusInternalServerError
	}
	return ctx.Status(httpStatus).JSON(body)
}
