package http

import (
	"fmt"
	"html"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/result"
	"qrhub/pkg/core/util"
	internalapp "qrhub/system/qrcode/internal/app"

	"github.com/gofiber/fiber/v2"
)

// PublicController 扫码跳转与名片公开页，无需鉴权
type PublicController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewPublicController(app *internalapp.App) *PublicController {
	return &PublicController{
		app: app,
		err: errorc.NewErrorBuilder("PublicController"),
		log: logger.GetLogger().WithEntryName("PublicController"),
	}
}

// RegisterRoutes 注册路由
func (c *PublicController) RegisterRoutes(public fiber.Router) {
	public.Get("/q/:code", c.Redirect)
	// 兼容旧版短链前缀
	public.Get("/r/:code", c.Redirect)
	public.Get("/p/:id", c.Profile)
}

// Redirect 解析短码并 302 跳转，扫码记录异步写入
func (c *PublicController) Redirect(ctx *fiber.Ctx) error {
	res, err := c.app.Resolve(util.Context(ctx), ctx.Params("code"), internalapp.ScanRequest{
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
		Referer:   ctx.Get(fiber.HeaderReferer),
		Header: func(name string) string {
			return ctx.Get(name)
		},
	})
	if err != nil {
		return c.renderResolveError(ctx, err)
	}

	// 每次扫码都要回到服务端计数
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Redirect(res.URL, fiber.StatusFound)
}

// Profile 名片公开页数据，隐藏字段已置空
func (c *PublicController) Profile(ctx *fiber.Ctx) error {
	p, err := c.app.PublicProfile(util.Context(ctx), ctx.Params("id"))
	return result.Once(ctx, p, err)
}

type resolvePage struct {
	status int
	title  string
	body   string
}

func (c *PublicController) renderResolveError(ctx *fiber.Ctx, err error) error {
	var page resolvePage
	switch {
	case errorc.IsNotFound(err):
		page = resolvePage{fiber.StatusNotFound, "二维码不存在", "该二维码不存在或已被删除。"}
	case errorc.Is(err, errorc.ErrorCodeExpired):
		page = resolvePage{fiber.StatusGone, "活动已结束", "该活动已结束，感谢关注。"}
	case errorc.Is(err, errorc.ErrorCodeNotActive):
		page = resolvePage{fiber.StatusTooEarly, "活动即将开始", "活动尚未开始，敬请期待。"}
	case errorc.Is(err, errorc.ErrorCodeUnavailable):
		c.log.WithTrace(util.Context(ctx)).WithField("code", ctx.Params("code")).
			WithField("cause", errorc.ParseError(err).RootCause()).Warn("短码解析超时")
		page = resolvePage{fiber.StatusServiceUnavailable, "服务繁忙", "请稍后再次扫码。"}
	default:
		c.log.WithTrace(util.Context(ctx)).WithErr(err).WithField("code", ctx.Params("code")).Error("解析短码失败")
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Status(page.status).SendString(fmt.Sprintf(
		"<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>",
		html.EscapeString(page.title), html.EscapeString(page.title), html.EscapeString(page.body)))
}
