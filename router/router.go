package router

import (
	"qrhub/app"
	"qrhub/base"
	"qrhub/system/qrcode"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 只依赖 app.App 与 fiber.App，不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App) {
	// 所有者接口统一校验 token
	api := f.Group("/api", base.OwnerAuth.RequireAuth())

	// 扫码跳转与名片公开页挂在根路径，无需鉴权
	qrcode.RegisterRoutes(a.QRCodeModule, api, f)
}
