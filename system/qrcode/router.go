package qrcode

import (
	controller "qrhub/system/qrcode/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册二维码组件的所有 HTTP 路由；api 需已挂载所有者鉴权
func RegisterRoutes(m *Module, api, public fiber.Router) {
	controller.NewQRCodeAPIController(m.internalApp).RegisterRoutes(api)
	controller.NewProfileAPIController(m.internalApp).RegisterRoutes(api)

	// 扫码跳转与名片公开页
	controller.NewPublicController(m.internalApp).RegisterRoutes(public)
}
