package app

import (
	"qrhub/system/qrcode"
)

// App 应用组合根，持有各组件模块
type App struct {
	QRCodeModule *qrcode.Module
}

// NewApp 基于 base 中的全局依赖创建各组件
func NewApp() *App {
	return &App{
		QRCodeModule: qrcode.NewModule(),
	}
}

// Shutdown 停机前的收尾
func (a *App) Shutdown() {
	a.QRCodeModule.Shutdown()
}
