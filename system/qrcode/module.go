package qrcode

import (
	"qrhub/base"
	"qrhub/pkg/scheduler"
	internalapp "qrhub/system/qrcode/internal/app"
)

// Module 二维码组件模块
type Module struct {
	internalApp *internalapp.App
}

// NewModule 使用全局依赖创建二维码组件模块
func NewModule() *Module {
	cfg := base.Configures.Config
	app := internalapp.NewApp(internalapp.Deps{
		DB:            base.DB,
		Mongo:         base.Mongo,
		Cache:         base.Cache,
		SharedCache:   base.RDB != nil,
		Config:        cfg.QRCode,
		PublicBaseURL: cfg.PublicBaseURL,
		Log:           base.Logger,
	})
	return &Module{internalApp: app}
}

// RegisterJobs 注册回收站清理任务
func (m *Module) RegisterJobs(s *scheduler.Scheduler) error {
	return m.internalApp.RegisterJobs(s)
}

// Shutdown 等待进行中的扫码记录写完
func (m *Module) Shutdown() {
	m.internalApp.WaitRecorders()
}
