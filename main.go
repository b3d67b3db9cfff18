package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrhub/app"
	"qrhub/base"
	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/start"
	"qrhub/pkg/db"
	"qrhub/pkg/scheduler"
	"qrhub/router"
)

func main() {
	env, filename := getBaseInfo()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = env
	base.OwnerAuth = configures.OwnerAuth
	// 生产环境日志只保留错误链，不展开完整堆栈
	errorc.SetStackTraceEnabled(env != "prod")

	// mongodb.enabled 时二维码数据存放在 mongo，否则使用关系库
	if configures.Config.Mongo.Enabled {
		base.Mongo = configures.EnableMongo()
		if err := db.EnsureMongoIndexes(base.Mongo); err != nil {
			configures.Logger.Panic(fmt.Sprintf("创建索引失败: %v", err))
		}
	} else {
		base.DB = configures.EnableDB()
		if err := db.AutoMigrate(base.DB); err != nil {
			configures.Logger.Panic(fmt.Sprintf("数据库迁移失败: %v", err))
		}
	}

	base.RDB = configures.EnableRedis()
	base.Cache = configures.EnableCache(base.RDB)
	base.Locker = configures.EnableLocker(base.RDB)
	base.Tracer = configures.EnableTracer()
	base.Scheduler = scheduler.NewScheduler(base.Locker, configures.Config.AppName, base.Logger)

	// 创建应用组合根
	appRoot := app.NewApp()

	// 注册回收站清理任务
	if err := appRoot.QRCodeModule.RegisterJobs(base.Scheduler); err != nil {
		configures.Logger.Panic(fmt.Sprintf("注册定时任务失败: %v", err))
	}
	base.Scheduler.Start()

	// 创建 Fiber 应用并注册路由
	fiberApp := app.GetApp()
	router.Register(appRoot, fiberApp)

	go func() {
		if err := fiberApp.Listen(fmt.Sprintf(":%d", configures.Config.Port)); err != nil {
			configures.Logger.WithErr(err).Panic("HTTP 服务启动失败")
		}
	}()
	configures.Logger.Info(fmt.Sprintf("HTTP 服务已启动，端口: %d", configures.Config.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	configures.Logger.Info("开始停机...")
	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		configures.Logger.WithErr(err).Warn("HTTP 服务关闭超时")
	}
	base.Scheduler.Stop()
	appRoot.Shutdown()
	closeStores()
	configures.Logger.Info("停机完成")
}

func closeStores() {
	if base.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = base.Mongo.Client().Disconnect(ctx)
	}
	if base.DB != nil {
		if sqlDB, err := base.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if base.RDB != nil {
		_ = base.RDB.Close()
	}
}

func getBaseInfo() (string, string) {
	// 定义命令行参数
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	// 解析命令行参数
	flag.Parse()

	// 如果没有指定配置文件路径，则使用默认路径
	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}
