package start

import (
	"context"
	"fmt"
	"net"
	"time"

	"qrhub/pkg/core/config"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/security"
	"qrhub/pkg/core/tracer"
	"qrhub/pkg/core/util"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Config struct {
	AppName string `yaml:"app-name"`
	Env     string `yaml:"env"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	// PublicBaseURL 短链与档案页对外访问前缀，如 https://qr.example.com
	PublicBaseURL string              `yaml:"public-base-url"`
	OpsWebhook    string              `yaml:"ops-webhook"`
	Jwt           config.JwtConfig    `yaml:"jwt"`
	Redis         config.RedisConfig  `yaml:"redis"`
	Database      config.Database     `yaml:"db"`
	Mongo         config.MongoConfig  `yaml:"mongodb"`
	Proxy         config.ProxyConfig  `yaml:"proxy"`
	Zipkin        config.ZipkinConfig `yaml:"zipkin"`
	Log           config.LogConfig    `yaml:"log"`
	QRCode        config.QRCodeConfig `yaml:"qrcode"`
}

type Configures struct {
	Config    Config
	Logger    *logger.Log
	OwnerAuth *security.OwnerAuth
	Alerter   *util.Alerter
}

func ParseConfig(file []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, err
	}
	if cfg.AppName == "" {
		cfg.AppName = "qrhub"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	cfg.QRCode = cfg.QRCode.WithDefaults()
	return cfg, nil
}

func NewConfigures(file []byte, env string) *Configures {
	cfg, err := ParseConfig(file)
	if err != nil {
		panic(fmt.Sprintf("读取文件信息失败，因为%v", err))
	}

	cfg.Env = env
	if cfg.Host == "" {
		cfg.Host = getLocalIP()
	}

	level := cfg.Log.Level
	if level == "" {
		level = "debug"
	}

	c := &Configures{
		Config: cfg,
		Logger: logger.InitLogger(level),
	}
	if cfg.Log.Sls {
		c.Logger.Send2Cloud(cfg.AppName, cfg.Host, cfg.Log)
	}

	c.OwnerAuth = c.EnableOwnerAuth()
	c.Alerter = util.NewAlerter(cfg.OpsWebhook, env)

	return c
}

// getLocalIP 获取本机IP地址（优先获取内网IP）
func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}

	var fallback string
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		if ipnet.IP.IsPrivate() {
			return ipnet.IP.String()
		}
		if fallback == "" {
			fallback = ipnet.IP.String()
		}
	}

	if fallback != "" {
		return fallback
	}
	return "127.0.0.1"
}

func (c *Configures) EnableOwnerAuth() *security.OwnerAuth {
	return security.NewOwnerAuth([]byte(c.Config.Jwt.Secret), time.Duration(c.Config.Jwt.ExpireTime)*24*time.Hour)
}

// EnableRedis 未配置 host 时返回 nil，缓存退化为纯本地
func (c *Configures) EnableRedis() *redis.Client {
	if c.Config.Redis.Host == "" {
		c.Logger.Warn("redis 未配置，使用本地缓存")
		return nil
	}
	return config.InitRDB(c.Config.Redis, c.Config.Proxy)
}

func (c *Configures) EnableCache(rdb *redis.Client) *cache.Cache {
	return config.InitCache(rdb, 10000)
}

func (c *Configures) EnableLocker(rdb *redis.Client) *redislock.Client {
	if rdb == nil {
		return nil
	}
	return redislock.New(rdb)
}

func (c *Configures) EnableDB() *gorm.DB {
	db, err := config.InitDB(c.Config.Database, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithField("err", err).Panic("failed connect database")
	}
	c.Logger.WithField("driver", c.Config.Database.Driver).Info("connect database success")
	return db
}

func (c *Configures) EnableMongo() *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := config.InitMongo(ctx, c.Config.Mongo, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("uri", c.Config.Mongo.URI).WithField("err", err).Panic("failed connect mongodb")
	}
	c.Logger.Info("connect mongodb success")
	return db
}

// EnableTracer 配置了 zipkin 时使用 zipkin，否则只生成 TraceID
func (c *Configures) EnableTracer() tracer.Tracer {
	zt, err := config.InitZipkin(c.Config.Zipkin, c.Config.AppName, fmt.Sprintf("%s:%d", c.Config.Host, c.Config.Port))
	if err != nil {
		c.Logger.WithField("err", err).Warn("zipkin 初始化失败，降级为简单追踪")
		return tracer.NewSimpleTracer()
	}
	if zt == nil {
		return tracer.NewSimpleTracer()
	}
	return tracer.NewZipkinTracer(zt, c.Config.AppName)
}
