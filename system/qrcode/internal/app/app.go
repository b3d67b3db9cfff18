package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"qrhub/pkg/core/config"
	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/service"

	"github.com/go-redis/cache/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Deps 二维码组件依赖；Mongo 非空时使用 mongo 存储，否则使用 DB。
// SharedCache 表示缓存带 redis 二级、多实例共享，此时解析快照不进本地层
type Deps struct {
	DB            *gorm.DB
	Mongo         *mongo.Database
	Cache         *cache.Cache
	SharedCache   bool
	Config        config.QRCodeConfig
	PublicBaseURL string
	Log           *logger.Log
}

// App 二维码组件应用层
type App struct {
	QRCodeService    *service.QRCodeService
	CampaignService  *service.CampaignService
	ResolverService  *service.ResolverService
	ScanService      *service.ScanService
	AnalyticsService *service.AnalyticsService
	ProfileService   *service.ProfileService
	GroupService     *service.GroupService

	cache     *cache.Cache
	shared    bool
	cfg       config.QRCodeConfig
	baseURL   string
	recorders sync.WaitGroup
	now       func() time.Time
	log       *logger.Log
	err       *errorc.ErrorBuilder
}

// NewApp 创建二维码组件应用层实例
func NewApp(deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithEntryName("QRCodeApp")
	cfg := deps.Config.WithDefaults()

	// 初始化 DAO
	var (
		qrDao      dao.QRCodeDao
		eventDao   dao.ScanEventDao
		profileDao dao.ProfileDao
		groupDao   dao.ProfileGroupDao
	)
	if deps.Mongo != nil {
		qrDao = dao.NewQRCodeMongoDao(deps.Mongo, log)
		eventDao = dao.NewScanEventMongoDao(deps.Mongo, log)
		profileDao = dao.NewProfileMongoDao(deps.Mongo)
		groupDao = dao.NewProfileGroupMongoDao(deps.Mongo)
	} else {
		qrDao = dao.NewQRCodeGormDao(deps.DB, log)
		eventDao = dao.NewScanEventGormDao(deps.DB, log)
		profileDao = dao.NewProfileGormDao(deps.DB)
		groupDao = dao.NewProfileGroupGormDao(deps.DB)
	}

	// 初始化 Service
	qrSvc := service.NewQRCodeService(qrDao, service.QRCodeOptions{
		CodeLength:  cfg.CodeLength,
		CodeRetries: cfg.CodeRetries,
	}, log)
	groupSvc := service.NewGroupService(groupDao, profileDao, log)

	return &App{
		QRCodeService:    qrSvc,
		CampaignService:  service.NewCampaignService(qrSvc, log),
		ResolverService:  service.NewResolverService(qrDao, log),
		ScanService:      service.NewScanService(qrDao, eventDao, log),
		AnalyticsService: service.NewAnalyticsService(qrDao, eventDao, log),
		ProfileService:   service.NewProfileService(profileDao, groupSvc, log),
		GroupService:     groupSvc,
		cache:            deps.Cache,
		shared:           deps.SharedCache,
		cfg:              cfg,
		baseURL:          strings.TrimRight(deps.PublicBaseURL, "/"),
		now:              func() time.Time { return time.Now().UTC() },
		log:              log,
		err:              errorc.NewErrorBuilder("QRCodeApp"),
	}
}

// ShortURL 动态码编码进图片的地址
func (a *App) ShortURL(code string) string {
	return a.baseURL + "/q/" + code
}

// ProfileURL 名片公开页地址
func (a *App) ProfileURL(profileID string) string {
	return a.baseURL + "/p/" + profileID
}

// Now 应用层当前时间
func (a *App) Now() time.Time {
	return a.now()
}

// WaitRecorders 等待异步扫码记录写完，用于停机与测试
func (a *App) WaitRecorders() {
	a.recorders.Wait()
}

// cached 带缓存读取，未配置缓存时直接加载；加载出错不缓存
func cached[T any](a *App, ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	return cacheOnce(a, ctx, key, ttl, false, load)
}

// sharedCached 供跳转解析使用：其他实例的 evict 只能清掉 redis，共享部署下跳过本地层
func sharedCached[T any](a *App, ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	return cacheOnce(a, ctx, key, ttl, a.shared, load)
}

func cacheOnce[T any](a *App, ctx context.Context, key string, ttl time.Duration, skipLocal bool, load func() (T, error)) (T, error) {
	if a.cache == nil {
		return load()
	}
	var value T
	err := a.cache.Once(&cache.Item{
		Ctx:            ctx,
		Key:            key,
		Value:          &value,
		TTL:            ttl,
		SkipLocalCache: skipLocal,
		Do: func(*cache.Item) (interface{}, error) {
			return load()
		},
	})
	return value, err
}

func (a *App) evict(ctx context.Context, keys ...string) {
	if a.cache == nil {
		return
	}
	for _, key := range keys {
		if err := a.cache.Delete(ctx, key); err != nil && err != cache.ErrCacheMiss {
			a.log.WithErr(err).WithField("key", key).Warn("清除缓存失败")
		}
	}
}

func codeCacheKey(code string) string {
	return "qrcode:code:" + code
}
