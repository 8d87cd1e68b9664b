/*
 * @Description: 应用装配：配置、存储、统计服务、路由
 * @Date: 2026-10-11 16:02:11
 * @LastEditTime: 2026-10-13 22:31:50
 */
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dustinreed/portfolio/internal/app/middleware"
	"github.com/dustinreed/portfolio/internal/app/task"
	"github.com/dustinreed/portfolio/internal/infra/persistence/database"
	"github.com/dustinreed/portfolio/internal/infra/router"
	"github.com/dustinreed/portfolio/internal/infra/storage"
	"github.com/dustinreed/portfolio/internal/pkg/utils"
	"github.com/dustinreed/portfolio/internal/pkg/version"
	"github.com/dustinreed/portfolio/pkg/config"
	"github.com/dustinreed/portfolio/pkg/constant"
	page_handler "github.com/dustinreed/portfolio/pkg/handler/page"
	statistics_handler "github.com/dustinreed/portfolio/pkg/handler/statistics"
	"github.com/dustinreed/portfolio/pkg/service/statistics"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg           *config.Config
	engine        *gin.Engine
	scheduler     *task.Scheduler
	reportLimiter *middleware.RateLimiter
}

func (a *App) PrintBanner() {
	log.Println("--------------------------------------------------------")
	log.Printf(" Portfolio - Version: %s", version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
// assets 的根目录下需要有 templates/
func NewApp(assets fs.FS) (*App, func(), error) {
	ctx := context.Background()

	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	loc := utils.LoadLocation(cfg.GetString(config.KeyServerTimezone))

	// --- Phase 2: 初始化基础设施 ---
	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}
	cleanup := func() {
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
	}

	objects, err := newObjectStore(ctx, cfg, redisClient)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("初始化对象存储失败: %w", err)
	}

	// --- Phase 3: 初始化统计服务 ---
	visitorStore := statistics.NewVisitorStore(objects, cfg.GetString(config.KeyStorageKey))
	classifier, err := statistics.NewUserAgentClassifier()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("初始化 User-Agent 解析器失败: %w", err)
	}
	tracker := statistics.NewVisitorTracker(visitorStore, classifier, statistics.WithLocation(loc))
	log.Printf("[访客统计] 存储位置: %s", visitorStore.Describe())

	scheduler := task.NewScheduler(loc)
	if err := scheduler.RegisterVisitorBackup(cfg.GetString(config.KeyAnalyticsBackupSchedule), visitorStore); err != nil {
		cleanup()
		return nil, nil, err
	}

	// --- Phase 4: 初始化中间件与处理器 ---
	skipPaths := cfg.GetStringSlice(config.KeyAnalyticsSkipPaths)
	if len(skipPaths) == 0 {
		skipPaths = middleware.DefaultSkipPaths
	}
	statsMiddleware := middleware.NewStatisticsMiddleware(tracker, skipPaths, cfg.GetBool(config.KeyAnalyticsTrackReports))
	reportLimiter := middleware.NewRateLimiter(cfg.GetInt(config.KeyAnalyticsRateLimit), 0)

	username := cfg.GetString(config.KeyAnalyticsUsername)
	if username == "" || cfg.GetString(config.KeyAnalyticsPassword) == "" {
		log.Println("[访客统计] 未配置仪表盘账号，/analytics 与 /stats 将拒绝所有访问")
	}
	dashboardAuth := middleware.BasicAuth(username, cfg.GetString(config.KeyAnalyticsPassword))

	appRouter := router.NewRouter(
		page_handler.NewHandler(cfg.GetString(config.KeyServerStaticDir)),
		statistics_handler.NewStatisticsHandler(tracker),
		dashboardAuth,
		reportLimiter.Handler(),
	)

	// --- Phase 5: 配置 Gin 引擎 ---
	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
		log.Println("运行模式: Debug (Gin 将打印详细路由日志)")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("运行模式: Release")
	}

	engine := gin.Default()
	if err := engine.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		reportLimiter.Stop()
		cleanup()
		return nil, nil, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.Use(middleware.RequestID(), middleware.Cors(), statsMiddleware.StatisticsHandler())
	if err := router.SetupFrontend(engine, assets); err != nil {
		reportLimiter.Stop()
		cleanup()
		return nil, nil, err
	}
	appRouter.Setup(engine)

	app := &App{
		cfg:           cfg,
		engine:        engine,
		scheduler:     scheduler,
		reportLimiter: reportLimiter,
	}
	return app, cleanup, nil
}

// newObjectStore 根据 Storage.* 配置创建对象存储
// 只有驱动名称无效才返回错误；后端无法初始化时访客统计降级为空，网站照常启动
func newObjectStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (storage.ObjectStore, error) {
	driver := constant.ParseStorageDriver(cfg.GetString(config.KeyStorageDriver))
	if !driver.IsValid() {
		return nil, fmt.Errorf("不支持的存储驱动: %s", driver)
	}

	objects, err := storage.NewObjectStore(ctx, storage.Options{
		Driver:    driver,
		Bucket:    cfg.GetString(config.KeyStorageBucket),
		Region:    cfg.GetString(config.KeyStorageRegion),
		Endpoint:  cfg.GetString(config.KeyStorageEndpoint),
		AccessKey: cfg.GetString(config.KeyStorageAccessKey),
		SecretKey: cfg.GetString(config.KeyStorageSecretKey),
		Domain:    cfg.GetString(config.KeyStorageDomain),
		LocalPath: cfg.GetString(config.KeyStorageLocalPath),
	}, redisClient)
	if err != nil {
		log.Printf("[访客统计] 警告: 存储后端 %s 初始化失败，访客统计将不会持久化: %v", driver, err)
		return nil, nil
	}
	return objects, nil
}

func (a *App) Run() error {
	a.scheduler.Start()
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8080"
	}
	log.Printf("应用程序启动成功，正在监听端口: %s", port)
	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.reportLimiter != nil {
		a.reportLimiter.Stop()
	}
}
