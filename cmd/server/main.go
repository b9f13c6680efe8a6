package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"teamsite/backend/internal/ai"
	"teamsite/backend/internal/auth"
	jwtpkg "teamsite/backend/internal/auth/jwt"
	"teamsite/backend/internal/config"
	"teamsite/backend/internal/health"
	"teamsite/backend/internal/logger"
	"teamsite/backend/internal/mail"
	"teamsite/backend/internal/scheduler"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
	"teamsite/backend/internal/storage/memory"
	"teamsite/backend/internal/storage/postgres"
	"teamsite/backend/internal/storage/redis"
	httptransport "teamsite/backend/internal/transport/http"
	"teamsite/backend/internal/websocket"
)

// main 启动团队站点后端:HTTP API、管理端事件流与通讯定时任务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     cfg.Log.File,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting teamsite server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化存储层
	store, err := initializeStorage(cfg, log)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize storage: %v", err))
	}
	defer store.Close()

	// 初始化 Redis 缓存（可选）
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		cache, err = redis.NewCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("failed to connect redis, continuing without cache", zap.Error(err))
			cache = nil
		} else {
			log.Info("redis cache initialized", zap.String("address", cfg.Redis.Address))
			defer cache.Close()
		}
	}

	// 初始化健康检查
	healthChecker := health.NewHealthChecker(store, cache, log)

	// 初始化认证
	authService := auth.NewService(store)
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// 创建 WebSocket Hub（管理端事件流）
	wsHub := websocket.NewHub(cfg.CORS.AllowedOrigins, cfg.JWT.Secret, log)

	// 外发邮件与 AI 生成客户端
	sender := mail.NewSMTPSender(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		SiteName: cfg.Newsletter.SiteName,
		BaseURL:  cfg.Newsletter.BaseURL,
		Timeout:  cfg.Mail.Timeout,
	}, log)

	generator := ai.NewOpenAIClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	}, log)

	// 初始化服务层
	subscriberService := service.NewSubscriberService(store, log)
	newsletterService := service.NewNewsletterService(store, store, sender, cfg.Newsletter.BatchSize, wsHub, log)
	collector := service.NewCollector(store, store, log)
	blogService := service.NewBlogService(store, log)
	assemblyService := service.NewAssemblyService(collector, generator, store, store, blogService, cfg.Newsletter.SiteName, log)
	projectService := service.NewProjectService(store, log)
	activityService := service.NewActivityService(store, log)
	requestService := service.NewRequestService(store, log)

	// 缓存是可选依赖，Redis 不可用时所有读取直接落库
	if cache != nil {
		subscriberService.SetCache(cache)
		newsletterService.SetCache(cache)
		blogService.SetCache(cache)
	}

	// 初始化通讯定时任务
	sched := scheduler.New(scheduler.RealClock(), log)
	if cfg.Newsletter.ScheduleEnabled {
		if err := registerNewsletterJob(sched, cfg, assemblyService, newsletterService, log); err != nil {
			panic(fmt.Sprintf("failed to register newsletter schedule: %v", err))
		}
	}

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:            cfg,
		AuthService:       authService,
		SubscriberService: subscriberService,
		NewsletterService: newsletterService,
		AssemblyService:   assemblyService,
		BlogService:       blogService,
		ProjectService:    projectService,
		ActivityService:   activityService,
		RequestService:    requestService,
		JWTManager:        jwtManager,
		WebSocketHub:      wsHub,
		HealthChecker:     healthChecker,
		Logger:            log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// WebSocket Hub goroutine
	group.Go(func() error {
		log.Info("starting WebSocket hub")
		wsHub.Run(groupCtx)
		return nil
	})

	// 定时任务 goroutine
	group.Go(func() error {
		sched.Start(groupCtx)
		return nil
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		sched.Stop()

		log.Info("servers stopped")
		return nil
	})

	// 等待所有 goroutine 完成
	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}

// initializeStorage 根据配置选择存储实现
//
// database.type 为空时使用内存存储，仅适合开发环境。
func initializeStorage(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	opts := postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	switch cfg.Database.Type {
	case "postgres":
		store, err := postgres.NewStore(cfg.Database.DSN, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres store: %w", err)
		}
		log.Info("using postgres storage")
		return store, nil
	case "mysql":
		store, err := postgres.NewMySQLStore(cfg.Database.DSN, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create mysql store: %w", err)
		}
		log.Info("using mysql storage")
		return store, nil
	case "":
		log.Info("using memory storage (development mode)")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %q", cfg.Database.Type)
	}
}

// registerNewsletterJob 注册每周通讯生成任务
//
// 生成总是落库为草稿；auto_send 开启时生成后立即向订阅者群发。
func registerNewsletterJob(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	assembly *service.AssemblyService,
	newsletters *service.NewsletterService,
	log *zap.Logger,
) error {
	weekday, err := scheduler.ParseWeekday(cfg.Newsletter.ScheduleWeekday)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Newsletter.Timezone)
	if err != nil {
		return fmt.Errorf("invalid newsletter timezone %q: %w", cfg.Newsletter.Timezone, err)
	}

	sched.Register(scheduler.Job{
		Name: "weekly_newsletter",
		Schedule: scheduler.Schedule{
			Weekday:  weekday,
			Hour:     cfg.Newsletter.ScheduleHour,
			Minute:   cfg.Newsletter.ScheduleMinute,
			Location: loc,
		},
		Run: func(ctx context.Context) error {
			n, err := assembly.GenerateNewsletter(ctx, service.GenerateInput{
				PeriodDays:  cfg.Newsletter.PeriodDays,
				SaveAsDraft: true,
				Trigger:     "scheduled",
			})
			if err != nil {
				return err
			}

			log.Info("定时生成通讯完成",
				zap.Uint("newsletter_id", n.ID),
				zap.String("title", n.Title),
			)

			if !cfg.Newsletter.AutoSend {
				return nil
			}

			report, err := newsletters.SendToAll(ctx, n.ID)
			if err != nil {
				return err
			}

			log.Info("定时发送通讯完成",
				zap.Uint("newsletter_id", report.NewsletterID),
				zap.Int("recipients", report.RecipientCount),
				zap.Int("batches", report.BatchCount),
			)
			return nil
		},
	})

	log.Info("newsletter schedule registered",
		zap.String("weekday", cfg.Newsletter.ScheduleWeekday),
		zap.Int("hour", cfg.Newsletter.ScheduleHour),
		zap.Int("minute", cfg.Newsletter.ScheduleMinute),
		zap.String("timezone", cfg.Newsletter.Timezone),
		zap.Bool("auto_send", cfg.Newsletter.AutoSend),
	)
	return nil
}
