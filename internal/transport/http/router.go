package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/auth"
	jwtpkg "teamsite/backend/internal/auth/jwt"
	"teamsite/backend/internal/config"
	"teamsite/backend/internal/health"
	"teamsite/backend/internal/middleware"
	"teamsite/backend/internal/monitoring"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/websocket"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config            *config.Config
	AuthService       *auth.Service
	SubscriberService *service.SubscriberService
	NewsletterService *service.NewsletterService
	AssemblyService   *service.AssemblyService
	BlogService       *service.BlogService
	ProjectService    *service.ProjectService
	ActivityService   *service.ActivityService
	RequestService    *service.RequestService
	JWTManager        *jwtpkg.Manager
	WebSocketHub      *websocket.Hub
	HealthChecker     *health.HealthChecker
	Logger            *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// 使用自定义中间件替代默认中间件
	router.Use(middleware.PanicRecovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.HTTPMetrics())

	// 全局请求体大小限制 2MB，通讯正文不会超过这个量级
	router.Use(middleware.BodySizeLimit(2 * 1024 * 1024))

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	// 创建处理器
	authHandler := NewAuthHandler(deps.AuthService, deps.JWTManager, log)
	newsletterHandler := NewNewsletterHandler(deps.NewsletterService, deps.SubscriberService, log)
	aiHandler := NewAIHandler(deps.AssemblyService, log)
	blogHandler := NewBlogHandler(deps.BlogService, log)
	projectHandler := NewProjectHandler(deps.ProjectService, log)
	activityHandler := NewActivityHandler(deps.ActivityService, log)
	requestHandler := NewRequestHandler(deps.RequestService, log)

	// 创建中间件
	jwtAuth := middleware.NewJWTAuth(deps.JWTManager, log)
	adminAuth := middleware.NewAdminAuth(deps.AuthService)

	// 订阅与选题提交是公开写入口，按 IP 限流
	subscribeLimit := middleware.NewRateLimiter(1, 5)

	// 指标端点
	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	// 健康检查
	if deps.HealthChecker != nil {
		router.GET("/healthz", gin.WrapF(deps.HealthChecker.LiveHandler()))
		router.GET("/readyz", gin.WrapF(deps.HealthChecker.ReadyHandler()))
	} else {
		router.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// V1 API
	v1 := router.Group("/v1")
	{
		// ========== Auth Routes ==========
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/me", jwtAuth.RequireAuth(), authHandler.Me)
			authRoutes.POST("/password", jwtAuth.RequireAuth(), authHandler.ChangePassword)
		}

		// ========== Newsletter Routes ==========
		newsletterRoutes := v1.Group("/newsletter")
		{
			newsletterRoutes.POST("/subscribe", subscribeLimit.Middleware(), jwtAuth.OptionalAuth(), newsletterHandler.Subscribe)
			newsletterRoutes.POST("/unsubscribe", newsletterHandler.Unsubscribe)
			newsletterRoutes.GET("/unsubscribe/:token", newsletterHandler.UnsubscribeByToken) // 邮件退订链接
			newsletterRoutes.GET("/subscribers/count", newsletterHandler.SubscriberCount)
		}

		// 公开读取接口统一加 10 秒超时
		readTimeout := middleware.Timeout(10 * time.Second)

		// 已发送通讯的公开归档
		v1.GET("/newsletters", readTimeout, newsletterHandler.List)
		v1.GET("/newsletters/:id", readTimeout, newsletterHandler.Get)

		// ========== Blog Routes ==========
		v1.GET("/blogs", readTimeout, blogHandler.List)
		v1.GET("/blogs/:slug", readTimeout, blogHandler.GetBySlug)

		// ========== Project Routes ==========
		v1.GET("/projects", readTimeout, projectHandler.List)
		v1.GET("/projects/:slug", readTimeout, projectHandler.GetBySlug)

		// ========== Activity Routes ==========
		// 创建需登录，更新和删除仅限创建者（在服务层校验）
		activityRoutes := v1.Group("/activities")
		{
			activityRoutes.GET("", readTimeout, activityHandler.List)
			activityRoutes.GET("/:id", readTimeout, activityHandler.Get)
			activityRoutes.POST("", jwtAuth.RequireAuth(), activityHandler.Create)
			activityRoutes.PUT("/:id", jwtAuth.RequireAuth(), activityHandler.Update)
			activityRoutes.DELETE("/:id", jwtAuth.RequireAuth(), activityHandler.Delete)
		}

		// ========== Topic Request Routes ==========
		requestRoutes := v1.Group("/requests")
		{
			requestRoutes.POST("", subscribeLimit.Middleware(), jwtAuth.OptionalAuth(), requestHandler.Create)
			requestRoutes.GET("", requestHandler.List)
			requestRoutes.POST("/:id/vote", requestHandler.Vote)
		}

		// ========== Admin Routes ==========
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(jwtAuth.RequireAuth(), adminAuth.RequireAdmin()) // 所有管理路由都需要管理员权限
		{
			// 通讯管理
			adminRoutes.GET("/newsletter/subscribers", newsletterHandler.ListSubscribers)
			adminRoutes.POST("/newsletters", newsletterHandler.Create)
			adminRoutes.GET("/newsletters", newsletterHandler.List)
			adminRoutes.GET("/newsletters/:id", newsletterHandler.Get)
			adminRoutes.POST("/newsletters/:id/send", newsletterHandler.Send)
			adminRoutes.DELETE("/newsletters/:id", newsletterHandler.Delete)

			// AI 生成
			adminRoutes.POST("/ai/newsletter", aiHandler.GenerateNewsletter)
			adminRoutes.POST("/ai/blog", aiHandler.GenerateBlog)

			// 博客管理
			adminRoutes.POST("/blogs", blogHandler.Create)
			adminRoutes.PUT("/blogs/:id", blogHandler.Update)
			adminRoutes.POST("/blogs/:id/publish", blogHandler.Publish)
			adminRoutes.DELETE("/blogs/:id", blogHandler.Delete)

			// 项目管理
			adminRoutes.POST("/projects", projectHandler.Create)
			adminRoutes.PUT("/projects/:id", projectHandler.Update)
			adminRoutes.DELETE("/projects/:id", projectHandler.Delete)

			// 选题请求审核
			adminRoutes.PUT("/requests/:id/priority", requestHandler.UpdatePriority)
			adminRoutes.POST("/requests/:id/accept", requestHandler.Accept)
			adminRoutes.POST("/requests/:id/reject", requestHandler.Reject)
			adminRoutes.DELETE("/requests/:id", requestHandler.Delete)
		}

		// ========== WebSocket Routes ==========
		// 管理端实时事件流：认证在 Hub 内完成，支持 query token
		if deps.WebSocketHub != nil {
			v1.GET("/admin/events", websocket.HandleWebSocket(deps.WebSocketHub))
		}
	}

	return router
}
