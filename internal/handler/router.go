package handler

import (
	"time"

	"team-server/internal/config"
	"team-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(r *gin.Engine) {
	cfg := config.Get()

	// 全局中间件
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(gin.Recovery())

	// 安全响应头
	if cfg.Security.EnableSecurityHeaders {
		r.Use(middleware.SecurityHeadersMiddleware())
	}

	// 速率限制器
	limiter := middleware.NewRateLimiter(100, time.Minute)    // 普通接口：每分钟100次
	authLimiter := middleware.NewRateLimiter(10, time.Minute) // 认证接口：每分钟10次

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiter))

	// API 健康检查（供 Docker/K8s 使用）
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "team-server"})
	})

	// 初始化 Handler
	authHandler := NewAuthHandler()
	userHandler := NewUserHandler()
	orgHandler := NewOrganizationHandler()
	memberHandler := NewMemberHandler()
	activityHandler := NewActivityHandler()
	onboardingHandler := NewOnboardingHandler()
	uploadHandler := NewUploadHandler()

	// ==================== 公开接口 ====================
	// 用户认证（更严格的速率限制）
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(authLimiter))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// ==================== 需要认证的接口 ====================
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		// 账号
		authenticated.GET("/auth/profile", userHandler.GetCurrent)
		authenticated.PUT("/auth/password", authHandler.ChangePassword)

		// 用户
		users := authenticated.Group("/users")
		{
			users.GET("/me", userHandler.GetCurrent)
			users.PUT("/me", userHandler.Update)
			users.DELETE("/me", userHandler.DeleteAccount)
			users.GET("/search", userHandler.Search)
			users.GET("/by-email", userHandler.GetByEmail)
			users.GET("/:id", userHandler.GetByID)
		}

		// 组织
		orgs := authenticated.Group("/organizations")
		{
			orgs.GET("", orgHandler.List)
			orgs.POST("", orgHandler.Create)
			orgs.GET("/slug/:slug", orgHandler.GetBySlug)
			orgs.GET("/:id", orgHandler.GetByID)
			orgs.PUT("/:id", orgHandler.Update)
			orgs.DELETE("/:id", orgHandler.Remove)

			// 组织成员与邀请
			orgs.GET("/:id/members", memberHandler.List)
			orgs.POST("/:id/invitations", memberHandler.Invite)
			orgs.GET("/:id/invitations", memberHandler.ListInvitations)

			// 操作日志
			orgs.GET("/:id/activity", activityHandler.List)
		}

		// 成员
		members := authenticated.Group("/members")
		{
			members.PUT("/:id/role", memberHandler.UpdateRole)
			members.DELETE("/:id", memberHandler.Remove)
		}

		// 邀请
		invitations := authenticated.Group("/invitations")
		{
			invitations.POST("/accept", memberHandler.AcceptInvitation)
			invitations.DELETE("/:id", memberHandler.DeleteInvitation)
		}

		// 全局动态
		authenticated.GET("/activity/recent", activityHandler.GetRecent)

		// 引导流程
		onboarding := authenticated.Group("/onboarding")
		{
			onboarding.GET("/status", onboardingHandler.Status)
			onboarding.POST("/profile", onboardingHandler.CompleteProfile)
			onboarding.POST("/complete", onboardingHandler.Complete)
			onboarding.GET("/generate-slug", onboardingHandler.GenerateSlug)
		}

		// 文件上传
		authenticated.POST("/upload", uploadHandler.Upload)
	}
}
