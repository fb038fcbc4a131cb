package app

import (
	"narada_backend/docs"
	"narada_backend/internal/config"
	"narada_backend/internal/middleware"
	"narada_backend/pkg/monitoring"
	"narada_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, s, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	a.registerMerchantRoutes(authGroup, c)

	// The answer endpoint reports auth failures in its own error shape.
	router.POST("/api/ai/generate", middleware.AnswerAuthMiddleware(cfg), c.answer.Generate)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", middleware.DeepHealthAuth(cfg), c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/tones", c.settings.Tones)
		public.POST("/demo/chat", security.DemoRateLimit(s.demoLimiter, security.DemoKeyFunc(cfg.RateLimit.Demo.ClientKey)), c.answer.DemoChat)
	}
}

func (a *App) registerMerchantRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.user.GetProfile)
	group.PUT("/profile", c.user.UpdateProfile)

	faqs := group.Group("/faqs")
	{
		faqs.GET("", c.faq.List)
		faqs.POST("", c.faq.Create)
		faqs.PUT("/:id", c.faq.Update)
		faqs.PATCH("/:id/toggle", c.faq.Toggle)
		faqs.DELETE("/:id", c.faq.Delete)
	}

	group.GET("/settings", c.settings.Get)
	group.PUT("/settings", c.settings.Update)

	conversations := group.Group("/conversations")
	{
		conversations.GET("", c.conversation.List)
		conversations.POST("", c.conversation.Create)
		conversations.DELETE("/:id", c.conversation.Delete)
	}

	group.GET("/dashboard", c.dashboard.GetDashboard)
}
