package app

import (
	"evaluation_backend/docs"
	"evaluation_backend/internal/config"
	"evaluation_backend/internal/middleware"
	"evaluation_backend/internal/model"
	"evaluation_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerEmployeeRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerEmployeeRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.profile.Get)

	evaluations := group.Group("/evaluations")
	{
		evaluations.GET("", c.evaluation.List)
		evaluations.GET("/current", c.evaluation.Current)
		evaluations.GET("/:id", c.evaluation.Get)
	}

	answers := group.Group("/answers")
	{
		answers.POST("", c.answer.Submit)
		answers.GET("/mine", c.answer.Mine)
	}

	dashboard := group.Group("/dashboard")
	{
		dashboard.GET("", c.dashboard.Overview)
		dashboard.GET("/tally", c.dashboard.Tally)
		dashboard.GET("/averages", c.dashboard.Averages)
		dashboard.GET("/calendar", c.dashboard.Calendar)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/employees", c.employee.List)
		admin.POST("/employees", c.employee.Create)
		admin.DELETE("/employees/:id", c.employee.Delete)

		admin.POST("/evaluations", c.evaluation.Create)
		admin.PUT("/evaluations/:id/current", c.evaluation.SetCurrent)
		admin.DELETE("/evaluations/:id", c.evaluation.Delete)
		admin.GET("/evaluations/:id/summary", c.dashboard.Summary)
		admin.POST("/evaluations/:id/export", c.report.Export)
		admin.DELETE("/reports/:name", c.report.Remove)

		admin.GET("/answers", c.answer.List)
	}
}
