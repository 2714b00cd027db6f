package router

import (
	"github.com/gin-gonic/gin"

	"github.com/suitloom/suitloom-backend/config"
	"github.com/suitloom/suitloom-backend/internal/app/controller"
	"github.com/suitloom/suitloom-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	catalogController      *controller.CatalogController
	configuratorController *controller.ConfiguratorController
	orderController        *controller.OrderController
	adminController        *controller.AdminController
	wsController           *controller.WSController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	configuratorController *controller.ConfiguratorController,
	orderController *controller.OrderController,
	adminController *controller.AdminController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		catalogController:      catalogController,
		configuratorController: configuratorController,
		orderController:        orderController,
		adminController:        adminController,
		wsController:           wsController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SUITLOOM API is running",
		})
	})

	// 로컬 스토리지 사용 시 업로드/미리보기 파일 서빙
	router.Static("/uploads", r.config.S3.LocalDir)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.GET("", r.catalogController.GetCatalog)
			catalogGroup.GET("/:category", r.catalogController.GetCategoryOptions)
		}

		// 컨피규레이터는 로그인 없이 세션 헤더만으로 사용 가능
		configurator := v1.Group("/configurator")
		configurator.Use(middleware.RequireSession())
		{
			configurator.GET("/state", r.configuratorController.GetState)
			configurator.POST("/select", r.configuratorController.Select)
			configurator.POST("/deselect", r.configuratorController.Deselect)
			configurator.PUT("/tab", r.configuratorController.SetActiveTab)
			configurator.PUT("/group", r.configuratorController.SetActiveGroup)
			configurator.PUT("/view", r.configuratorController.SetViewMode)
			configurator.POST("/presets/:index/apply", r.configuratorController.ApplyPreset)
			configurator.POST("/photo", r.configuratorController.UploadPhoto)
			configurator.POST("/preview", r.configuratorController.GeneratePreview)
			configurator.GET("/summary", r.configuratorController.GetSummary)
			configurator.PUT("/measurements", r.configuratorController.SaveMeasurements)
			configurator.GET("/measurements", r.configuratorController.GetMeasurements)
			configurator.DELETE("", r.configuratorController.Reset)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate(), middleware.RequireSession())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.Submit)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/orders", r.adminController.ListAllOrders)
			admin.GET("/orders/export", r.adminController.ExportOrders)
			admin.PUT("/orders/:id/status", r.adminController.UpdateOrderStatus)
		}

		ws := v1.Group("/ws")
		ws.Use(middleware.RequireSession())
		{
			ws.GET("", r.wsController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Session-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Session-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
