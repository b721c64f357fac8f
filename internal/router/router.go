package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/dealer-admin-backend/config"
	"github.com/ikkim/dealer-admin-backend/internal/app/controller"
	"github.com/ikkim/dealer-admin-backend/internal/middleware"
)

type Router struct {
	dealerController *controller.DealerController
	noticeController *controller.NoticeController
	socketController *controller.SocketController
	config           *config.Config
}

func NewRouter(
	dealerController *controller.DealerController,
	noticeController *controller.NoticeController,
	socketController *controller.SocketController,
	cfg *config.Config,
) *Router {
	return &Router{
		dealerController: dealerController,
		noticeController: noticeController,
		socketController: socketController,
		config:           cfg,
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
			"message": "Dealer admin API is running",
			"storage": r.config.Storage.Backend,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(r.config.Server.RateLimitPerSec, r.config.Server.RateLimitBurst))
	{
		dealers := v1.Group("/dealers")
		{
			dealers.GET("", r.dealerController.ListDealers)
			dealers.POST("", r.dealerController.CreateDealer)
			dealers.GET("/export", r.dealerController.ExportDealers)
			dealers.POST("/import", r.dealerController.ImportDealers)
			dealers.GET("/:id", r.dealerController.GetDealer)
			dealers.PUT("/:id", r.dealerController.UpdateDealer)
			dealers.DELETE("/:id", r.dealerController.DeleteDealer)
		}

		v1.GET("/notice", r.noticeController.GetNotice)
		v1.DELETE("/notice", r.noticeController.DismissNotice)
	}

	// WebSocket은 연결이 길게 유지되므로 rate limit 그룹 밖에 둔다
	router.GET("/api/v1/ws", r.socketController.Connect)

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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
