package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/api/handlers"
	"github.com/MDesign-Tech/awegift-sub000/internal/api/middleware"
	"github.com/MDesign-Tech/awegift-sub000/internal/config"
	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/notify"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, dispatcher *notify.Dispatcher, hub *notify.Hub, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))
	router.Use(cors.New(corsConfig(cfg)))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Awegift Storefront API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/products",
				"POST /v1/orders",
				"POST /v1/quotes",
				"GET /v1/notifications",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Internal webhook: delivery collaborators push notifications back in
	internal := router.Group("/internal")
	internal.Use(middleware.ServiceKeyMiddleware(cfg.Auth, logger))
	{
		internal.POST("/notifications", handlers.HandleInternalNotify(dispatcher, logger))
	}

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Storefront routes open to guests
		publicRoutes := v1.Group("")
		publicRoutes.Use(middleware.OptionalAuthMiddleware(cfg.Auth, logger))
		{
			publicRoutes.GET("/products", handlers.HandleListProducts(repos, logger))
			publicRoutes.GET("/products/:id", handlers.HandleGetProduct(repos, logger))
			publicRoutes.POST("/quotes", handlers.HandleCreateQuote(repos, dispatcher, logger))
		}

		// Customer routes (require authentication)
		userRoutes := v1.Group("")
		userRoutes.Use(middleware.AuthMiddleware(cfg.Auth, logger))
		{
			userRoutes.POST("/orders",
				middleware.IdempotencyMiddleware(repos, logger),
				handlers.HandleCreateOrder(repos, dispatcher, logger))
			userRoutes.GET("/orders", handlers.HandleListOrders(repos, dispatcher, logger))
			userRoutes.GET("/orders/:id", handlers.HandleGetOrder(repos, dispatcher, logger))
			userRoutes.POST("/orders/:id/status", handlers.HandleUpdateOrderStatus(repos, dispatcher, logger))
			userRoutes.POST("/orders/:id/payment", handlers.HandleUpdatePayment(repos, dispatcher, logger))
			userRoutes.GET("/orders/:id/history", handlers.HandleOrderHistory(repos, dispatcher, logger))

			userRoutes.GET("/quotes", handlers.HandleListQuotes(repos, dispatcher, logger))
			userRoutes.GET("/quotes/:id", handlers.HandleGetQuote(repos, dispatcher, logger))
			userRoutes.POST("/quotes/:id/accept", handlers.HandleQuoteDecision(repos, dispatcher, logger, domain.QuoteStatusAccepted))
			userRoutes.POST("/quotes/:id/reject", handlers.HandleQuoteDecision(repos, dispatcher, logger, domain.QuoteStatusRejected))
			userRoutes.POST("/quotes/:id/to-cart", handlers.HandleQuoteToCart(repos, dispatcher, logger))

			userRoutes.GET("/notifications", handlers.HandleListNotifications(repos, logger))
			userRoutes.POST("/notifications/:id/read", handlers.HandleMarkNotificationRead(repos, logger))

			// Live back-office feed
			userRoutes.GET("/ws/notifications", middleware.RequireAdmin(), func(c *gin.Context) {
				hub.ServeWS(c.Writer, c.Request)
			})
		}

		// Back-office routes (admin only)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(cfg.Auth, logger))
		adminRoutes.Use(middleware.RequireAdmin())
		{
			adminRoutes.PUT("/quotes/:id", handlers.HandleEditQuote(repos, dispatcher, logger))
			adminRoutes.POST("/quotes/:id/status", handlers.HandleAdminQuoteStatus(repos, dispatcher, logger))
			adminRoutes.DELETE("/quotes/:id", handlers.HandleDeleteQuote(repos, dispatcher, logger))
			adminRoutes.DELETE("/orders/:id", handlers.HandleDeleteOrder(repos, dispatcher, logger))

			adminRoutes.POST("/products", handlers.HandleCreateProduct(repos, logger))
			adminRoutes.PUT("/products/:id", handlers.HandleUpdateProduct(repos, logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleDeleteProduct(repos, logger))

			adminRoutes.GET("/orders/export", handlers.HandleExportOrders(repos, logger))
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return corsCfg
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
