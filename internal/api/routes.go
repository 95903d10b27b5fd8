package api

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Web-Oliver/pokemon-collection/internal/api/handlers"
	"github.com/Web-Oliver/pokemon-collection/internal/metrics"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))
	router.Use(observeRequests())

	// Initialize handlers
	psaHandler := handlers.NewPsaCardHandler(db)
	rawHandler := handlers.NewRawCardHandler(db)
	sealedHandler := handlers.NewSealedProductHandler(db)

	// API routes
	api := router.Group("/api")
	{
		psaCards := api.Group("/psa-cards")
		{
			psaCards.GET("", psaHandler.List)
			psaCards.POST("", psaHandler.Create)
			psaCards.PUT("/:id", psaHandler.Update)
			psaCards.DELETE("/:id", psaHandler.Delete)
			psaCards.POST("/:id/mark-sold", psaHandler.MarkSold)
		}

		rawCards := api.Group("/raw-cards")
		{
			rawCards.GET("", rawHandler.List)
			rawCards.POST("", rawHandler.Create)
			rawCards.PUT("/:id", rawHandler.Update)
			rawCards.DELETE("/:id", rawHandler.Delete)
			rawCards.POST("/:id/mark-sold", rawHandler.MarkSold)
		}

		sealedProducts := api.Group("/sealed-products")
		{
			sealedProducts.GET("", sealedHandler.List)
			sealedProducts.POST("", sealedHandler.Create)
			sealedProducts.PUT("/:id", sealedHandler.Update)
			sealedProducts.DELETE("/:id", sealedHandler.Delete)
			sealedProducts.POST("/:id/mark-sold", sealedHandler.MarkSold)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// observeRequests records request counts and latency per route.
func observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
