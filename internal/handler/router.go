package handler

import (
	"net/http"
	"time"

	"dineout-frontend/internal/config"
	"dineout-frontend/internal/metrics"
	"dineout-frontend/internal/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func NewRouter(cfg *config.Config, pageHandler *PageHandler) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	// CORS配置
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		router.Use(RateLimit(cfg.RateLimit))
	}

	router.SetHTMLTemplate(view.Templates())

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/static/style.css", Stylesheet)

	// 页面路由
	router.GET("/", pageHandler.NewPage)
	pages := router.Group("/pages/:page_id")
	{
		pages.GET("", pageHandler.ShowPage)
		pages.POST("/recommend", pageHandler.SubmitForm)
		pages.GET("/events", pageHandler.Events)
	}

	// API路由
	api := router.Group("/api/pages")
	{
		api.POST("", pageHandler.CreatePageJSON)
		api.GET("/:page_id", pageHandler.GetPageJSON)
		api.POST("/:page_id/recommend", pageHandler.SubmitJSON)
		api.DELETE("/:page_id", pageHandler.DeletePage)
	}

	return router
}

// RateLimit rejects requests beyond the configured per-minute budget.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limit := rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			metrics.RateLimitRejects.Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
