package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"taskflow/internal/core/telemetry"
	"taskflow/pkg/config"
	"taskflow/pkg/logging"
	pkgresponse "taskflow/pkg/response"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
			duration,
		)
	}
}

func LoggingMiddleware(logger *logging.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		logger.InfoWithTrace(c.Request.Context(), "HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware allows the configured frontend origin. OPTIONS
// preflights short circuit with 204.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, logger *logging.LokiLogger, cfg *config.AppConfig, responseCache *pkgresponse.ResponseCache) {
	router.Use(otelgin.Middleware(serviceName))

	router.Use(LoggingMiddleware(logger))

	if cfg.CacheEnabled && responseCache != nil {
		router.Use(responseCache.CacheMiddleware())
		router.Use(responseCache.InvalidationMiddleware())
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
}
