package response

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
	"taskflow/pkg/tracing"
)

// ResponseCacheConfig configuration for response cache
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// ResponseCache caches GET responses in a port.CacheRepository. The
// backend is in-process memory by default, Redis when configured.
type ResponseCache struct {
	store   port.CacheRepository
	config  map[string]ResponseCacheConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
}

// CachedResponse structure stored per cache entry
type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

// NewResponseCache creates a new response cache instance
func NewResponseCache(store port.CacheRepository, logger *zap.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	configs := map[string]ResponseCacheConfig{
		"/api/todos": {
			TTL:     3 * time.Second,
			Enabled: true,
		},
		"/api/todos/summary": {
			TTL:     5 * time.Second,
			Enabled: true,
		},
		"/api/todos/summary/weekly": {
			TTL:     5 * time.Second,
			Enabled: true,
		},
		"default": {
			TTL:     1 * time.Second,
			Enabled: false,
		},
	}

	return &ResponseCache{
		store:   store,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

// CacheMiddleware serves cached GET responses and stores fresh ones.
func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		config, exists := rc.config[path]
		if !exists {
			config = rc.config["default"]
		}

		if !config.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c, path)

		if data, err := rc.store.Get(c.Request.Context(), cacheKey); err == nil {
			var cached CachedResponse

			if err := json.Unmarshal(data, &cached); err == nil && time.Since(cached.Timestamp) < config.TTL {
				_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
					attribute.String("cache.age", time.Since(cached.Timestamp).String()),
				})
				defer span.End()

				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(c.Request.Context(), path)
				}

				rc.logger.Debug("Cache hit",
					zap.String("path", path),
					zap.String("cache_key", cacheKey),
					zap.Duration("age", time.Since(cached.Timestamp)))

				for key, values := range cached.Headers {
					for _, value := range values {
						c.Header(key, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			cached := CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}

			data, err := json.Marshal(cached)
			if err != nil {
				return
			}

			if err := rc.store.Set(c.Request.Context(), cacheKey, data, config.TTL); err != nil {
				rc.logger.Warn("Cache store failed",
					zap.String("cache_key", cacheKey),
					zap.Error(err))
				return
			}

			c.Header("X-Cache", "MISS")
		}
	}
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyString := path

	if c.Request.URL.RawQuery != "" {
		keyString = path + "|" + c.Request.URL.RawQuery
	}

	hash := md5.Sum([]byte(keyString))

	return fmt.Sprintf("cache:%s:%x", path, hash)
}

// InvalidateAll flushes every cached response. Write handlers call it
// so reads never serve stale pages after a mutation.
func (rc *ResponseCache) InvalidateAll(c *gin.Context) {
	if err := rc.store.DeleteByPrefix(c.Request.Context(), "cache:"); err != nil {
		rc.logger.Warn("Cache invalidation failed", zap.Error(err))
		return
	}

	rc.logger.Debug("Cache invalidated")
}

// InvalidationMiddleware flushes the cache after successful mutations.
func (rc *ResponseCache) InvalidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" {
			return
		}

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			rc.InvalidateAll(c)
		}
	}
}

// SetConfig allows configuring cache for specific endpoints
func (rc *ResponseCache) SetConfig(path string, config ResponseCacheConfig) {
	rc.config[path] = config
}

// responseWriter wrapper that captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
