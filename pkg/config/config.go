package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Environment string
	Port        string
	MetricsPort string

	DatabaseDriver string

	CORSAllowedOrigin string

	TelemetryEnabled bool
	OTLPEndpoint     string
	LokiURL          string

	CacheEnabled bool
	RedisURL     string

	// DevEndpointsEnabled gates /seed and /test routes. Never enable in
	// production.
	DevEndpointsEnabled bool
}

func Load() *AppConfig {
	_ = godotenv.Load()

	environment := getEnv("APP_ENV", "development")

	return &AppConfig{
		Environment:         environment,
		Port:                getEnv("PORT", "8080"),
		MetricsPort:         getEnv("METRICS_PORT", "9090"),
		DatabaseDriver:      getEnv("DATABASE_DRIVER", "sqlite"),
		CORSAllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		TelemetryEnabled:    getBoolEnv("TELEMETRY_ENABLED", false),
		OTLPEndpoint:        getEnv("OTLP_ENDPOINT", "localhost:4317"),
		LokiURL:             getEnv("LOKI_URL", ""),
		CacheEnabled:        getBoolEnv("CACHE_ENABLED", true),
		RedisURL:            getEnv("REDIS_URL", ""),
		DevEndpointsEnabled: getBoolEnv("DEV_ENDPOINTS_ENABLED", environment != "production"),
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fallback
	}

	return parsed
}
