package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"taskflow/internal/adapter/cache/memory"
	redisCache "taskflow/internal/adapter/cache/redis"
	"taskflow/internal/adapter/database/postgres"
	postgresRepository "taskflow/internal/adapter/database/postgres/repository"
	"taskflow/internal/adapter/database/sqlite"
	sqliteRepository "taskflow/internal/adapter/database/sqlite/repository"
	"taskflow/internal/adapter/http/routes"
	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
	"taskflow/pkg/config"
	"taskflow/pkg/logging"
	pkgresponse "taskflow/pkg/response"
)

func StartServerWithConfig(metrics *telemetry.AppMetrics, logger *logging.LokiLogger, cfg *config.AppConfig, probe port.Telemetry) {
	var todoRepo port.TodoRepository
	var closeDB func()

	switch cfg.DatabaseDriver {
	case "postgres":
		db, err := postgres.NewDB()

		if err != nil {
			slog.Error("Failed to connect to postgres", "error", err)
			return
		}

		todoRepo = postgresRepository.NewTodoRepository(db)
		closeDB = db.Close
	default:
		db, err := sqlite.NewDB()

		if err != nil {
			slog.Error("Failed to open sqlite database", "error", err)
			return
		}

		todoRepo = sqliteRepository.NewTodoRepository(db).WithTelemetry(probe)
		closeDB = func() { db.Close() }
	}

	defer closeDB()

	container := NewContainer(todoRepo, probe, logger, cfg.Environment)

	store := newCacheStore(cfg)
	defer store.Close()

	responseCache := pkgresponse.NewResponseCache(store, logger.Logger.Logger, metrics)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TodoHandler:     container.TodoHandler,
		DevToolsHandler: container.DevToolsHandler,
	}, metrics, logger, cfg, responseCache)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"database_driver", cfg.DatabaseDriver,
		"cache_enabled", cfg.CacheEnabled,
		"dev_endpoints", cfg.DevEndpointsEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}

func newCacheStore(cfg *config.AppConfig) port.CacheRepository {
	if cfg.RedisURL != "" {
		store, err := redisCache.New(context.Background(), cfg.RedisURL)

		if err == nil {
			return store
		}

		slog.Error("Redis unavailable, falling back to in-memory cache", "error", err)
	}

	return memory.New()
}
