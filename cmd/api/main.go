package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/adapter/database/sqlite"
	sqliteRepository "taskflow/internal/adapter/database/sqlite/repository"
	httpserver "taskflow/internal/adapter/http"
	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
	"taskflow/internal/seed"
	"taskflow/pkg/config"
	"taskflow/pkg/logging"
)

func main() {
	seedCount := flag.Int("seed", 0, "seed the database with n todos and exit")
	flag.Parse()

	ctx := context.Background()

	cfg := config.Load()

	logger, err := logging.NewLokiLogger("taskflow", cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	if *seedCount > 0 {
		runSeed(ctx, logger, *seedCount)
		return
	}

	probe := port.Telemetry(telemetry.NewNoOpProbe())

	var metrics *telemetry.AppMetrics

	if cfg.TelemetryEnabled {
		tel, err := telemetry.InitTelemetry(telemetry.TelemetryConfig{
			ServiceName:    "taskflow",
			ServiceVersion: "1.0.0",
			Environment:    cfg.Environment,
			MetricsPort:    cfg.MetricsPort,
			OTLPEndpoint:   cfg.OTLPEndpoint,
		})

		if err != nil {
			log.Fatal("Failed to initialize telemetry:", err)
		}

		defer tel.Shutdown(ctx)

		metrics = telemetry.NewAppMetrics(tel.PrometheusRegistry)
		metrics.StartSystemMetrics(ctx)

		probe = telemetry.NewOTELProbe(nil)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		httpserver.StartServerWithConfig(metrics, logger, cfg, probe)
	}()

	<-c
	logger.Logger.Info("Shutting down gracefully...")
}

func runSeed(ctx context.Context, logger *logging.LokiLogger, count int) {
	db, err := sqlite.NewDB()

	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	defer db.Close()

	repo := sqliteRepository.NewTodoRepository(db)

	if err := repo.DeleteAll(ctx); err != nil {
		log.Fatal("Failed to clear todos:", err)
	}

	todos := seed.Generate(count, time.Now())

	if err := repo.BulkInsert(ctx, todos); err != nil {
		log.Fatal("Failed to insert todos:", err)
	}

	logger.Logger.Info("Database seeded", zap.Int("count", len(todos)))
}
