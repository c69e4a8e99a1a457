package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/swim-comfort-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/swim-comfort-etl/internal/adapter/kafka"
	"github.com/couchcryptid/swim-comfort-etl/internal/adapter/postgres"
	"github.com/couchcryptid/swim-comfort-etl/internal/config"
	"github.com/couchcryptid/swim-comfort-etl/internal/observability"
	"github.com/couchcryptid/swim-comfort-etl/internal/pipeline"
	"github.com/couchcryptid/swim-comfort-etl/internal/scheduler"
)

// recomputeTimeout bounds a single scheduled recompute.
const recomputeTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(cfg.ScoreConcurrency, logger, metrics)

	loader := pipeline.MultiLoader{writer}
	var store *postgres.Store
	var checks []httpadapter.ReadinessChecker

	// Postgres score store (feature-flagged via DATABASE_ENABLED / DATABASE_URL).
	if cfg.DatabaseEnabled {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store = postgres.NewStore(pool, logger, metrics)
		loader = append(loader, store)
		checks = append(checks, httpadapter.ReadinessFunc(pool.Ping))
		logger.Info("postgres score store enabled")
	} else {
		logger.Info("postgres score store disabled")
	}

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)
	checks = append([]httpadapter.ReadinessChecker{p}, checks...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, logger, checks...)

	// Periodic recompute from the database (COMPUTE_SCHEDULE).
	var sched *scheduler.Scheduler
	if cfg.ComputeSchedule != "" {
		recomputer := pipeline.NewRecomputer(store, transformer, loader, cfg.ForecastHorizon, logger, metrics)
		sched, err = scheduler.New(cfg.ComputeSchedule, func(ctx context.Context) error {
			_, err := recomputer.Run(ctx)
			return err
		}, recomputeTimeout, logger)
		if err != nil {
			logger.Error("failed to schedule recompute", "error", err)
			os.Exit(1)
		}
		sched.Start()
		logger.Info("recompute scheduled", "schedule", cfg.ComputeSchedule, "horizon", cfg.ForecastHorizon)
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			logger.Error("scheduler shutdown error", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
