// Command compute scores the stored forecast window once and upserts the
// results into the comfort_score table. With -publish the scores are also
// written to the sink Kafka topic.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/compute [-publish]
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/couchcryptid/swim-comfort-etl/internal/adapter/kafka"
	"github.com/couchcryptid/swim-comfort-etl/internal/adapter/postgres"
	"github.com/couchcryptid/swim-comfort-etl/internal/config"
	"github.com/couchcryptid/swim-comfort-etl/internal/observability"
	"github.com/couchcryptid/swim-comfort-etl/internal/pipeline"
)

func main() {
	publish := flag.Bool("publish", false, "also publish scores to KAFKA_SINK_TOPIC")
	flag.Parse()

	if err := run(*publish); err != nil {
		slog.Error("compute failed", "error", err)
		os.Exit(1)
	}
}

func run(publish bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.DatabaseEnabled {
		return errors.New("DATABASE_URL is required")
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewStore(pool, logger, metrics)
	loader := pipeline.MultiLoader{store}
	if publish {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() { _ = writer.Close() }()
		loader = append(loader, writer)
	}

	transformer := pipeline.NewTransformer(cfg.ScoreConcurrency, logger, metrics)
	recomputer := pipeline.NewRecomputer(store, transformer, loader, cfg.ForecastHorizon, logger, metrics)

	n, err := recomputer.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("computed and saved comfort scores", "count", n)
	return nil
}
