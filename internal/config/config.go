package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultScoreConcurrency = 8
	maxScoreConcurrency     = 64
	defaultForecastHorizon  = 8 * 24 * time.Hour
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// ScoreConcurrency bounds how many forecast hours are scored in parallel.
	ScoreConcurrency int

	// Postgres score store and recompute job.
	DatabaseURL     string
	DatabaseEnabled bool
	ForecastHorizon time.Duration
	ComputeSchedule string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	concurrency, err := parseScoreConcurrency()
	if err != nil {
		return nil, err
	}

	horizon, err := parseForecastHorizon()
	if err != nil {
		return nil, err
	}

	databaseURL := os.Getenv("DATABASE_URL")
	databaseEnabled := databaseURL != ""
	if v := os.Getenv("DATABASE_ENABLED"); v != "" {
		databaseEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "lake-conditions"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "comfort-scores"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "swim-comfort-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ScoreConcurrency:   concurrency,

		DatabaseURL:     databaseURL,
		DatabaseEnabled: databaseEnabled,
		ForecastHorizon: horizon,
		ComputeSchedule: os.Getenv("COMPUTE_SCHEDULE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	if c.DatabaseEnabled && c.DatabaseURL == "" {
		return errors.New("DATABASE_ENABLED is true but DATABASE_URL is not set")
	}
	if c.ComputeSchedule != "" {
		if !c.DatabaseEnabled {
			return errors.New("COMPUTE_SCHEDULE requires DATABASE_URL")
		}
		if _, err := cron.ParseStandard(c.ComputeSchedule); err != nil {
			return fmt.Errorf("invalid COMPUTE_SCHEDULE: %w", err)
		}
	}
	return nil
}

func parseScoreConcurrency() (int, error) {
	s := os.Getenv("SCORE_CONCURRENCY")
	if s == "" {
		return defaultScoreConcurrency, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxScoreConcurrency {
		return 0, fmt.Errorf("invalid SCORE_CONCURRENCY %q: must be 1..%d", s, maxScoreConcurrency)
	}
	return n, nil
}

func parseForecastHorizon() (time.Duration, error) {
	s := os.Getenv("FORECAST_HORIZON")
	if s == "" {
		return defaultForecastHorizon, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid FORECAST_HORIZON %q", s)
	}
	return d, nil
}
