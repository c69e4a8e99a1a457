package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
	"github.com/couchcryptid/swim-comfort-etl/internal/observability"
)

// ConditionsSource supplies stored buoy and forecast data for a recompute.
type ConditionsSource interface {
	// LatestObservation returns the newest surface observation with a water
	// temperature, or a zero Observation when there is none.
	LatestObservation(ctx context.Context) (domain.Observation, error)
	// ForecastHours returns the most recently fetched forecast for each hour
	// in [from, to), ordered by time.
	ForecastHours(ctx context.Context, from, to time.Time) ([]domain.ForecastHour, error)
}

// Recomputer rescores the stored forecast window and loads the results.
type Recomputer struct {
	source  ConditionsSource
	scorer  *ComfortTransformer
	loader  BatchLoader
	horizon time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRecomputer creates a Recomputer that scores the next horizon of forecast hours.
func NewRecomputer(source ConditionsSource, scorer *ComfortTransformer, loader BatchLoader, horizon time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Recomputer {
	return &Recomputer{
		source:  source,
		scorer:  scorer,
		loader:  loader,
		horizon: horizon,
		logger:  logger,
		metrics: metrics,
	}
}

// Run performs one recompute and returns the number of scores loaded.
func (r *Recomputer) Run(ctx context.Context) (int, error) {
	n, err := r.run(ctx)
	switch {
	case err != nil:
		r.metrics.RecomputeRuns.WithLabelValues("error").Inc()
	case n == 0:
		r.metrics.RecomputeRuns.WithLabelValues("empty").Inc()
	default:
		r.metrics.RecomputeRuns.WithLabelValues("success").Inc()
	}
	return n, err
}

func (r *Recomputer) run(ctx context.Context) (int, error) {
	obs, err := r.source.LatestObservation(ctx)
	if err != nil {
		return 0, fmt.Errorf("load latest observation: %w", err)
	}

	now := domain.Now()
	hours, err := r.source.ForecastHours(ctx, now, now.Add(r.horizon))
	if err != nil {
		return 0, fmt.Errorf("load forecast hours: %w", err)
	}
	if len(hours) == 0 {
		r.logger.Warn("no forecast hours in window", "from", now, "horizon", r.horizon)
		return 0, nil
	}

	records, err := r.scorer.Score(ctx, domain.ConditionsBatch{Observation: obs, Forecast: hours})
	if err != nil {
		return 0, err
	}
	if err := r.loader.LoadBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("load comfort scores: %w", err)
	}
	observeScores(r.metrics, records)

	first, last := records[0], records[len(records)-1]
	r.logger.Info("recomputed comfort scores",
		"run_id", first.RunID,
		"scores", len(records),
		"projection", first.ProjectedWaterTempF != nil,
		"first", first.ScoreTime,
		"last", last.ScoreTime,
	)
	return len(records), nil
}
