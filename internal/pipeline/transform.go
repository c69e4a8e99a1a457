package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
	"github.com/couchcryptid/swim-comfort-etl/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ComfortTransformer implements Transformer by projecting water temperature
// across a conditions batch and scoring each forecast hour.
type ComfortTransformer struct {
	concurrency int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewTransformer creates a ComfortTransformer that scores at most concurrency
// hours at once.
func NewTransformer(concurrency int, logger *slog.Logger, metrics *observability.Metrics) *ComfortTransformer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ComfortTransformer{
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

func (t *ComfortTransformer) Transform(ctx context.Context, raw domain.RawEvent) ([]domain.ScoreRecord, error) {
	batch, err := domain.ParseRawEvent(raw)
	if err != nil {
		return nil, err
	}
	return t.Score(ctx, batch)
}

// Score projects water temperature in one ordered pass, then scores the
// hours in parallel. Records keep forecast order and share one run ID and
// computation time.
func (t *ComfortTransformer) Score(ctx context.Context, batch domain.ConditionsBatch) ([]domain.ScoreRecord, error) {
	if len(batch.Forecast) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	computedAt := domain.Now()

	start := batch.Observation.WaterTempF()
	if start == nil {
		t.logger.Warn("no water temperature, projection unavailable",
			"run_id", runID, "hours", len(batch.Forecast))
		t.metrics.ProjectionUnavailable.Inc()
	}
	projected := domain.ProjectWaterTemps(start, batch.Forecast)

	records := make([]domain.ScoreRecord, len(batch.Forecast))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, hour := range batch.Forecast {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := domain.ScoreHour(batch.Observation, hour, projected[i])
			r.RunID = runID
			r.ComputedAt = computedAt
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score forecast: %w", err)
	}

	t.logger.Debug("scored forecast",
		"run_id", runID,
		"hours", len(records),
		"first", records[0].ScoreTime,
		"last", records[len(records)-1].ScoreTime,
	)
	return records, nil
}
