// Package postgres reads buoy observations and forecasts from the lake
// database and upserts comfort scores into it.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
	"github.com/couchcryptid/swim-comfort-etl/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker/v2"
)

// Store operations, used as metric labels.
const (
	opLatestObservation = "latest_observation"
	opForecastHours     = "forecast_hours"
	opUpsert            = "upsert"
)

// surfaceDepthM is the deepest buoy reading treated as surface water.
const surfaceDepthM = 1.5

const latestObservationSQL = `
SELECT date, depth_m::float8, temperature_c::float8, turbidity_ntu::float8,
       phycocyanin_ugl::float8, chlorophyll_ugl::float8
FROM lake_data
WHERE depth_m < $1 AND temperature_c IS NOT NULL
ORDER BY date DESC
LIMIT 1`

const forecastHoursSQL = `
SELECT DISTINCT ON (forecast_time)
       forecast_time, feels_like_f::float8, temperature_f::float8, wind_speed_mph::float8,
       solar_radiation_w::float8, precip_probability::float8, us_aqi::float8, uv_index::float8
FROM weather_forecast
WHERE forecast_time >= $1 AND forecast_time < $2
ORDER BY forecast_time, fetched_at DESC`

const upsertScoreSQL = `
INSERT INTO comfort_score (
    score_time, computed_at, overall_score, label,
    water_temp_score, air_temp_score, wind_score, sun_score,
    rain_score, clarity_score, algae_score, aqi_score,
    override_reason, input_snapshot
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (score_time) DO UPDATE
SET computed_at = EXCLUDED.computed_at,
    overall_score = EXCLUDED.overall_score,
    label = EXCLUDED.label,
    water_temp_score = EXCLUDED.water_temp_score,
    air_temp_score = EXCLUDED.air_temp_score,
    wind_score = EXCLUDED.wind_score,
    sun_score = EXCLUDED.sun_score,
    rain_score = EXCLUDED.rain_score,
    clarity_score = EXCLUDED.clarity_score,
    algae_score = EXCLUDED.algae_score,
    aqi_score = EXCLUDED.aqi_score,
    override_reason = EXCLUDED.override_reason,
    input_snapshot = EXCLUDED.input_snapshot`

// DBTX is the subset of pgxpool.Pool used by Store.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements pipeline.ConditionsSource and pipeline.BatchLoader on
// Postgres. Every call goes through one circuit breaker.
type Store struct {
	db      DBTX
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewStore wraps db with a circuit breaker that opens after six consecutive
// failures and probes again after 30 seconds.
func NewStore(db DBTX, logger *slog.Logger, metrics *observability.Metrics) *Store {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Store{db: db, breaker: cb, logger: logger, metrics: metrics}
}

// LatestObservation returns the newest surface reading that has a water
// temperature. A lake with no such reading yields a zero Observation.
func (s *Store) LatestObservation(ctx context.Context) (domain.Observation, error) {
	var obs domain.Observation
	err := s.execute(opLatestObservation, func() error {
		err := s.db.QueryRow(ctx, latestObservationSQL, surfaceDepthM).Scan(
			&obs.Time, &obs.DepthM, &obs.WaterTempC, &obs.TurbidityNTU,
			&obs.PhycocyaninUGL, &obs.ChlorophyllUGL,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			obs = domain.Observation{}
			return nil
		}
		return err
	})
	if err != nil {
		return domain.Observation{}, fmt.Errorf("query latest observation: %w", err)
	}
	return obs, nil
}

// ForecastHours returns the most recently fetched forecast for every hour in
// [from, to), in time order.
func (s *Store) ForecastHours(ctx context.Context, from, to time.Time) ([]domain.ForecastHour, error) {
	var hours []domain.ForecastHour
	err := s.execute(opForecastHours, func() error {
		rows, err := s.db.Query(ctx, forecastHoursSQL, from.UTC(), to.UTC())
		if err != nil {
			return err
		}
		defer rows.Close()

		hours = hours[:0]
		for rows.Next() {
			var h domain.ForecastHour
			if err := rows.Scan(
				&h.Time, &h.FeelsLikeF, &h.AirTempF, &h.WindMph,
				&h.SolarWm2, &h.PrecipPct, &h.USAQI, &h.UVIndex,
			); err != nil {
				return err
			}
			hours = append(hours, h)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query forecast hours: %w", err)
	}
	return hours, nil
}

// LoadBatch upserts score records keyed by score time, replacing earlier
// scores for the same hour.
func (s *Store) LoadBatch(ctx context.Context, records []domain.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range records {
		r := &records[i]
		snapshot, err := domain.EncodeSnapshot(r.Inputs)
		if err != nil {
			return err
		}
		batch.Queue(upsertScoreSQL,
			r.ScoreTime.UTC(), r.ComputedAt.UTC(), r.Overall, r.Label,
			r.SubScores.WaterTemp, r.SubScores.AirTemp, r.SubScores.Wind, r.SubScores.Sun,
			r.SubScores.Rain, r.SubScores.Clarity, r.SubScores.Algae, r.SubScores.AQI,
			r.OverrideReason, snapshot,
		)
	}

	err := s.execute(opUpsert, func() error {
		res := s.db.SendBatch(ctx, batch)
		for range records {
			if _, err := res.Exec(); err != nil {
				res.Close()
				return err
			}
		}
		return res.Close()
	})
	if err != nil {
		return fmt.Errorf("upsert comfort scores: %w", err)
	}
	s.logger.Debug("upserted comfort scores", "count", len(records))
	return nil
}

// execute runs fn through the circuit breaker and counts the outcome.
func (s *Store) execute(op string, fn func() error) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, fn()
	})

	outcome := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "breaker_open"
	case err != nil:
		outcome = "error"
	}
	s.metrics.StoreOperations.WithLabelValues(op, outcome).Inc()
	return err
}
