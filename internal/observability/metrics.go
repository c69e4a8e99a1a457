package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "swim_comfort"

// Metrics holds the Prometheus counters, histograms, and gauges for the scoring pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	ScoresProduced   prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Scoring metrics.
	ScoresByLabel         *prometheus.CounterVec // labels: label={Excellent,Good,Fair,Poor,Unsafe}
	OverridesApplied      *prometheus.CounterVec // labels: rule={algae_bloom,aqi_very_unhealthy,aqi_sensitive}
	ProjectionUnavailable prometheus.Counter

	// Store and recompute metrics.
	StoreOperations *prometheus.CounterVec // labels: op={latest_observation,forecast_hours,upsert}, outcome={success,error,breaker_open}
	RecomputeRuns   *prometheus.CounterVec // labels: outcome={success,error,empty}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.MessagesConsumed,
		m.ScoresProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ScoresByLabel,
		m.OverridesApplied,
		m.ProjectionUnavailable,
		m.StoreOperations,
		m.RecomputeRuns,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total conditions batches read from the source topic.",
		}),
		ScoresProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_produced_total",
			Help:      "Total hourly comfort scores written to the sinks.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total conditions batches that failed to parse or score.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ScoresByLabel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_total",
			Help:      "Hourly comfort scores by label.",
		}, []string{"label"}),
		OverridesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overrides_total",
			Help:      "Hazard overrides applied, by rule.",
		}, []string{"rule"}),
		ProjectionUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_unavailable_total",
			Help:      "Scoring runs without a starting water temperature.",
		}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Database operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		RecomputeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_runs_total",
			Help:      "Scheduled or one-shot recompute runs by outcome.",
		}, []string{"outcome"}),
	}
}
