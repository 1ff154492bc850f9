package scoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of the scoring engine.
type Metrics struct {
	RunDuration       *prometheus.HistogramVec
	Runs              *prometheus.CounterVec
	SkippedCategories *prometheus.CounterVec
	GuessersScored    *prometheus.GaugeVec
}

// NewMetrics creates and registers the scoring metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "f1_scoring_run_duration_seconds",
				Help:    "Duration of scoring runs in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"key_type"},
		),

		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "f1_scoring_runs_total",
				Help: "Total number of scoring runs by key type and status",
			},
			[]string{"key_type", "status"},
		),

		SkippedCategories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "f1_scoring_skipped_categories_total",
				Help: "Categories skipped during scoring because no table was configured",
			},
			[]string{"category"},
		),

		GuessersScored: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "f1_scoring_guessers",
				Help: "Number of guessers covered by the most recent scoring run",
			},
			[]string{"key_type"},
		),
	}

	reg.MustRegister(
		m.RunDuration,
		m.Runs,
		m.SkippedCategories,
		m.GuessersScored,
	)
	return m
}

// RecordRun records a completed scoring run.
func (m *Metrics) RecordRun(keyType, status string, started time.Time, guessers int) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(keyType).Observe(time.Since(started).Seconds())
	m.Runs.WithLabelValues(keyType, status).Inc()
	m.GuessersScored.WithLabelValues(keyType).Set(float64(guessers))
}

// RecordSkippedCategory records a category skipped for a missing table.
func (m *Metrics) RecordSkippedCategory(category string) {
	if m == nil {
		return
	}
	m.SkippedCategories.WithLabelValues(category).Inc()
}
