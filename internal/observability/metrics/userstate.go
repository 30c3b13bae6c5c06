package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// UserStateMetrics tracks persistence of the local user state files
type UserStateMetrics struct {
	writesTotal       *prometheus.CounterVec
	writeDuration     *prometheus.HistogramVec
	loadFailuresTotal *prometheus.CounterVec
	entriesGauge      *prometheus.GaugeVec
}

// NewUserStateMetrics creates and registers user state metrics
func NewUserStateMetrics(registry *prometheus.Registry) (*UserStateMetrics, error) {
	m := &UserStateMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userstate_writes_total",
				Help: "Total number of user state file writes",
			},
			[]string{"field", "status"},
		),
		writeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "userstate_write_duration_seconds",
				Help: "Time taken to rewrite a user state file",
				// 1ms to ~0.5s
				Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
			},
			[]string{"field"},
		),
		loadFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userstate_load_failures_total",
				Help: "Total number of user state fields that fell back to defaults on load",
			},
			[]string{"field", "error_type"},
		),
		entriesGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "userstate_entries",
				Help: "Number of entries currently held per user state field",
			},
			[]string{"field"},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *UserStateMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.writesTotal.Describe(ch)
	m.writeDuration.Describe(ch)
	m.loadFailuresTotal.Describe(ch)
	m.entriesGauge.Describe(ch)
}

// Collect implements the Collector interface
func (m *UserStateMetrics) Collect(ch chan<- prometheus.Metric) {
	m.writesTotal.Collect(ch)
	m.writeDuration.Collect(ch)
	m.loadFailuresTotal.Collect(ch)
	m.entriesGauge.Collect(ch)
}

// RecordWrite records a file rewrite for field
func (m *UserStateMetrics) RecordWrite(field, status string, seconds float64) {
	m.writesTotal.WithLabelValues(field, status).Inc()
	m.writeDuration.WithLabelValues(field).Observe(seconds)
}

// RecordLoadFailure records a field that could not be loaded
func (m *UserStateMetrics) RecordLoadFailure(field, errorType string) {
	m.loadFailuresTotal.WithLabelValues(field, errorType).Inc()
}

// SetEntries sets the current entry count for field
func (m *UserStateMetrics) SetEntries(field string, n int) {
	m.entriesGauge.WithLabelValues(field).Set(float64(n))
}
