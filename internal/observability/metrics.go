// Package observability holds the metric collectors of weatherapp and renders
// them in the Prometheus text exposition format.
package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry  *prometheus.Registry
	Weather   *metrics.WeatherMetrics
	UserState *metrics.UserStateMetrics
}

// NewMetrics creates a new instance of Metrics on a private registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	weatherMetrics, err := metrics.NewWeatherMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Weather metrics: %w", err)
	}

	userStateMetrics, err := metrics.NewUserStateMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create UserState metrics: %w", err)
	}

	return &Metrics{
		registry:  registry,
		Weather:   weatherMetrics,
		UserState: userStateMetrics,
	}, nil
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText gathers every registered metric family and writes it to w in
// the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
