// Package metrics provides weather service metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WeatherMetrics contains Prometheus metrics for weather provider operations
type WeatherMetrics struct {
	registry *prometheus.Registry

	fetchesTotal     *prometheus.CounterVec
	fetchErrorsTotal *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec

	providerRequestsTotal *prometheus.CounterVec

	forecastEntriesTotal *prometheus.CounterVec
	temperatureGauge     prometheus.Gauge
	humidityGauge        prometheus.Gauge
	windSpeedGauge       prometheus.Gauge
}

// NewWeatherMetrics creates and registers new weather metrics
func NewWeatherMetrics(registry *prometheus.Registry) (*WeatherMetrics, error) {
	m := &WeatherMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *WeatherMetrics) initMetrics() {
	m.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetches_total",
			Help: "Total number of weather provider operations",
		},
		[]string{"operation", "status"},
	)

	m.fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_errors_total",
			Help: "Total number of failed weather provider operations by cause",
		},
		[]string{"operation", "error_type"},
	)

	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "weather_fetch_duration_seconds",
			Help: "Time taken by weather provider operations",
			// 0.1s to ~51s
			Buckets: prometheus.ExponentialBuckets(BucketStart100ms, BucketFactor2, BucketCount10),
		},
		[]string{"operation"},
	)

	m.providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_provider_requests_total",
			Help: "Total number of HTTP requests sent to the weather provider",
		},
		[]string{"host", "status_code"},
	)

	m.forecastEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_forecast_entries_total",
			Help: "Total number of forecast entries decoded",
		},
		[]string{"operation"},
	)

	m.temperatureGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_temperature_celsius",
		Help: "Last fetched current temperature in Celsius",
	})

	m.humidityGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_humidity_percentage",
		Help: "Last fetched current humidity percentage",
	})

	m.windSpeedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_wind_speed_mps",
		Help: "Last fetched current wind speed in meters per second",
	})
}

// Describe implements the Collector interface
func (m *WeatherMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetchesTotal.Describe(ch)
	m.fetchErrorsTotal.Describe(ch)
	m.fetchDuration.Describe(ch)
	m.providerRequestsTotal.Describe(ch)
	m.forecastEntriesTotal.Describe(ch)
	m.temperatureGauge.Describe(ch)
	m.humidityGauge.Describe(ch)
	m.windSpeedGauge.Describe(ch)
}

// Collect implements the Collector interface
func (m *WeatherMetrics) Collect(ch chan<- prometheus.Metric) {
	m.fetchesTotal.Collect(ch)
	m.fetchErrorsTotal.Collect(ch)
	m.fetchDuration.Collect(ch)
	m.providerRequestsTotal.Collect(ch)
	m.forecastEntriesTotal.Collect(ch)
	m.temperatureGauge.Collect(ch)
	m.humidityGauge.Collect(ch)
	m.windSpeedGauge.Collect(ch)
}

// RecordWeatherFetch records a provider operation outcome
func (m *WeatherMetrics) RecordWeatherFetch(operation, status string) {
	m.fetchesTotal.WithLabelValues(operation, status).Inc()
}

// RecordWeatherFetchError records why a provider operation failed
func (m *WeatherMetrics) RecordWeatherFetchError(operation, errorType string) {
	m.fetchErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordWeatherFetchDuration records the duration of a provider operation in seconds
func (m *WeatherMetrics) RecordWeatherFetchDuration(operation string, seconds float64) {
	m.fetchDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordWeatherProviderRequest records a single HTTP exchange with the provider
func (m *WeatherMetrics) RecordWeatherProviderRequest(host, statusCode string) {
	m.providerRequestsTotal.WithLabelValues(host, statusCode).Inc()
}

// RecordForecastEntries counts decoded forecast entries
func (m *WeatherMetrics) RecordForecastEntries(operation string, n int) {
	m.forecastEntriesTotal.WithLabelValues(operation).Add(float64(n))
}

// UpdateWeatherGauges updates the current conditions gauges
func (m *WeatherMetrics) UpdateWeatherGauges(temperature, humidity, windSpeed float64) {
	m.temperatureGauge.Set(temperature)
	m.humidityGauge.Set(humidity)
	m.windSpeedGauge.Set(windSpeed)
}
