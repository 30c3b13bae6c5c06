// Package metrics provides constants used across metric definitions.
package metrics

// Operation labels for provider calls.
const (
	// OpGeocode represents location lookups.
	OpGeocode = "geocode"
	// OpDailyForecast represents 7-day forecast fetches.
	OpDailyForecast = "daily_forecast"
	// OpHourlyForecast represents 6-hour forecast fetches.
	OpHourlyForecast = "hourly_forecast"
	// OpCurrentWeather represents current conditions fetches.
	OpCurrentWeather = "current_weather"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error type label values.
const (
	ErrorTypeNetwork  = "network"
	ErrorTypeHTTP     = "http_status"
	ErrorTypeParse    = "parse"
	ErrorTypeNotFound = "not_found"
	ErrorTypeIO       = "io"
)

// Histogram bucket parameters.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart100ms is the starting bucket for 100ms histograms (100ms to ~100s range).
	BucketStart100ms = 0.1
	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
)
