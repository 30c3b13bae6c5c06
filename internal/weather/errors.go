package weather

import (
	"fmt"
	"time"

	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/httpclient"
	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

// Failures returned by the fetch operations. Every error from this package
// wraps exactly one of them, so callers can branch with errors.Is.
var (
	ErrLocationNotFound    = errors.NewStd("location not found")
	ErrForecastNotFound    = errors.NewStd("forecast not found")
	ErrWeatherDataNotFound = errors.NewStd("weather data not found")
)

var (
	errMalformedResponse = errors.NewStd("malformed provider response")
	errNoMatches         = errors.NewStd("geocoding returned no matches")
)

const (
	componentName = "weather"
	providerName  = "openweather"
)

// newWeatherError wraps cause in the operation's sentinel and attaches
// component, category and operation context. The endpoint is reduced to its
// scheme so the API key never reaches error reports.
func newWeatherError(sentinel, cause error, operation, endpoint string, timeout time.Duration) error {
	return errors.New(fmt.Errorf("%w: %w", sentinel, cause)).
		Component(componentName).
		Category(errors.CategoryNotFound).
		Context("operation", operation).
		Context("provider", providerName).
		Context("error_type", classifyError(cause)).
		NetworkContext(endpoint, timeout).
		Build()
}

// malformed marks a decoding failure.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errMalformedResponse, fmt.Sprintf(format, args...))
}

// classifyError maps a failure cause to a metrics error type.
func classifyError(err error) string {
	var statusErr *httpclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		return metrics.ErrorTypeHTTP
	case errors.Is(err, errNoMatches):
		return metrics.ErrorTypeNotFound
	case errors.Is(err, errMalformedResponse):
		return metrics.ErrorTypeParse
	default:
		return metrics.ErrorTypeNetwork
	}
}
