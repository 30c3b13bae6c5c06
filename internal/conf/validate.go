// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tuniweather/weatherapp/internal/errors"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ErrorCategory lets the errors package group these as validation failures
func (ve ValidationError) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryValidation
}

// ErrMissingAPIKey is returned by RequireAPIKey when no key is configured.
var ErrMissingAPIKey = errors.NewStd("OpenWeather API key is not configured (set openweather.apikey or WEATHERAPP_API_KEY)")

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateOpenWeatherSettings(&settings.OpenWeather); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDisplaySettings(&settings.Display); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Telemetry.Enabled && settings.Telemetry.DSN == "" {
		ve.Errors = append(ve.Errors, "telemetry is enabled but telemetry.dsn is empty")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateOpenWeatherSettings checks endpoints and timeout. The API key is
// checked separately, offline commands work without it.
func validateOpenWeatherSettings(settings *OpenWeatherSettings) error {
	var errs []string

	endpoints := map[string]string{
		"geocodingendpoint": settings.GeocodingEndpoint,
		"forecastendpoint":  settings.ForecastEndpoint,
		"currentendpoint":   settings.CurrentEndpoint,
	}
	for _, name := range []string{"geocodingendpoint", "forecastendpoint", "currentendpoint"} {
		u, err := url.Parse(endpoints[name])
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("openweather.%s must be an absolute http(s) URL", name))
		}
	}

	if settings.Timeout < 0 {
		errs = append(errs, "openweather.timeout must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, ", "))
	}
	return nil
}

// validateDisplaySettings normalizes and checks unit selection
func validateDisplaySettings(settings *DisplaySettings) error {
	settings.Units = strings.ToLower(strings.TrimSpace(settings.Units))
	switch settings.Units {
	case UnitsMetric, UnitsImperial:
		return nil
	}
	return fmt.Errorf("display.units must be %q or %q, got %q", UnitsMetric, UnitsImperial, settings.Units)
}

// RequireAPIKey returns an error unless an API key is configured.
func (s *Settings) RequireAPIKey() error {
	if strings.TrimSpace(s.OpenWeather.APIKey) == "" {
		return errors.New(ErrMissingAPIKey).
			Category(errors.CategoryConfiguration).
			Context("operation", "require_api_key").
			Build()
	}
	return nil
}
