package conf

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuniweather/weatherapp/internal/errors"
)

func validSettings() *Settings {
	return &Settings{
		OpenWeather: OpenWeatherSettings{
			GeocodingEndpoint: DefaultGeocodingEndpoint,
			ForecastEndpoint:  DefaultForecastEndpoint,
			CurrentEndpoint:   DefaultCurrentEndpoint,
			Timeout:           DefaultRequestTimeout,
		},
		Display: DisplaySettings{Units: UnitsMetric, DefaultCity: DefaultCity},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"imperial", func(s *Settings) { s.Display.Units = "IMPERIAL " }, ""},
		{"bad units", func(s *Settings) { s.Display.Units = "kelvin" }, "display.units"},
		{"relative endpoint", func(s *Settings) { s.OpenWeather.ForecastEndpoint = "/data/2.5/onecall" }, "openweather.forecastendpoint"},
		{"ftp endpoint", func(s *Settings) { s.OpenWeather.CurrentEndpoint = "ftp://example.test/weather" }, "openweather.currentendpoint"},
		{"negative timeout", func(s *Settings) { s.OpenWeather.Timeout = -time.Second }, "openweather.timeout"},
		{"telemetry without dsn", func(s *Settings) { s.Telemetry.Enabled = true }, "telemetry.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(s)

			err := ValidateSettings(s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, errors.CategoryValidation, ve.ErrorCategory())
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	t.Parallel()

	s := validSettings()
	err := s.RequireAPIKey()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	s.OpenWeather.APIKey = "   "
	require.Error(t, s.RequireAPIKey())

	s.OpenWeather.APIKey = "0123456789abcdef"
	require.NoError(t, s.RequireAPIKey())
}

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateEnvUnits("Metric"))
	assert.Error(t, validateEnvUnits("kelvin"))

	assert.NoError(t, validateEnvLogLevel("debug"))
	assert.Error(t, validateEnvLogLevel("verbose"))

	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("yes please"))

	assert.NoError(t, validateEnvAPIKey("abc123"))
	assert.Error(t, validateEnvAPIKey("abc 123"))

	assert.NoError(t, validateEnvPath("/var/lib/weatherapp"))
	assert.Error(t, validateEnvPath("../../etc"))
}

func TestBindEnvVarsReportsInvalidValues(t *testing.T) {
	t.Setenv("WEATHERAPP_UNITS", "kelvin")
	t.Setenv("WEATHERAPP_LOG_LEVEL", "loud")

	err := bindEnvVars(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHERAPP_UNITS")
	assert.Contains(t, err.Error(), "WEATHERAPP_LOG_LEVEL")
}
