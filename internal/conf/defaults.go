// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tuniweather/weatherapp/internal/logger"
)

// Provider endpoints used unless overridden in config.yaml
const (
	DefaultGeocodingEndpoint = "https://api.openweathermap.org/geo/1.0/direct"
	DefaultForecastEndpoint  = "https://api.openweathermap.org/data/2.5/onecall"
	DefaultCurrentEndpoint   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultCity              = "Tampere"
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("openweather.apikey", "")
	v.SetDefault("openweather.geocodingendpoint", DefaultGeocodingEndpoint)
	v.SetDefault("openweather.forecastendpoint", DefaultForecastEndpoint)
	v.SetDefault("openweather.currentendpoint", DefaultCurrentEndpoint)
	v.SetDefault("openweather.timeout", DefaultRequestTimeout)
	v.SetDefault("openweather.useragent", "weatherapp")

	v.SetDefault("storage.datadir", "")

	v.SetDefault("display.units", UnitsMetric)
	v.SetDefault("display.defaultcity", DefaultCity)

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", true)
	v.SetDefault("logging.console.level", logger.DefaultConsoleLevel)
	v.SetDefault("logging.file_output.enabled", false)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.max_size", logger.DefaultMaxSize)
	v.SetDefault("logging.file_output.max_age", logger.DefaultMaxAge)
	v.SetDefault("logging.file_output.max_rotated_files", logger.DefaultMaxRotatedFiles)
	v.SetDefault("logging.file_output.compress", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")
}
