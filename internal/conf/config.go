// config.go: settings struct for weatherapp and the functions to load and save it.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// Unit systems accepted by display.units
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// OpenWeatherSettings contains the provider credentials and endpoints
type OpenWeatherSettings struct {
	APIKey            string        `yaml:"apikey" mapstructure:"apikey"`                       // OpenWeather API key
	GeocodingEndpoint string        `yaml:"geocodingendpoint" mapstructure:"geocodingendpoint"` // direct geocoding endpoint
	ForecastEndpoint  string        `yaml:"forecastendpoint" mapstructure:"forecastendpoint"`   // one call endpoint for hourly and daily forecasts
	CurrentEndpoint   string        `yaml:"currentendpoint" mapstructure:"currentendpoint"`     // current weather endpoint
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`                     // per-request timeout
	UserAgent         string        `yaml:"useragent" mapstructure:"useragent"`
}

// StorageSettings controls where user state is persisted
type StorageSettings struct {
	DataDir string `yaml:"datadir" mapstructure:"datadir"` // empty means <user config dir>/weatherapp/weatherData
}

// DisplaySettings controls rendering
type DisplaySettings struct {
	Units       string `yaml:"units" mapstructure:"units"`             // metric or imperial
	DefaultCity string `yaml:"defaultcity" mapstructure:"defaultcity"` // shown when no city is given and none is stored
}

// TelemetrySettings controls optional error reporting
type TelemetrySettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// Settings is the root configuration struct
type Settings struct {
	Debug bool `yaml:"debug" mapstructure:"debug"`

	OpenWeather OpenWeatherSettings  `yaml:"openweather" mapstructure:"openweather"`
	Storage     StorageSettings      `yaml:"storage" mapstructure:"storage"`
	Display     DisplaySettings      `yaml:"display" mapstructure:"display"`
	Logging     logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Telemetry   TelemetrySettings    `yaml:"telemetry" mapstructure:"telemetry"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file, .env and environment variables from the
// global viper instance, where the CLI has bound its flags.
func Load() (*Settings, error) {
	return LoadWith(viper.GetViper())
}

// LoadWith is Load against an explicit viper instance.
func LoadWith(v *viper.Viper) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(v); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal_config").
			Build()
	}

	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper registers defaults, env bindings and config paths, then reads the file.
// A missing config file is not an error; defaults and environment apply.
func initViper(v *viper.Viper) error {
	setDefaultConfig(v)

	if err := configureEnvironmentVariables(v); err != nil {
		GetLogger().Warn("environment configuration issues", logger.Error(err))
	}

	// An explicit --config path was set with SetConfigFile
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return fmt.Errorf("error getting default config paths: %w", err)
		}
		for _, path := range configPaths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			GetLogger().Debug("no config file found, using defaults")
			return nil
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Category(errors.CategoryConfiguration).
			FileContext(v.ConfigFileUsed()).
			Context("operation", "read_config").
			Build()
	}

	GetLogger().Debug("config file loaded", logger.String("path", v.ConfigFileUsed()))
	return nil
}

// WriteDefaultConfig writes the embedded default config to path unless a file
// already exists there. Returns true when a file was written.
func WriteDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.FileError(fmt.Errorf("error creating directories for config file: %w", err), path)
	}

	if err := os.WriteFile(path, []byte(getDefaultConfig()), 0o600); err != nil {
		return false, errors.FileError(fmt.Errorf("error writing default config file: %w", err), path)
	}

	return true, nil
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		// embedded at build time
		panic(fmt.Sprintf("embedded config.yaml missing: %v", err))
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath through a temporary file and rename.
// Comments and ordering of an existing file are not preserved.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.FileError(fmt.Errorf("error creating config directory: %w", err), configPath)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		// cross-device rename
		if err := moveFile(tempFileName, configPath); err != nil {
			return fmt.Errorf("error copying config file: %w", err)
		}
	}

	return nil
}

// ResolveDataDir returns the directory holding the user state files.
func (s *Settings) ResolveDataDir() (string, error) {
	if s.Storage.DataDir != "" {
		return os.ExpandEnv(s.Storage.DataDir), nil
	}
	return DefaultDataDir()
}

// IsImperial reports whether output should use Fahrenheit and mph.
func (s *Settings) IsImperial() bool {
	return s.Display.Units == UnitsImperial
}
