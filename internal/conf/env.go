// env.go - environment variable configuration and validation for weatherapp
package conf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/logger"
)

// envFile is loaded from the working directory before bindings are applied.
// Variables already present in the process environment win.
const envFile = ".env"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"openweather.apikey", "WEATHERAPP_API_KEY", validateEnvAPIKey},
		{"openweather.timeout", "WEATHERAPP_TIMEOUT", nil},
		{"storage.datadir", "WEATHERAPP_DATA_DIR", validateEnvPath},
		{"display.units", "WEATHERAPP_UNITS", validateEnvUnits},
		{"display.defaultcity", "WEATHERAPP_DEFAULT_CITY", nil},
		{"logging.default_level", "WEATHERAPP_LOG_LEVEL", validateEnvLogLevel},
		{"debug", "WEATHERAPP_DEBUG", validateEnvBool},
		{"telemetry.enabled", "WEATHERAPP_TELEMETRY", validateEnvBool},
		{"telemetry.dsn", "WEATHERAPP_TELEMETRY_DSN", nil},
	}
}

// loadDotEnv loads envFile if present. A missing file is silently ignored.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.New(fmt.Errorf("failed to load %s: %w", path, err)).
			Category(errors.CategoryConfiguration).
			FileContext(path).
			Context("operation", "load_dotenv").
			Build()
	}
	GetLogger().Debug("loaded environment file", logger.String("path", path))
	return nil
}

// bindEnvVars sets up environment variable bindings with validation.
// Invalid values are reported together; the binding still applies and
// ValidateSettings rejects values that would break the application.
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s: %v", binding.EnvVar, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// validateEnvAPIKey rejects keys with embedded whitespace, a common copy-paste mistake
func validateEnvAPIKey(value string) error {
	if strings.ContainsAny(value, " \t\r\n") {
		return fmt.Errorf("API key must not contain whitespace")
	}
	return nil
}

// validateEnvUnits validates the unit system name
func validateEnvUnits(value string) error {
	switch strings.ToLower(value) {
	case UnitsMetric, UnitsImperial:
		return nil
	}
	return fmt.Errorf("must be %q or %q", UnitsMetric, UnitsImperial)
}

// validateEnvLogLevel validates log level names
func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %q", value)
}

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

// validateEnvPath rejects paths that traverse upwards after cleaning
func validateEnvPath(value string) error {
	cleaned := filepath.Clean(os.ExpandEnv(value))
	for part := range strings.SplitSeq(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal detected in %s", cleaned)
		}
	}
	return nil
}

// configureEnvironmentVariables loads .env and binds environment variables to viper keys
func configureEnvironmentVariables(v *viper.Viper) error {
	if err := loadDotEnv(envFile); err != nil {
		GetLogger().Warn("ignoring environment file", logger.Error(err))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return bindEnvVars(v)
}
