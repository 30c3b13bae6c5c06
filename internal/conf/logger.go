package conf

import "github.com/tuniweather/weatherapp/internal/logger"

// GetLogger returns the config package logger scoped to the config module.
// Fetched from the global logger each time, which is replaced after settings load.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
