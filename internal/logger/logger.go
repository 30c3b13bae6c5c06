// Package logger provides a structured, module-aware logging system built on log/slog.
//
// Console output is human-readable text on stderr so it never mixes with the
// weather report printed on stdout. File output is JSON, rotated by lumberjack.
//
// Basic usage:
//
//	central, err := logger.NewCentralLogger(&logger.LoggingConfig{DefaultLevel: "info"})
//	if err != nil {
//	    return err
//	}
//	defer central.Close()
//
//	log := central.Module("weather")
//	log.Info("forecast fetched",
//	    logger.String("city", "Tampere"),
//	    logger.Int("entries", 7))
//
// Module loggers nest: central.Module("weather").Module("geocoding") logs with
// module="weather.geocoding".
//
// Tests use NewSlogLogger with a bytes.Buffer or io.Discard.
package logger

import (
	"context"
	"time"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Well-known attribute keys
const (
	moduleKey  = "module"
	traceIDKey = "trace_id"
	errorKey   = "error"
)

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// Logger is the centralized logging interface for dependency injection
type Logger interface {
	// Module returns a logger scoped to a specific module
	Module(name string) Logger

	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger

	// Log with explicit level
	Log(level LogLevel, msg string, fields ...Field)

	// Flush ensures all buffered logs are written
	Flush() error
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field. Use it for counts, sizes and status codes.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates a 64-bit integer field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float field. Values are rounded to three decimals on output.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field. The key is always "error".
//
//	if err := store.save(); err != nil {
//	    log.Warn("failed to persist favorites",
//	        logger.Error(err),
//	        logger.String("path", path))
//	}
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: nil}
	}
	return Field{Key: errorKey, Value: err.Error()}
}

// Duration creates a duration field rendered as a human-readable string ("1.5s").
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Time creates a time field.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Any creates a field with an arbitrary value.
// Prefer the typed constructors for simple values.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}
