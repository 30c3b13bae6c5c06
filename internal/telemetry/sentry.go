// Package telemetry wires optional Sentry error reporting into the errors
// package. Nothing is sent unless telemetry is enabled and a DSN is set.
package telemetry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tuniweather/weatherapp/internal/conf"
	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/logger"
	"github.com/tuniweather/weatherapp/internal/runtime"
)

// DefaultFlushTimeout bounds how long Flush waits for queued events.
const DefaultFlushTimeout = 2 * time.Second

var initialized atomic.Bool

// Init configures the Sentry SDK and registers a SentryReporter with the
// errors package. It is a no-op when telemetry is disabled.
func Init(settings *conf.Settings, rt *runtime.Context) error {
	return InitWithTransport(settings, rt, nil)
}

// InitWithTransport is Init with an explicit transport. A nil transport uses
// the default HTTP transport.
func InitWithTransport(settings *conf.Settings, rt *runtime.Context, transport sentry.Transport) error {
	if !settings.Telemetry.Enabled {
		errors.SetTelemetryReporter(nil)
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Telemetry.DSN,
		Transport:        transport,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "",
		Release:          fmt.Sprintf("weatherapp@%s", rt.Version),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return errors.New(fmt.Errorf("sentry initialization failed: %w", err)).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Context("operation", "sentry_init").
			Build()
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("session_id", rt.SessionID)
	})

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	initialized.Store(true)

	logger.Global().Module("telemetry").Debug("error reporting enabled",
		logger.String("release", rt.Version))
	return nil
}

// applyPrivacyFilters strips user, host and runtime details from an event
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	for k := range event.Extra {
		if k != "error_type" && k != "component" {
			delete(event.Extra, k)
		}
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	return event
}

// Flush waits up to timeout for queued events. It returns immediately when
// telemetry was never initialized.
func Flush(timeout time.Duration) {
	if !initialized.Load() {
		return
	}
	sentry.Flush(timeout)
}
