// Package app holds the per-invocation state shared by the CLI commands:
// loaded settings, logging, metrics and factories for the weather client
// and the user state store.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/tuniweather/weatherapp/internal/conf"
	"github.com/tuniweather/weatherapp/internal/display"
	"github.com/tuniweather/weatherapp/internal/logger"
	"github.com/tuniweather/weatherapp/internal/observability"
	"github.com/tuniweather/weatherapp/internal/runtime"
	"github.com/tuniweather/weatherapp/internal/telemetry"
	"github.com/tuniweather/weatherapp/internal/userstate"
	"github.com/tuniweather/weatherapp/internal/weather"
)

// App is created once in main and passed to every command constructor.
// Settings, Metrics and the logger are populated by Setup.
type App struct {
	Runtime  *runtime.Context
	Viper    *viper.Viper
	Settings *conf.Settings
	Metrics  *observability.Metrics

	// Fs backs the user state store.
	Fs afero.Fs
	// Transport and Clock override the weather client's HTTP transport and
	// clock. Both are nil outside tests.
	Transport http.RoundTripper
	Clock     func() time.Time

	central *logger.CentralLogger
}

// New returns an App with its own viper instance and the OS filesystem.
func New(rt *runtime.Context) *App {
	return &App{
		Runtime: rt,
		Viper:   viper.New(),
		Fs:      afero.NewOsFs(),
	}
}

// Setup loads configuration from configFile (or the default search path when
// empty), then initializes logging, metrics and optional telemetry.
func (a *App) Setup(configFile string) error {
	if configFile != "" {
		a.Viper.SetConfigFile(configFile)
	}

	settings, err := conf.LoadWith(a.Viper)
	if err != nil {
		return err
	}
	a.Settings = settings

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if a.central != nil {
		_ = a.central.Close()
	}
	a.central = central
	logger.SetGlobal(central)

	m, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.Metrics = m

	if err := telemetry.Init(settings, a.Runtime); err != nil {
		a.Logger().Warn("error reporting disabled", logger.Error(err))
	}

	a.Logger().Debug("session started",
		logger.String("version", a.Runtime.Version),
		logger.String("config_file", a.Viper.ConfigFileUsed()),
		logger.String("units", settings.Display.Units))
	return nil
}

// Logger returns the "cmd" module logger tagged with the session id.
func (a *App) Logger() logger.Logger {
	return logger.Global().Module("cmd").With(logger.String("session_id", a.Runtime.SessionID))
}

// Context attaches the session id to ctx as the log trace id.
func (a *App) Context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithTraceID(ctx, a.Runtime.SessionID)
}

// Store opens the user state store in the configured data directory.
func (a *App) Store() (*userstate.Store, error) {
	dir, err := a.Settings.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	opts := []userstate.Option{
		userstate.WithFs(a.Fs),
		userstate.WithLogger(logger.Global().Module("userstate")),
	}
	if a.Metrics != nil {
		opts = append(opts, userstate.WithMetrics(a.Metrics.UserState))
	}
	return userstate.Open(dir, opts...), nil
}

// WeatherClient builds a provider client. It fails when no API key is configured.
func (a *App) WeatherClient() (*weather.Client, error) {
	if err := a.Settings.RequireAPIKey(); err != nil {
		return nil, err
	}

	cfg := weather.ConfigFromSettings(&a.Settings.OpenWeather)
	cfg.Transport = a.Transport
	if cfg.UserAgent == "" {
		cfg.UserAgent = "weatherapp/" + a.Runtime.Version
	}

	opts := []weather.Option{
		weather.WithLogger(logger.Global().Module("weather")),
		weather.WithClock(a.Clock),
	}
	if a.Metrics != nil {
		opts = append(opts, weather.WithMetrics(a.Metrics.Weather))
	}
	return weather.NewClient(cfg, opts...)
}

// Renderer returns a display renderer for w in the configured units.
func (a *App) Renderer(w io.Writer) *display.Renderer {
	return display.New(w, a.Settings.IsImperial())
}

// Close flushes telemetry and closes the log file.
func (a *App) Close() {
	telemetry.Flush(telemetry.DefaultFlushTimeout)
	if a.central != nil {
		_ = a.central.Close()
		a.central = nil
	}
}

// AnnotationSkipSetup marks commands that run without loading configuration.
const AnnotationSkipSetup = "weatherapp/skip-setup"
