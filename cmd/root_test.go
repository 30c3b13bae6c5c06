package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuniweather/weatherapp/cmd/show"
	"github.com/tuniweather/weatherapp/internal/app"
	"github.com/tuniweather/weatherapp/internal/conf"
	"github.com/tuniweather/weatherapp/internal/runtime"
	"github.com/tuniweather/weatherapp/internal/userstate"
	"github.com/tuniweather/weatherapp/internal/weather"
)

const (
	testGeocodeURL  = "https://api.test/geo/1.0/direct"
	testForecastURL = "https://api.test/data/2.5/onecall"
	testCurrentURL  = "https://api.test/data/2.5/weather"
	testAPIKey      = "abcdef0123456789"
	dataDir         = "/state"
)

// fixedNow is a Friday.
var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

// harness runs the command tree against a mock transport and an in-memory
// data directory. Each execute call gets a fresh App, like a new process.
type harness struct {
	t          *testing.T
	fs         afero.Fs
	mock       *httpmock.MockTransport
	configPath string
	requests   []*url.URL
}

func newHarness(t *testing.T, apiKey string) *harness {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, name := range []string{
		"WEATHERAPP_API_KEY", "WEATHERAPP_TIMEOUT", "WEATHERAPP_DATA_DIR", "WEATHERAPP_UNITS",
		"WEATHERAPP_DEFAULT_CITY", "WEATHERAPP_LOG_LEVEL", "WEATHERAPP_DEBUG",
		"WEATHERAPP_TELEMETRY", "WEATHERAPP_TELEMETRY_DSN",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	config := fmt.Sprintf(`openweather:
  apikey: %q
  geocodingendpoint: %s
  forecastendpoint: %s
  currentendpoint: %s
  timeout: 2s
storage:
  datadir: %s
logging:
  console:
    enabled: false
`, apiKey, testGeocodeURL, testForecastURL, testCurrentURL, dataDir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))

	return &harness{
		t:          t,
		fs:         afero.NewMemMapFs(),
		mock:       httpmock.NewMockTransport(),
		configPath: path,
	}
}

func (h *harness) execute(args ...string) (string, error) {
	h.t.Helper()

	a := app.New(runtime.New("test", ""))
	a.Fs = h.fs
	a.Transport = h.mock
	a.Clock = func() time.Time { return fixedNow }
	defer a.Close()

	var out bytes.Buffer
	root := RootCommand(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) readState(name string, v any) {
	h.t.Helper()
	data, err := afero.ReadFile(h.fs, filepath.Join(dataDir, name))
	require.NoError(h.t, err)
	require.NoError(h.t, json.Unmarshal(data, v))
}

// respond registers responder for endpoint and records every request it serves.
func (h *harness) respond(endpoint string, responder httpmock.Responder) {
	h.mock.RegisterResponder(http.MethodGet, endpoint, func(req *http.Request) (*http.Response, error) {
		h.requests = append(h.requests, req.URL)
		return responder(req)
	})
}

func (h *harness) respondJSON(endpoint string, v any) {
	h.t.Helper()
	body, err := json.Marshal(v)
	require.NoError(h.t, err)
	h.respond(endpoint, httpmock.NewBytesResponder(http.StatusOK, body))
}

// geocodeQueries returns the q parameter of every geocoding request so far.
func (h *harness) geocodeQueries() []string {
	var queries []string
	for _, u := range h.requests {
		if u.Scheme+"://"+u.Host+u.Path == testGeocodeURL {
			queries = append(queries, u.Query().Get("q"))
		}
	}
	return queries
}

// registerCity makes every endpoint answer for a city with the given name.
func (h *harness) registerCity(name string) {
	h.respondJSON(testGeocodeURL, []map[string]any{{"name": name, "lat": 61.4980214, "lon": 23.7603118, "country": "FI"}})
	h.respondJSON(testCurrentURL, map[string]any{
		"name":    name,
		"weather": []map[string]any{{"icon": "03d", "main": "Clouds", "description": "scattered clouds"}},
		"main":    map[string]any{"temp": 4.2, "feels_like": 1.1, "humidity": 87},
		"wind":    map[string]any{"speed": 3.6},
	})
	h.respondJSON(testForecastURL, forecastBody())
}

func forecastBody() map[string]any {
	block := []map[string]any{{"icon": "10d", "main": "Rain", "description": "light rain"}}
	daily := make([]map[string]any, weather.DailyForecastLength+1)
	for i := range daily {
		daily[i] = map[string]any{
			"dt":      fixedNow.Unix() + int64(i)*86400,
			"temp":    map[string]any{"min": 275.0, "max": 280.0},
			"weather": block,
		}
	}
	hourly := make([]map[string]any, weather.HourlyForecastLength)
	for i := range hourly {
		hourly[i] = map[string]any{
			"dt":      fixedNow.Add(time.Duration(i) * time.Hour).Unix(),
			"temp":    280.15,
			"pop":     0.2,
			"weather": block,
		}
	}
	return map[string]any{"timezone": "UTC", "daily": daily, "hourly": hourly}
}

func TestShow_RendersAllSectionsAndRemembersCity(t *testing.T) {
	h := newHarness(t, testAPIKey)
	h.registerCity("Tampere")

	out, err := h.execute("show", "tampere")
	require.NoError(t, err)

	assert.Contains(t, out, "Tampere\n")
	assert.Contains(t, out, "Scattered clouds")
	assert.Contains(t, out, "87%")
	assert.Contains(t, out, "Next hours")
	assert.Contains(t, out, "12:00")
	assert.Contains(t, out, "7.0°C")
	assert.Contains(t, out, "Next days")
	assert.Contains(t, out, "Saturday")
	assert.Contains(t, out, "2°C / 7°C")
	assert.NotContains(t, out, "unavailable")

	var current string
	h.readState(userstate.CurrentCityFile, &current)
	assert.Equal(t, "tampere", current, "the typed query is stored as current city")

	var history []string
	h.readState(userstate.HistoryFile, &history)
	assert.Equal(t, []string{"Tampere"}, history, "history keeps the resolved name")
}

func TestShow_WithoutArgumentUsesCurrentCityThenDefault(t *testing.T) {
	h := newHarness(t, testAPIKey)
	h.registerCity("Tampere")

	_, err := h.execute("show")
	require.NoError(t, err)

	assert.Equal(t, []string{"Tampere"}, h.geocodeQueries(), "default city is looked up when nothing is stored")

	h.registerCity("Oulu")
	_, err = h.execute("show", "Oulu")
	require.NoError(t, err)

	_, err = h.execute("show")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tampere", "Oulu", "Oulu"}, h.geocodeQueries())
}

func TestShow_ImperialUnitsFlag(t *testing.T) {
	h := newHarness(t, testAPIKey)
	h.registerCity("Tampere")

	out, err := h.execute("show", "Tampere", "--units", "imperial")
	require.NoError(t, err)
	assert.Contains(t, out, "40°F")
	assert.Contains(t, out, "8.1 mph")
	assert.NotContains(t, out, "°C")
}

func TestShow_MarksFavorite(t *testing.T) {
	h := newHarness(t, testAPIKey)
	h.registerCity("Tampere")

	_, err := h.execute("favorites", "add", "Tampere")
	require.NoError(t, err)

	out, err := h.execute("show", "Tampere")
	require.NoError(t, err)
	assert.Contains(t, out, "Tampere  ★")
	assert.Contains(t, out, weather.IconAsset(weather.AssetFavorite))
}

func TestShow_ForecastFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, testAPIKey)
	h.registerCity("Tampere")
	h.respond(testForecastURL, httpmock.NewStringResponder(http.StatusInternalServerError, "{}"))

	out, err := h.execute("show", "Tampere")
	require.NoError(t, err)
	assert.Contains(t, out, "Tampere\n")
	assert.Contains(t, out, "Next hours: unavailable")
	assert.Contains(t, out, "Next days: unavailable")
}

func TestShow_CurrentWeatherFailureLeavesStateUntouched(t *testing.T) {
	h := newHarness(t, testAPIKey)
	h.registerCity("Tampere")
	h.respond(testCurrentURL, httpmock.NewStringResponder(http.StatusNotFound, "{}"))

	out, err := h.execute("show", "Tampere")
	require.NoError(t, err)
	assert.Contains(t, out, "Current weather for Tampere: unavailable")

	exists, err := afero.Exists(h.fs, filepath.Join(dataDir, userstate.HistoryFile))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestShow_Errors(t *testing.T) {
	t.Run("unknown city", func(t *testing.T) {
		h := newHarness(t, testAPIKey)
		h.respondJSON(testGeocodeURL, []any{})

		_, err := h.execute("show", "Atlantis")
		require.Error(t, err)
		assert.ErrorIs(t, err, weather.ErrLocationNotFound)
		assert.Len(t, h.requests, 1, "nothing is fetched for an unknown city")
	})

	t.Run("missing api key", func(t *testing.T) {
		h := newHarness(t, "")

		_, err := h.execute("show", "Tampere")
		require.Error(t, err)
		assert.ErrorIs(t, err, conf.ErrMissingAPIKey)
		assert.Empty(t, h.requests)
	})

	t.Run("every section failed", func(t *testing.T) {
		h := newHarness(t, testAPIKey)
		h.registerCity("Tampere")
		h.respond(testCurrentURL, httpmock.NewStringResponder(http.StatusBadGateway, ""))
		h.respond(testForecastURL, httpmock.NewStringResponder(http.StatusBadGateway, ""))

		_, err := h.execute("show", "Tampere")
		require.Error(t, err)
		assert.ErrorIs(t, err, show.ErrNothingFetched)
	})
}

func TestFavorites(t *testing.T) {
	h := newHarness(t, "")

	out, err := h.execute("favorites", "list")
	require.NoError(t, err)
	assert.Equal(t, "Favorites:\n  (none)\n", out)

	out, err = h.execute("favorites", "add", "New", "York")
	require.NoError(t, err)
	assert.Equal(t, "Added New York to favorites\n", out)

	out, err = h.execute("favorites", "add", "New York")
	require.NoError(t, err)
	assert.Equal(t, "New York is already a favorite\n", out)

	_, err = h.execute("fav", "toggle", "Oulu")
	require.NoError(t, err)

	out, err = h.execute("favorites", "list")
	require.NoError(t, err)
	assert.Equal(t, "Favorites:\n  1. New York\n  2. Oulu\n", out)

	out, err = h.execute("favorites", "toggle", "New York")
	require.NoError(t, err)
	assert.Equal(t, "Removed New York from favorites\n", out)

	_, err = h.execute("favorites", "remove", "Turku")
	require.Error(t, err)

	out, err = h.execute("favorites", "rm", "Oulu")
	require.NoError(t, err)
	assert.Equal(t, "Removed Oulu from favorites\n", out)

	var stored []string
	h.readState(userstate.FavoritesFile, &stored)
	assert.Empty(t, stored)
}

func TestHistory(t *testing.T) {
	h := newHarness(t, testAPIKey)

	for _, city := range []string{"Oulu", "Turku"} {
		h.registerCity(city)
		_, err := h.execute("show", city)
		require.NoError(t, err)
	}

	out, err := h.execute("history")
	require.NoError(t, err)
	assert.Equal(t, "Recent searches:\n  1. Turku\n  2. Oulu\n", out)

	out, err = h.execute("history", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Search history cleared\n", out)

	out, err = h.execute("history", "list")
	require.NoError(t, err)
	assert.Equal(t, "Recent searches:\n  (none)\n", out)
}

func TestConfigShowMasksSecrets(t *testing.T) {
	h := newHarness(t, testAPIKey)

	out, err := h.execute("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+h.configPath)
	assert.Contains(t, out, "************6789")
	assert.NotContains(t, out, testAPIKey)
	assert.Contains(t, out, "datadir: "+dataDir)
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(t.TempDir(), "weatherapp", "config.yaml")

	out, err := h.execute("config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "defaultcity: Tampere")

	out, err = h.execute("config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config file already exists")
}
