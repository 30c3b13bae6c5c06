package userstate

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuniweather/weatherapp/internal/logger"
	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

const testDir = "/data/weatherData"

func quietLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func openTestStore(t *testing.T, fsys afero.Fs, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithFs(fsys), WithLogger(quietLogger())}, opts...)
	return Open(testDir, opts...)
}

func writeFile(t *testing.T, fsys afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(testDir, name), []byte(content), 0o644))
}

func readFile(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, filepath.Join(testDir, name))
	require.NoError(t, err)
	return string(data)
}

func TestOpen_EmptyDirectory(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)

	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.History())
	city, ok := s.CurrentCity()
	assert.False(t, ok)
	assert.Empty(t, city)

	exists, err := afero.DirExists(fsys, testDir)
	require.NoError(t, err)
	assert.False(t, exists, "opening must not create the directory")
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)

	assert.True(t, s.AddFavorite("Tampere"))
	assert.False(t, s.AddFavorite("Tampere"), "second add is a no-op")
	assert.True(t, s.AddFavorite("Oulu"))
	assert.Equal(t, []string{"Tampere", "Oulu"}, s.Favorites())
	assert.True(t, s.IsFavorite("Tampere"))
	assert.False(t, s.IsFavorite("tampere"), "matching is exact")

	assert.Equal(t, "[\n  \"Tampere\",\n  \"Oulu\"\n]", readFile(t, fsys, FavoritesFile))

	before := s.Favorites()
	assert.True(t, s.AddFavorite("Turku"))
	assert.True(t, s.RemoveFavorite("Turku"))
	assert.Equal(t, before, s.Favorites(), "add then remove restores the prior set")
	assert.False(t, s.RemoveFavorite("Turku"), "removing an absent city is a no-op")

	assert.False(t, s.AddFavorite("  "))
	assert.Len(t, s.Favorites(), 2)
}

func TestFavorites_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, afero.NewMemMapFs())
	s.AddFavorite("Tampere")

	got := s.Favorites()
	got[0] = "Changed"
	assert.Equal(t, []string{"Tampere"}, s.Favorites())
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)

	assert.True(t, s.ToggleFavorite("Vaasa"))
	assert.True(t, s.IsFavorite("Vaasa"))
	assert.False(t, s.ToggleFavorite("Vaasa"))
	assert.False(t, s.IsFavorite("Vaasa"))
	assert.Equal(t, "[]", readFile(t, fsys, FavoritesFile))
}

func TestCurrentCity(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)

	s.SetCurrentCity("Tampere")
	city, ok := s.CurrentCity()
	assert.True(t, ok)
	assert.Equal(t, "Tampere", city)
	assert.Equal(t, `"Tampere"`, readFile(t, fsys, CurrentCityFile))

	reopened := openTestStore(t, fsys)
	city, ok = reopened.CurrentCity()
	assert.True(t, ok)
	assert.Equal(t, "Tampere", city)
}

func TestHistory_DuplicateIsNoOp(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, afero.NewMemMapFs())
	s.AddToHistory("Tampere")
	s.AddToHistory("Oulu")

	assert.False(t, s.AddToHistory("Tampere"))
	assert.Equal(t, []string{"Oulu", "Tampere"}, s.History(), "no move to front")
}

func TestHistory_DropsOldest(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)

	for i := 1; i <= MaxHistory+1; i++ {
		require.True(t, s.AddToHistory(fmt.Sprintf("city-%d", i)))
	}

	history := s.History()
	require.Len(t, history, MaxHistory)
	assert.Equal(t, "city-11", history[0], "newest first")
	assert.Equal(t, "city-2", history[MaxHistory-1])
	assert.NotContains(t, history, "city-1")

	reopened := openTestStore(t, fsys)
	assert.Equal(t, history, reopened.History())
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)
	s.AddToHistory("Tampere")

	s.ClearHistory()
	assert.Empty(t, s.History())
	assert.Equal(t, "[]", readFile(t, fsys, HistoryFile))
}

func TestOpen_CorruptFavoritesIsolated(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, FavoritesFile, `{"not": "a list"`)
	writeFile(t, fsys, HistoryFile, `["Oulu", "Tampere"]`)
	writeFile(t, fsys, CurrentCityFile, `"Oulu"`)

	registry := prometheus.NewRegistry()
	m, err := metrics.NewUserStateMetrics(registry)
	require.NoError(t, err)

	var logs bytes.Buffer
	s := Open(testDir,
		WithFs(fsys),
		WithLogger(logger.NewSlogLogger(&logs, logger.LogLevelWarn, time.UTC)),
		WithMetrics(m))

	assert.Empty(t, s.Favorites())
	assert.Equal(t, []string{"Oulu", "Tampere"}, s.History())
	city, ok := s.CurrentCity()
	assert.True(t, ok)
	assert.Equal(t, "Oulu", city)

	assert.Contains(t, logs.String(), "ignoring unreadable state file")
	assert.Contains(t, logs.String(), FieldFavorites)

	expected := `
# HELP userstate_load_failures_total Total number of user state fields that fell back to defaults on load
# TYPE userstate_load_failures_total counter
userstate_load_failures_total{error_type="parse",field="favorites"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "userstate_load_failures_total"))

	// the corrupt file is replaced on the next write
	s.AddFavorite("Tampere")
	assert.Equal(t, "[\n  \"Tampere\"\n]", readFile(t, fsys, FavoritesFile))
}

func TestOpen_WrongJSONTypes(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, FavoritesFile, `"Tampere"`)
	writeFile(t, fsys, CurrentCityFile, `["Tampere"]`)
	writeFile(t, fsys, HistoryFile, `[1, 2]`)

	s := openTestStore(t, fsys)
	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.History())
	_, ok := s.CurrentCity()
	assert.False(t, ok)
}

func TestOpen_NormalizesHandEditedFiles(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, FavoritesFile, `["Tampere", "Oulu", "Tampere"]`)
	writeFile(t, fsys, HistoryFile, `["a","b","c","d","e","f","g","h","i","j","k","l"]`)

	s := openTestStore(t, fsys)
	assert.Equal(t, []string{"Tampere", "Oulu"}, s.Favorites())
	assert.Len(t, s.History(), MaxHistory)
	assert.Equal(t, "a", s.History()[0])
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := openTestStore(t, fsys)
	s.AddToHistory("Tampere")

	exists, err := afero.DirExists(fsys, testDir)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "[\n  \"Tampere\"\n]", readFile(t, fsys, HistoryFile))
}

func TestSave_FailureKeepsMemoryState(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := metrics.NewUserStateMetrics(registry)
	require.NoError(t, err)

	var logs bytes.Buffer
	s := Open(testDir,
		WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())),
		WithLogger(logger.NewSlogLogger(&logs, logger.LogLevelWarn, time.UTC)),
		WithMetrics(m))

	assert.True(t, s.AddFavorite("Tampere"))
	s.SetCurrentCity("Tampere")

	assert.Equal(t, []string{"Tampere"}, s.Favorites())
	city, _ := s.CurrentCity()
	assert.Equal(t, "Tampere", city)
	assert.Contains(t, logs.String(), "failed to save state file")

	count, err := testutil.GatherAndCount(registry, "userstate_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
