// Package userstate persists favorite cities, the current city and search
// history as three independent JSON files in a data directory.
//
// The store never returns errors. A field that cannot be read starts empty,
// and a failed write is logged while the in-memory value keeps the change.
package userstate

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/logger"
	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

// File names inside the data directory.
const (
	FavoritesFile   = "favorite_cities.json"
	CurrentCityFile = "current_city.json"
	HistoryFile     = "search_history.json"
)

// MaxHistory is the number of search queries kept.
const MaxHistory = 10

// Field names used in logs and metric labels.
const (
	FieldFavorites   = "favorites"
	FieldCurrentCity = "current_city"
	FieldHistory     = "history"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var fieldFiles = map[string]string{
	FieldFavorites:   FavoritesFile,
	FieldCurrentCity: CurrentCityFile,
	FieldHistory:     HistoryFile,
}

// Store holds user state in memory and writes every change straight to disk.
type Store struct {
	fs      afero.Fs
	dir     string
	log     logger.Logger
	metrics *metrics.UserStateMetrics

	mu          sync.Mutex
	favorites   []string
	currentCity string
	history     []string
}

// Option customizes a Store.
type Option func(*Store)

// WithFs sets the filesystem. The default is the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records writes and load failures into m.
func WithMetrics(m *metrics.UserStateMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open loads the three state files from dir. Each file is read on its own,
// so one missing or corrupt file leaves only that field empty.
func Open(dir string, opts ...Option) *Store {
	s := &Store{
		fs:        afero.NewOsFs(),
		dir:       dir,
		log:       logger.Global().Module("userstate"),
		favorites: []string{},
		history:   []string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadFavorites()
	s.loadCurrentCity()
	s.loadHistory()

	s.log.Debug("user state loaded",
		logger.String("dir", dir),
		logger.Int("favorites", len(s.favorites)),
		logger.Int("history", len(s.history)),
		logger.Bool("has_current_city", s.currentCity != ""))

	return s
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(field string) string {
	return filepath.Join(s.dir, fieldFiles[field])
}

func (s *Store) loadFavorites() {
	var list []string
	if !s.readJSON(FieldFavorites, &list) {
		return
	}
	s.favorites = dedupe(list)
	s.setEntries(FieldFavorites, len(s.favorites))
}

func (s *Store) loadCurrentCity() {
	var city string
	if !s.readJSON(FieldCurrentCity, &city) {
		return
	}
	s.currentCity = city
}

func (s *Store) loadHistory() {
	var list []string
	if !s.readJSON(FieldHistory, &list) {
		return
	}
	list = dedupe(list)
	if len(list) > MaxHistory {
		list = list[:MaxHistory]
	}
	s.history = list
	s.setEntries(FieldHistory, len(s.history))
}

// readJSON decodes field's file into v. It reports false when the file is
// missing, unreadable or malformed; the last two are logged.
func (s *Store) readJSON(field string, v any) bool {
	path := s.path(field)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("state file not found, using default",
				logger.String("field", field),
				logger.String("path", path))
			return false
		}
		s.loadFailed(field, path, metrics.ErrorTypeIO, err)
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.loadFailed(field, path, metrics.ErrorTypeParse, err)
		return false
	}
	return true
}

func (s *Store) loadFailed(field, path, errType string, cause error) {
	category := errors.CategoryFileIO
	if errType == metrics.ErrorTypeParse {
		category = errors.CategoryFileParsing
	}
	err := errors.New(cause).
		Component("userstate").
		Category(category).
		FileContext(path).
		Context("field", field).
		Context("operation", "load").
		Build()

	s.log.Warn("ignoring unreadable state file",
		logger.String("field", field),
		logger.String("path", path),
		logger.Error(err))
	if s.metrics != nil {
		s.metrics.RecordLoadFailure(field, errType)
	}
}

// save writes v as indented JSON, creating the data directory if needed.
// The whole file is replaced on every call.
func (s *Store) save(field string, v any) {
	path := s.path(field)
	start := time.Now()

	err := s.writeJSON(path, v)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		s.log.Warn("failed to save state file",
			logger.String("field", field),
			logger.String("path", path),
			logger.Error(errors.New(err).
				Component("userstate").
				Category(errors.CategoryFileIO).
				FileContext(path).
				Context("field", field).
				Context("operation", "save").
				Build()))
	}
	if s.metrics != nil {
		s.metrics.RecordWrite(field, status, time.Since(start).Seconds())
	}
}

func (s *Store) writeJSON(path string, v any) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path, data, filePerm)
}

func (s *Store) setEntries(field string, n int) {
	if s.metrics != nil {
		s.metrics.SetEntries(field, n)
	}
}

// Favorites returns favorite cities in the order they were added.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// IsFavorite reports whether city is a favorite. Matching is exact.
func (s *Store) IsFavorite(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, city)
}

// AddFavorite appends city unless it is already a favorite. It reports
// whether the list changed.
func (s *Store) AddFavorite(city string) bool {
	if strings.TrimSpace(city) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFavoriteLocked(city)
}

func (s *Store) addFavoriteLocked(city string) bool {
	if slices.Contains(s.favorites, city) {
		return false
	}
	s.favorites = append(s.favorites, city)
	s.save(FieldFavorites, s.favorites)
	s.setEntries(FieldFavorites, len(s.favorites))
	return true
}

// RemoveFavorite removes city if present and reports whether the list changed.
func (s *Store) RemoveFavorite(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFavoriteLocked(city)
}

func (s *Store) removeFavoriteLocked(city string) bool {
	i := slices.Index(s.favorites, city)
	if i < 0 {
		return false
	}
	s.favorites = slices.Delete(s.favorites, i, i+1)
	s.save(FieldFavorites, s.favorites)
	s.setEntries(FieldFavorites, len(s.favorites))
	return true
}

// ToggleFavorite adds city if absent and removes it otherwise. It returns
// whether city is a favorite afterwards.
func (s *Store) ToggleFavorite(city string) bool {
	if strings.TrimSpace(city) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeFavoriteLocked(city) {
		return false
	}
	return s.addFavoriteLocked(city)
}

// CurrentCity returns the last viewed city and whether one is set.
func (s *Store) CurrentCity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCity, s.currentCity != ""
}

// SetCurrentCity stores city as the last viewed city. The file is rewritten
// even when the value is unchanged.
func (s *Store) SetCurrentCity(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentCity = city
	s.save(FieldCurrentCity, s.currentCity)
}

// History returns past queries, most recent first.
func (s *Store) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// AddToHistory puts query at the front of the history. A query already in
// the history is left where it is. When the history is full the oldest entry
// is dropped. It reports whether the history changed.
func (s *Store) AddToHistory(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.history, query) {
		return false
	}
	if len(s.history) >= MaxHistory {
		s.history = s.history[:MaxHistory-1]
	}
	s.history = slices.Insert(s.history, 0, query)
	s.save(FieldHistory, s.history)
	s.setEntries(FieldHistory, len(s.history))
	return true
}

// ClearHistory empties the history and writes an empty list.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []string{}
	s.save(FieldHistory, s.history)
	s.setEntries(FieldHistory, 0)
}

// dedupe drops repeated entries, keeping the first occurrence.
func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
