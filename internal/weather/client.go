package weather

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tuniweather/weatherapp/internal/conf"
	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/httpclient"
	"github.com/tuniweather/weatherapp/internal/logger"
	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

// ErrMissingAPIKey is returned by NewClient when Config.APIKey is empty.
var ErrMissingAPIKey = errors.NewStd("openweather API key is required")

// Config holds the provider endpoints and credentials.
type Config struct {
	APIKey            string
	GeocodingEndpoint string
	ForecastEndpoint  string
	CurrentEndpoint   string
	Timeout           time.Duration
	UserAgent         string

	// Transport replaces the default HTTP transport, tests inject mocks here.
	Transport http.RoundTripper
}

// ConfigFromSettings builds a Config from loaded application settings.
func ConfigFromSettings(s *conf.OpenWeatherSettings) Config {
	return Config{
		APIKey:            s.APIKey,
		GeocodingEndpoint: s.GeocodingEndpoint,
		ForecastEndpoint:  s.ForecastEndpoint,
		CurrentEndpoint:   s.CurrentEndpoint,
		Timeout:           s.Timeout,
		UserAgent:         s.UserAgent,
	}
}

// Client talks to the OpenWeather geocoding, one call and current weather APIs.
// Every call is one-shot: there is no retry and no caching.
type Client struct {
	cfg     Config
	http    *httpclient.Client
	log     logger.Logger
	metrics *metrics.WeatherMetrics
	now     func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger. The default is the global "weather" module logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records provider calls into m.
func WithMetrics(m *metrics.WeatherMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithClock overrides the clock used for daily forecast labels.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a Client. The API key is required; endpoints default to
// the public OpenWeather URLs.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(ErrMissingAPIKey).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Context("operation", "new_client").
			Build()
	}
	if cfg.GeocodingEndpoint == "" {
		cfg.GeocodingEndpoint = conf.DefaultGeocodingEndpoint
	}
	if cfg.ForecastEndpoint == "" {
		cfg.ForecastEndpoint = conf.DefaultForecastEndpoint
	}
	if cfg.CurrentEndpoint == "" {
		cfg.CurrentEndpoint = conf.DefaultCurrentEndpoint
	}

	// zero keeps the platform behaviour: no deadline beyond the caller's context
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpclient.NoTimeout
	}

	c := &Client{
		cfg: cfg,
		http: httpclient.New(&httpclient.Config{
			DefaultTimeout: timeout,
			UserAgent:      cfg.UserAgent,
			Transport:      cfg.Transport,
		}),
		log: logger.Global().Module(componentName),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.metrics != nil {
		c.http.SetAfterResponseHook(c.recordProviderRequest)
	}

	return c, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.Close()
}

func (c *Client) recordProviderRequest(req *http.Request, resp *http.Response, err error) {
	code := "error"
	if err == nil && resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	c.metrics.RecordWeatherProviderRequest(req.URL.Host, code)
}

// buildURL appends params and the API key to endpoint.
func (c *Client) buildURL(endpoint string, params url.Values) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("appid", c.cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// fetch performs one GET and records timing and outcome for operation.
// The API key is stripped from transport errors before they propagate.
func (c *Client) fetch(ctx context.Context, operation, endpoint string, params url.Values) ([]byte, error) {
	reqURL, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	log := c.log.WithContext(ctx).With(logger.String("operation", operation))
	log.Debug("requesting provider", logger.String("url", logger.RedactURL(reqURL)))

	start := time.Now()
	body, err := c.http.FetchBody(ctx, reqURL)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordWeatherFetchDuration(operation, elapsed.Seconds())
	}

	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = logger.RedactURL(urlErr.URL)
		}
		return nil, err
	}

	log.Debug("provider responded",
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", elapsed))
	return body, nil
}

// fail logs, counts and wraps a failed operation.
func (c *Client) fail(ctx context.Context, sentinel, cause error, operation string) error {
	errType := classifyError(cause)
	if c.metrics != nil {
		c.metrics.RecordWeatherFetch(operation, metrics.StatusError)
		c.metrics.RecordWeatherFetchError(operation, errType)
	}
	c.log.WithContext(ctx).Warn("weather request failed",
		logger.String("operation", operation),
		logger.String("error_type", errType),
		logger.Error(cause))
	return newWeatherError(sentinel, cause, operation, c.endpointFor(operation), c.cfg.Timeout)
}

// endpointFor returns the configured endpoint serving operation.
func (c *Client) endpointFor(operation string) string {
	switch operation {
	case metrics.OpGeocode:
		return c.cfg.GeocodingEndpoint
	case metrics.OpCurrentWeather:
		return c.cfg.CurrentEndpoint
	default:
		return c.cfg.ForecastEndpoint
	}
}

func (c *Client) succeed(operation string, entries int) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordWeatherFetch(operation, metrics.StatusSuccess)
	if entries > 0 {
		c.metrics.RecordForecastEntries(operation, entries)
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func coordinateParams(coords Coordinates) url.Values {
	return url.Values{
		"lat": {formatCoordinate(coords.Latitude)},
		"lon": {formatCoordinate(coords.Longitude)},
	}
}
