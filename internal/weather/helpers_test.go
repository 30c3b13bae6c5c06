package weather

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tuniweather/weatherapp/internal/logger"
)

const (
	testAPIKey      = "testkey"
	testGeocodeURL  = "https://api.test/geo/1.0/direct"
	testForecastURL = "https://api.test/data/2.5/onecall"
	testCurrentURL  = "https://api.test/data/2.5/weather"

	tampereLat = 61.4980214
	tampereLon = 23.7603118
)

var tampere = Location{
	Coordinates: Coordinates{Latitude: tampereLat, Longitude: tampereLon},
	Name:        "Tampere",
}

// fixedNow is a Friday.
var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// setupHTTPMock returns a client wired to a fresh mock transport.
func setupHTTPMock(t *testing.T, opts ...Option) (*Client, *httpmock.MockTransport) {
	t.Helper()

	mock := httpmock.NewMockTransport()
	opts = append([]Option{
		WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelDebug, time.UTC)),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	client, err := NewClient(Config{
		APIKey:            testAPIKey,
		GeocodingEndpoint: testGeocodeURL,
		ForecastEndpoint:  testForecastURL,
		CurrentEndpoint:   testCurrentURL,
		Timeout:           time.Second,
		Transport:         mock,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, mock
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func weatherBlock(icon, main, description string) []map[string]any {
	return []map[string]any{{"id": 800, "icon": icon, "main": main, "description": description}}
}

func geocodingFixture() []map[string]any {
	return []map[string]any{{
		"name":    "Tampere",
		"lat":     tampereLat,
		"lon":     tampereLon,
		"country": "FI",
		"state":   "Pirkanmaa",
	}}
}

// dailyFixture returns n daily entries. Entry i has min 300.0+i K and max 305.0+i K.
func dailyFixture(n int) map[string]any {
	days := make([]map[string]any, n)
	for i := range n {
		days[i] = map[string]any{
			"dt":      fixedNow.Unix() + int64(i)*86400,
			"temp":    map[string]any{"min": 300.0 + float64(i), "max": 305.0 + float64(i), "day": 302.0},
			"weather": weatherBlock("10d", "Rain", "light rain"),
			"pop":     0.4,
		}
	}
	return map[string]any{
		"lat":      tampereLat,
		"lon":      tampereLon,
		"timezone": "Europe/Helsinki",
		"daily":    days,
	}
}

// hourlyFixture returns n hourly entries starting at 09:00 UTC on fixedNow's date.
func hourlyFixture(n int) map[string]any {
	start := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	hours := make([]map[string]any, n)
	for i := range n {
		hours[i] = map[string]any{
			"dt":      start.Add(time.Duration(i) * time.Hour).Unix(),
			"temp":    300.15 - float64(i),
			"weather": weatherBlock("04d", "Clouds", "broken clouds"),
			"pop":     0.35,
		}
	}
	return map[string]any{
		"lat":      tampereLat,
		"lon":      tampereLon,
		"timezone": "Europe/Helsinki",
		"hourly":   hours,
	}
}

func currentFixture() map[string]any {
	return map[string]any{
		"name":    "Tampere Sub-Region",
		"coord":   map[string]any{"lat": tampereLat, "lon": tampereLon},
		"weather": weatherBlock("04n", "Clouds", "broken clouds"),
		"main": map[string]any{
			"temp":       4.2,
			"feels_like": 1.1,
			"humidity":   87,
			"pressure":   1012,
		},
		"wind": map[string]any{"speed": 3.6, "deg": 200},
	}
}
