package weather

import (
	"context"
	"unicode/utf8"

	"github.com/antonholmquist/jason"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

// FetchCurrentWeather returns current conditions for loc. The provider is
// asked for metric units, so no Kelvin conversion happens here. The result
// is labelled with loc.Name from geocoding.
func (c *Client) FetchCurrentWeather(ctx context.Context, loc Location) (*CurrentWeather, error) {
	params := coordinateParams(loc.Coordinates)
	params.Set("units", "metric")

	body, err := c.fetch(ctx, metrics.OpCurrentWeather, c.cfg.CurrentEndpoint, params)
	if err != nil {
		return nil, c.fail(ctx, ErrWeatherDataNotFound, err, metrics.OpCurrentWeather)
	}

	current, err := parseCurrentWeather(body, loc)
	if err != nil {
		return nil, c.fail(ctx, ErrWeatherDataNotFound, err, metrics.OpCurrentWeather)
	}

	c.succeed(metrics.OpCurrentWeather, 0)
	if c.metrics != nil {
		c.metrics.UpdateWeatherGauges(current.Temperature, float64(current.Humidity), current.WindSpeed)
	}
	return current, nil
}

func parseCurrentWeather(body []byte, loc Location) (*CurrentWeather, error) {
	root, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, malformed("current weather response: %v", err)
	}

	list, err := root.GetObjectArray("weather")
	if err != nil {
		return nil, malformed("weather: %v", err)
	}
	if len(list) == 0 {
		return nil, malformed("weather is empty")
	}
	w := list[0]

	cw := &CurrentWeather{
		Name:        loc.Name,
		Coordinates: loc.Coordinates,
	}
	if cw.Icon, err = w.GetString("icon"); err != nil {
		return nil, malformed("weather[0].icon: %v", err)
	}
	if cw.Condition, err = w.GetString("main"); err != nil {
		return nil, malformed("weather[0].main: %v", err)
	}
	description, err := w.GetString("description")
	if err != nil {
		return nil, malformed("weather[0].description: %v", err)
	}
	cw.Description = capitalizeFirst(description)

	if cw.Temperature, err = root.GetFloat64("main", "temp"); err != nil {
		return nil, malformed("main.temp: %v", err)
	}
	if cw.FeelsLike, err = root.GetFloat64("main", "feels_like"); err != nil {
		return nil, malformed("main.feels_like: %v", err)
	}
	humidity, err := root.GetFloat64("main", "humidity")
	if err != nil {
		return nil, malformed("main.humidity: %v", err)
	}
	cw.Humidity = int(humidity)
	if cw.WindSpeed, err = root.GetFloat64("wind", "speed"); err != nil {
		return nil, malformed("wind.speed: %v", err)
	}

	return cw, nil
}

// capitalizeFirst upper-cases the first letter and leaves the rest untouched.
func capitalizeFirst(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(language.English).String(s[:size]) + s[size:]
}
