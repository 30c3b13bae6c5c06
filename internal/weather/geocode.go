package weather

import (
	"context"
	"net/url"
	"strings"

	"github.com/antonholmquist/jason"

	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/logger"
	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

// ResolveLocation geocodes name and returns the first match together with the
// provider's canonical name for it.
func (c *Client) ResolveLocation(ctx context.Context, name string) (Location, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return Location{}, c.fail(ctx, ErrLocationNotFound, errors.NewStd("empty location query"), metrics.OpGeocode)
	}

	body, err := c.fetch(ctx, metrics.OpGeocode, c.cfg.GeocodingEndpoint, url.Values{
		"q":     {query},
		"limit": {"1"},
	})
	if err != nil {
		return Location{}, c.fail(ctx, ErrLocationNotFound, err, metrics.OpGeocode)
	}

	loc, err := parseLocation(body)
	if err != nil {
		return Location{}, c.fail(ctx, ErrLocationNotFound, err, metrics.OpGeocode)
	}

	c.succeed(metrics.OpGeocode, 0)
	c.log.WithContext(ctx).Debug("location resolved",
		logger.String("query", query),
		logger.String("name", loc.Name),
		logger.Float64("lat", loc.Latitude),
		logger.Float64("lon", loc.Longitude))
	return loc, nil
}

// parseLocation reads [0].lat, [0].lon and [0].name from a geocoding response.
func parseLocation(body []byte) (Location, error) {
	v, err := jason.NewValueFromBytes(body)
	if err != nil {
		return Location{}, malformed("geocoding response: %v", err)
	}
	matches, err := v.Array()
	if err != nil {
		return Location{}, malformed("geocoding response is not an array: %v", err)
	}
	if len(matches) == 0 {
		return Location{}, errNoMatches
	}

	first, err := matches[0].Object()
	if err != nil {
		return Location{}, malformed("[0] is not an object: %v", err)
	}
	lat, err := first.GetFloat64("lat")
	if err != nil {
		return Location{}, malformed("[0].lat: %v", err)
	}
	lon, err := first.GetFloat64("lon")
	if err != nil {
		return Location{}, malformed("[0].lon: %v", err)
	}
	name, err := first.GetString("name")
	if err != nil {
		return Location{}, malformed("[0].name: %v", err)
	}

	return Location{
		Coordinates: Coordinates{Latitude: lat, Longitude: lon},
		Name:        name,
	}, nil
}
