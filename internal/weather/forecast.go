package weather

import (
	"context"
	"time"
	_ "time/tzdata" // hourly times use the provider-declared IANA zone

	"github.com/antonholmquist/jason"

	"github.com/tuniweather/weatherapp/internal/observability/metrics"
)

const (
	excludeForDaily  = "current,minutely,hourly,alerts"
	excludeForHourly = "current,minutely,daily,alerts"

	hourlyTimeLayout = "15:04"
	secondsPerDay    = 86400
)

// FetchDailyForecast returns the seven days after today. The provider's
// entry for today is skipped. Each weekday label is derived from the local
// clock plus i days, not from the entry's own timestamp.
func (c *Client) FetchDailyForecast(ctx context.Context, coords Coordinates) ([]DailyForecastEntry, error) {
	params := coordinateParams(coords)
	params.Set("exclude", excludeForDaily)

	body, err := c.fetch(ctx, metrics.OpDailyForecast, c.cfg.ForecastEndpoint, params)
	if err != nil {
		return nil, c.fail(ctx, ErrForecastNotFound, err, metrics.OpDailyForecast)
	}

	entries, err := parseDailyForecast(body, c.now())
	if err != nil {
		return nil, c.fail(ctx, ErrForecastNotFound, err, metrics.OpDailyForecast)
	}

	c.succeed(metrics.OpDailyForecast, len(entries))
	return entries, nil
}

// FetchHourlyForecast returns the next six hourly entries with times
// formatted in the location's own timezone.
func (c *Client) FetchHourlyForecast(ctx context.Context, coords Coordinates) ([]HourlyForecastEntry, error) {
	params := coordinateParams(coords)
	params.Set("exclude", excludeForHourly)

	body, err := c.fetch(ctx, metrics.OpHourlyForecast, c.cfg.ForecastEndpoint, params)
	if err != nil {
		return nil, c.fail(ctx, ErrForecastNotFound, err, metrics.OpHourlyForecast)
	}

	entries, err := parseHourlyForecast(body)
	if err != nil {
		return nil, c.fail(ctx, ErrForecastNotFound, err, metrics.OpHourlyForecast)
	}

	c.succeed(metrics.OpHourlyForecast, len(entries))
	return entries, nil
}

// dailyLabel names the weekday i days after now, in UTC.
func dailyLabel(now time.Time, i int) string {
	return now.Add(time.Duration(i) * secondsPerDay * time.Second).UTC().Weekday().String()
}

func parseDailyForecast(body []byte, now time.Time) ([]DailyForecastEntry, error) {
	root, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, malformed("forecast response: %v", err)
	}
	days, err := root.GetObjectArray("daily")
	if err != nil {
		return nil, malformed("daily: %v", err)
	}
	// index 0 is today
	if len(days) < DailyForecastLength+1 {
		return nil, malformed("daily has %d entries, need %d", len(days), DailyForecastLength+1)
	}

	entries := make([]DailyForecastEntry, 0, DailyForecastLength)
	for i := 1; i <= DailyForecastLength; i++ {
		day := days[i]
		cond, err := readCondition(day, "daily", i)
		if err != nil {
			return nil, err
		}
		minK, err := day.GetFloat64("temp", "min")
		if err != nil {
			return nil, malformed("daily[%d].temp.min: %v", i, err)
		}
		maxK, err := day.GetFloat64("temp", "max")
		if err != nil {
			return nil, malformed("daily[%d].temp.max: %v", i, err)
		}

		entries = append(entries, DailyForecastEntry{
			Weekday:     dailyLabel(now, i),
			Icon:        cond.icon,
			Condition:   cond.main,
			Description: cond.description,
			MinTemp:     DailyCelsius(minK),
			MaxTemp:     DailyCelsius(maxK),
		})
	}
	return entries, nil
}

func parseHourlyForecast(body []byte) ([]HourlyForecastEntry, error) {
	root, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, malformed("forecast response: %v", err)
	}
	tzName, err := root.GetString("timezone")
	if err != nil {
		return nil, malformed("timezone: %v", err)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, malformed("timezone %q: %v", tzName, err)
	}
	hours, err := root.GetObjectArray("hourly")
	if err != nil {
		return nil, malformed("hourly: %v", err)
	}
	if len(hours) < HourlyForecastLength {
		return nil, malformed("hourly has %d entries, need %d", len(hours), HourlyForecastLength)
	}

	entries := make([]HourlyForecastEntry, 0, HourlyForecastLength)
	for i := range HourlyForecastLength {
		hour := hours[i]
		dt, err := hour.GetInt64("dt")
		if err != nil {
			return nil, malformed("hourly[%d].dt: %v", i, err)
		}
		cond, err := readCondition(hour, "hourly", i)
		if err != nil {
			return nil, err
		}
		pop, err := hour.GetFloat64("pop")
		if err != nil {
			return nil, malformed("hourly[%d].pop: %v", i, err)
		}
		tempK, err := hour.GetFloat64("temp")
		if err != nil {
			return nil, malformed("hourly[%d].temp: %v", i, err)
		}

		entries = append(entries, HourlyForecastEntry{
			Time:                     time.Unix(dt, 0).In(loc).Format(hourlyTimeLayout),
			Icon:                     cond.icon,
			Condition:                cond.main,
			Description:              cond.description,
			Temperature:              HourlyCelsius(tempK),
			PrecipitationProbability: pop,
		})
	}
	return entries, nil
}

type condition struct {
	icon        string
	main        string
	description string
}

// readCondition reads weather[0].icon, main and description from obj.
// section and index only label errors.
func readCondition(obj *jason.Object, section string, index int) (condition, error) {
	list, err := obj.GetObjectArray("weather")
	if err != nil {
		return condition{}, malformed("%s[%d].weather: %v", section, index, err)
	}
	if len(list) == 0 {
		return condition{}, malformed("%s[%d].weather is empty", section, index)
	}
	w := list[0]

	var cond condition
	if cond.icon, err = w.GetString("icon"); err != nil {
		return condition{}, malformed("%s[%d].weather[0].icon: %v", section, index, err)
	}
	if cond.main, err = w.GetString("main"); err != nil {
		return condition{}, malformed("%s[%d].weather[0].main: %v", section, index, err)
	}
	if cond.description, err = w.GetString("description"); err != nil {
		return condition{}, malformed("%s[%d].weather[0].description: %v", section, index, err)
	}
	return cond, nil
}
