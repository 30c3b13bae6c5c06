// Package show implements the show command.
package show

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuniweather/weatherapp/internal/app"
	"github.com/tuniweather/weatherapp/internal/errors"
	"github.com/tuniweather/weatherapp/internal/logger"
)

// ErrNothingFetched is returned when every section failed.
var ErrNothingFetched = errors.NewStd("no weather data could be fetched")

// Command creates the show command
func Command(a *app.App) *cobra.Command {
	var printMetrics bool

	cmd := &cobra.Command{
		Use:   "show [city]",
		Short: "Show current weather and forecasts for a city",
		Long: `Show current conditions, the next six hours and the next seven days.

Without a city the last viewed city is used, then display.defaultcity.
A successful lookup becomes the current city and is added to the search history.`,
		Example: `  weatherapp show
  weatherapp show Tampere
  weatherapp show New York --units imperial`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), a, cmd, strings.Join(args, " "))
			if printMetrics && a.Metrics != nil {
				cmd.Println()
				if werr := a.Metrics.WriteText(cmd.OutOrStdout()); werr != nil {
					return werr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&printMetrics, "metrics", false, "Print collected metrics after the report")

	return cmd
}

func run(ctx context.Context, a *app.App, cmd *cobra.Command, query string) error {
	log := a.Logger()
	ctx = a.Context(ctx)

	store, err := a.Store()
	if err != nil {
		return err
	}

	client, err := a.WeatherClient()
	if err != nil {
		return err
	}
	defer client.Close()

	query = strings.TrimSpace(query)
	if query == "" {
		if city, ok := store.CurrentCity(); ok {
			query = city
		} else {
			query = a.Settings.Display.DefaultCity
		}
	}

	loc, err := client.ResolveLocation(ctx, query)
	if err != nil {
		return err
	}

	out := a.Renderer(cmd.OutOrStdout())
	fetched := 0

	current, err := client.FetchCurrentWeather(ctx, loc)
	if err != nil {
		log.Warn("current weather unavailable", logger.String("city", loc.Name), logger.Error(err))
		if rerr := out.Unavailable("Current weather for " + loc.Name); rerr != nil {
			return rerr
		}
	} else {
		fetched++
		// Only a lookup that produced current weather is remembered.
		store.SetCurrentCity(query)
		store.AddToHistory(current.Name)
		if rerr := out.Current(current, store.IsFavorite(current.Name)); rerr != nil {
			return rerr
		}
	}

	hourly, err := client.FetchHourlyForecast(ctx, loc.Coordinates)
	if err != nil {
		log.Warn("hourly forecast unavailable", logger.String("city", loc.Name), logger.Error(err))
		if rerr := out.Unavailable("Next hours"); rerr != nil {
			return rerr
		}
	} else {
		fetched++
		if rerr := out.Hourly(hourly); rerr != nil {
			return rerr
		}
	}

	daily, err := client.FetchDailyForecast(ctx, loc.Coordinates)
	if err != nil {
		log.Warn("daily forecast unavailable", logger.String("city", loc.Name), logger.Error(err))
		if rerr := out.Unavailable("Next days"); rerr != nil {
			return rerr
		}
	} else {
		fetched++
		if rerr := out.Daily(daily); rerr != nil {
			return rerr
		}
	}

	if fetched == 0 {
		return errors.New(ErrNothingFetched).
			Component("cmd").
			Category(errors.CategoryNotFound).
			Context("operation", "show").
			Context("city", loc.Name).
			Build()
	}

	log.Debug("report rendered",
		logger.String("query", query),
		logger.String("city", loc.Name),
		logger.Int("sections", fetched),
		logger.Int("hourly_entries", len(hourly)),
		logger.Int("daily_entries", len(daily)))
	return nil
}
