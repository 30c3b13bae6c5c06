// Package display renders weather results and user state as plain text.
package display

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/tuniweather/weatherapp/internal/weather"
)

// Renderer writes human-readable output in metric or imperial units.
// Inputs are always Celsius and m/s; conversion happens here.
type Renderer struct {
	w        io.Writer
	imperial bool
}

// New returns a Renderer writing to w.
func New(w io.Writer, imperial bool) *Renderer {
	return &Renderer{w: w, imperial: imperial}
}

func (r *Renderer) tempUnit() string {
	if r.imperial {
		return "°F"
	}
	return "°C"
}

// Temperature formats a Celsius value in the renderer's units with the given
// number of decimals.
func (r *Renderer) Temperature(celsius float64, decimals int) string {
	v := celsius
	if r.imperial {
		v = weather.CelsiusToFahrenheit(celsius)
	}
	return formatRounded(v, decimals) + r.tempUnit()
}

// WindSpeed formats a m/s value with one decimal.
func (r *Renderer) WindSpeed(mps float64) string {
	if r.imperial {
		return formatRounded(weather.MpsToMph(mps), 1) + " mph"
	}
	return formatRounded(mps, 1) + " m/s"
}

func formatRounded(v float64, decimals int) string {
	if decimals <= 0 {
		return strconv.Itoa(int(weather.RoundHalfUp(v)))
	}
	if decimals == 1 {
		v = weather.RoundOneDecimal(v)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Current renders the current conditions block.
func (r *Renderer) Current(cw *weather.CurrentWeather, favorite bool) error {
	star := weather.AssetNotFavorite
	marker := ""
	if favorite {
		star = weather.AssetFavorite
		marker = "  ★"
	}
	icon := weather.GetStandardIconCode(cw.Icon)

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s%s\n", cw.Name, marker)
	fmt.Fprintf(tw, "%s\t%s\n", cw.Description, r.Temperature(cw.Temperature, 0))
	fmt.Fprintf(tw, "Feels like\t%s\n", r.Temperature(cw.FeelsLike, 0))
	fmt.Fprintf(tw, "Humidity\t%d%%\n", cw.Humidity)
	fmt.Fprintf(tw, "Wind\t%s\n", r.WindSpeed(cw.WindSpeed))
	fmt.Fprintf(tw, "Sky\t%s (%s)\n", weather.IconDescription[icon], weather.IconAsset(cw.Icon))
	fmt.Fprintf(tw, "Location\t%.4f, %.4f (%s)\n", cw.Coordinates.Latitude, cw.Coordinates.Longitude, weather.IconAsset(star))
	return tw.Flush()
}

// Hourly renders the hourly forecast table.
func (r *Renderer) Hourly(entries []weather.HourlyForecastEntry) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nNext hours")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s rain\t%s\n",
			e.Time,
			r.Temperature(e.Temperature, 1),
			strconv.Itoa(int(weather.RoundHalfUp(e.PrecipitationProbability*100)))+"%",
			e.Description)
	}
	return tw.Flush()
}

// Daily renders the daily forecast table.
func (r *Renderer) Daily(entries []weather.DailyForecastEntry) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nNext days")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s / %s\t%s\n",
			e.Weekday,
			r.Temperature(float64(e.MinTemp), 0),
			r.Temperature(float64(e.MaxTemp), 0),
			e.Description)
	}
	return tw.Flush()
}

// List renders a titled list, or a placeholder when it is empty.
func (r *Renderer) List(title string, items []string) error {
	if _, err := fmt.Fprintf(r.w, "%s:\n", title); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(r.w, "  (none)")
		return err
	}
	for i, item := range items {
		if _, err := fmt.Fprintf(r.w, "  %d. %s\n", i+1, item); err != nil {
			return err
		}
	}
	return nil
}

// Unavailable notes a section that could not be fetched.
func (r *Renderer) Unavailable(section string) error {
	_, err := fmt.Fprintf(r.w, "\n%s: unavailable\n", section)
	return err
}
