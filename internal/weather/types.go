// Package weather resolves place names and fetches current conditions and
// forecasts from the OpenWeather API.
package weather

// Forecast lengths. A successful fetch always returns exactly this many entries.
const (
	DailyForecastLength  = 7
	HourlyForecastLength = 6
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Location is the first geocoding match for a query. Name is the provider's
// canonical name, which may differ from what the user typed.
type Location struct {
	Coordinates
	Name string `json:"name"`
}

// CurrentWeather is a present-moment snapshot. Temperatures are Celsius and
// wind speed is m/s.
type CurrentWeather struct {
	Name        string
	Coordinates Coordinates
	Condition   string
	Description string
	Temperature float64
	FeelsLike   float64
	WindSpeed   float64
	Humidity    int
	Icon        string
}

// HourlyForecastEntry is one hour of forecast. Time is HH:MM in the location's
// timezone and Temperature is Celsius rounded to one decimal.
type HourlyForecastEntry struct {
	Time                     string
	Icon                     string
	Condition                string
	Description              string
	Temperature              float64
	PrecipitationProbability float64
}

// DailyForecastEntry is one day of forecast with whole-degree Celsius bounds.
type DailyForecastEntry struct {
	Weekday     string
	Icon        string
	Condition   string
	Description string
	MinTemp     int
	MaxTemp     int
}
