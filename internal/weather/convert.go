package weather

import "math"

const (
	kelvinOffset              = 273.15
	celsiusToFahrenheitScale  = 9.0 / 5.0
	celsiusToFahrenheitOffset = 32.0
	mpsToMph                  = 2.23694
)

// KelvinToCelsius converts Kelvin to Celsius without rounding.
func KelvinToCelsius(kelvin float64) float64 {
	return kelvin - kelvinOffset
}

// DailyCelsius converts Kelvin to whole degrees Celsius.
func DailyCelsius(kelvin float64) int {
	return int(RoundHalfUp(KelvinToCelsius(kelvin)))
}

// HourlyCelsius converts Kelvin to Celsius rounded to one decimal.
func HourlyCelsius(kelvin float64) float64 {
	return RoundOneDecimal(KelvinToCelsius(kelvin))
}

// CelsiusToFahrenheit converts Celsius to Fahrenheit.
func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*celsiusToFahrenheitScale + celsiusToFahrenheitOffset
}

// MpsToMph converts metres per second to miles per hour.
func MpsToMph(mps float64) float64 {
	return mps * mpsToMph
}

// RoundHalfUp rounds to the nearest integer with ties towards positive
// infinity, so -2.5 becomes -2 rather than -3.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundOneDecimal rounds half-up to one decimal place.
func RoundOneDecimal(v float64) float64 {
	return RoundHalfUp(v*10) / 10
}
