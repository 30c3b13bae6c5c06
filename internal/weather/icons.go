package weather

// IconCode represents a standardized weather icon code
type IconCode string

// Standardized Icon Codes
const (
	IconClearSky     IconCode = "01"
	IconFair         IconCode = "02"
	IconPartlyCloudy IconCode = "03"
	IconCloudy       IconCode = "04"
	IconRainShowers  IconCode = "09"
	IconRain         IconCode = "10"
	IconThunderstorm IconCode = "11"
	IconSnow         IconCode = "13"
	IconFog          IconCode = "50"
	IconUnknown      IconCode = "unknown"
)

// Semantic asset keys used by the presentation layer next to provider icon codes.
const (
	AssetFavorite    = "FAVORITE"
	AssetNotFavorite = "NOT_FAVORITE"
	AssetHumidity    = "HUMIDITY"
	AssetUV          = "UV"
	AssetTemperature = "TEMP"
	AssetWind        = "WIND"
	AssetRain        = "RAIN"
	AssetDefault     = "DEFAULT_IMAGE"
)

// DefaultIconAsset is returned for codes without a bundled image.
const DefaultIconAsset = "/38.png"

// OpenWeatherToIcon maps OpenWeather icon codes to standardized icon codes
var OpenWeatherToIcon = map[string]IconCode{
	"01d": IconClearSky, // clear sky
	"01n": IconClearSky,
	"02d": IconFair, // few clouds
	"02n": IconFair,
	"03d": IconPartlyCloudy, // scattered clouds
	"03n": IconPartlyCloudy,
	"04d": IconCloudy, // broken clouds
	"04n": IconCloudy,
	"09d": IconRainShowers, // shower rain
	"09n": IconRainShowers,
	"10d": IconRain, // rain
	"10n": IconRain,
	"11d": IconThunderstorm, // thunderstorm
	"11n": IconThunderstorm,
	"13d": IconSnow, // snow
	"13n": IconSnow,
	"50d": IconFog, // mist
	"50n": IconFog,
}

// IconDescription maps standardized icon codes to human-readable descriptions
var IconDescription = map[IconCode]string{
	IconClearSky:     "Clear Sky",
	IconFair:         "Fair",
	IconPartlyCloudy: "Partly Cloudy",
	IconCloudy:       "Cloudy",
	IconRainShowers:  "Rain Showers",
	IconRain:         "Rain",
	IconThunderstorm: "Thunderstorm",
	IconSnow:         "Snow",
	IconFog:          "Fog",
	IconUnknown:      "Unknown",
}

// iconAssets holds the bundled image path for each provider code and semantic key.
// Scattered and broken clouds share one image, as do both shower variants.
var iconAssets = map[string]string{
	AssetFavorite:    "/icons2/starSelected.png",
	AssetNotFavorite: "/icons2/starNotSelected.png",
	AssetHumidity:    "/icons2/HUMIDITY.png",
	AssetUV:          "/icons2/UV.png",
	AssetTemperature: "/icons2/TEMP.png",
	AssetWind:        "/icons2/WIND.png",
	AssetRain:        "/icons2/RAIN.png",
	AssetDefault:     DefaultIconAsset,

	"01d": "/01d.png",
	"01n": "/01n.png",
	"02d": "/02d.png",
	"02n": "/02n.png",
	"03d": "/03.png",
	"03n": "/03.png",
	"04d": "/03.png",
	"04n": "/03.png",
	"09d": "/09.png",
	"09n": "/09.png",
	"10d": "/10d.png",
	"10n": "/10n.png",
	"11d": "/11d.png",
	"11n": "/11n.png",
	"13d": "/13d.png",
	"13n": "/13n.png",
	"50d": "/50d.png",
	"50n": "/50n.png",
}

// IconAsset returns the bundled image path for a provider icon code or semantic key.
func IconAsset(code string) string {
	if path, ok := iconAssets[code]; ok {
		return path
	}
	return DefaultIconAsset
}

// GetStandardIconCode converts an OpenWeather icon code to our standard icon code
func GetStandardIconCode(code string) IconCode {
	if iconCode, ok := OpenWeatherToIcon[code]; ok {
		return iconCode
	}
	return IconUnknown
}
