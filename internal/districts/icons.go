package districts

// FallbackIcon is used for provider icons without a translation.
const FallbackIcon = "44d"

var icons = map[string]string{
	// clear sky
	"01d": "31d",
	"01n": "31n",
	// few clouds
	"02d": "30d",
	"02n": "30n",
	// scattered clouds
	"03d": "26d",
	"03n": "26n",
	// broken clouds
	"04d": "27d",
	"04n": "27n",
	// shower rain
	"09d": "10d",
	"09n": "10n",
	// rain
	"10d": "9d",
	"10n": "9n",
	// thunderstorm
	"11d": "0d",
	"11n": "0n",
	// snow
	"13d": "6d",
	"13n": "6n",
	// mist
	"50d": "22d",
	"50n": "22n",
}

// TranslateIcon converts an OpenWeatherMap icon code into the site's icon set.
func TranslateIcon(code string) string {
	if s, ok := icons[code]; ok {
		return s
	}
	return FallbackIcon
}
