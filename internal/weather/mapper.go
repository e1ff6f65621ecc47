package weather

import (
	"math"

	"github.com/i474232898/district-weather/internal/districts"
)

// hPa -> mmHg
const mmHgPerHPa = 0.75006375541921

// MakeInfo normalizes a provider record for the district with the given provider id.
//
// The id must be present in the districts table; MakeInfo panics otherwise.
// Rounding is half away from zero (math.Round).
func MakeInfo(providerID int, w *CurrentWeather) Info {
	d := districts.MustByProviderID(providerID)

	info := Info{
		ID:       providerID,
		Name:     d.NameRU,
		Humidity: "0 %",
	}
	if w == nil {
		info.S = districts.FallbackIcon
		return info
	}

	if w.Temperature.Now != nil {
		info.Temperature = w.Temperature.Now.Value
		info.T = int(math.Round(info.Temperature))
	}

	if w.Humidity != nil {
		info.Humidity = w.Humidity.Formatted()
	}

	if w.Pressure != nil {
		info.PressureHPA = w.Pressure.Value
		info.PressureMM = int(math.Round(info.PressureHPA * mmHgPerHPa))
	}

	if w.Wind.Speed != nil {
		info.WindSpeed = w.Wind.Speed.Value
	}

	if w.Wind.Direction != nil {
		info.WindDirRaw = w.Wind.Direction.Value
		info.WindDir = w.Wind.Direction.Unit
	}

	if w.Clouds != nil {
		info.CloudsValue = w.Clouds.Value
		info.CloudsText = w.Clouds.Description
	}

	if w.Precipitation != nil {
		info.Precipitation = w.Precipitation.Value
	}

	icon := ""
	if w.Weather != nil {
		icon = w.Weather.Icon
		info.WeatherIcon = icon
		info.WeatherIconURL = w.Weather.IconURL()
	}
	info.S = districts.TranslateIcon(icon)

	return info
}
