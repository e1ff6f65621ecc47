package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gatchina = 561887

func fullRecord() *CurrentWeather {
	return &CurrentWeather{
		City:        City{ID: gatchina, Name: "Gatchina"},
		Temperature: Temperature{Now: &Measurement{Value: 12.6, Unit: "C"}},
		Humidity:    &Measurement{Value: 65, Unit: "%"},
		Pressure:    &Measurement{Value: 1013, Unit: "hPa"},
		Wind: Wind{
			Speed:     &Measurement{Value: 4.5, Unit: "m/s"},
			Direction: &Measurement{Value: 200, Unit: "SSW"},
		},
		Clouds:        &Measurement{Value: 40, Unit: "%", Description: "scattered clouds"},
		Precipitation: &Measurement{Value: 0.3, Unit: "mm"},
		Weather:       &Condition{Description: "scattered clouds", Icon: "03d"},
	}
}

func TestMakeInfo_AllFieldsPresent(t *testing.T) {
	info := MakeInfo(gatchina, fullRecord())

	assert.Equal(t, gatchina, info.ID)
	assert.Equal(t, "Гатчинский район", info.Name)
	assert.Equal(t, 12.6, info.Temperature)
	assert.Equal(t, 13, info.T)
	assert.Equal(t, "65 %", info.Humidity)
	assert.Equal(t, 1013.0, info.PressureHPA)
	assert.Equal(t, 760, info.PressureMM)
	assert.Equal(t, 4.5, info.WindSpeed)
	assert.Equal(t, 200.0, info.WindDirRaw)
	assert.Equal(t, "SSW", info.WindDir)
	assert.Equal(t, 40.0, info.CloudsValue)
	assert.Equal(t, "scattered clouds", info.CloudsText)
	assert.Equal(t, 0.3, info.Precipitation)
	assert.Equal(t, "03d", info.WeatherIcon)
	assert.Equal(t, "https://openweathermap.org/img/w/03d.png", info.WeatherIconURL)
	assert.Equal(t, "26d", info.S)

	t.Run("no field left at its default", func(t *testing.T) {
		defaults := MakeInfo(gatchina, &CurrentWeather{})
		assert.NotEqual(t, defaults.Temperature, info.Temperature)
		assert.NotEqual(t, defaults.T, info.T)
		assert.NotEqual(t, defaults.Humidity, info.Humidity)
		assert.NotEqual(t, defaults.PressureHPA, info.PressureHPA)
		assert.NotEqual(t, defaults.PressureMM, info.PressureMM)
		assert.NotEqual(t, defaults.WindSpeed, info.WindSpeed)
		assert.NotEqual(t, defaults.WindDirRaw, info.WindDirRaw)
		assert.NotEqual(t, defaults.WindDir, info.WindDir)
		assert.NotEqual(t, defaults.CloudsValue, info.CloudsValue)
		assert.NotEqual(t, defaults.CloudsText, info.CloudsText)
		assert.NotEqual(t, defaults.Precipitation, info.Precipitation)
		assert.NotEqual(t, defaults.WeatherIcon, info.WeatherIcon)
		assert.NotEqual(t, defaults.WeatherIconURL, info.WeatherIconURL)
		assert.NotEqual(t, defaults.S, info.S)
	})
}

func TestMakeInfo_NoSubObjects(t *testing.T) {
	want := Info{
		ID:       gatchina,
		Name:     "Гатчинский район",
		Humidity: "0 %",
		S:        "44d",
	}

	assert.Equal(t, want, MakeInfo(gatchina, &CurrentWeather{}))
	assert.Equal(t, want, MakeInfo(gatchina, nil))
}

func TestMakeInfo_PressureConversion(t *testing.T) {
	w := &CurrentWeather{Pressure: &Measurement{Value: 1000}}

	info := MakeInfo(gatchina, w)

	assert.Equal(t, 750, info.PressureMM)
	assert.Equal(t, int(math.Round(1000*0.75006375541921)), info.PressureMM)
}

func TestMakeInfo_TemperatureRounding(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.4, 0},
		{0.5, 1},
		{-0.5, -1},
		{-3.6, -4},
		{21.49, 21},
	}
	for _, tt := range tests {
		w := &CurrentWeather{Temperature: Temperature{Now: &Measurement{Value: tt.in}}}
		assert.Equal(t, tt.want, MakeInfo(gatchina, w).T, "%v", tt.in)
	}
}

func TestMakeInfo_IconTranslation(t *testing.T) {
	w := &CurrentWeather{Weather: &Condition{Icon: "01d"}}
	assert.Equal(t, "31d", MakeInfo(gatchina, w).S)

	w = &CurrentWeather{Weather: &Condition{Icon: "99x"}}
	info := MakeInfo(gatchina, w)
	assert.Equal(t, "44d", info.S)
	assert.Equal(t, "99x", info.WeatherIcon)
}

func TestMakeInfo_WindDirectionWithoutSpeed(t *testing.T) {
	w := &CurrentWeather{Wind: Wind{Direction: &Measurement{Value: 90, Unit: "E"}}}

	info := MakeInfo(gatchina, w)

	assert.Equal(t, 0.0, info.WindSpeed)
	assert.Equal(t, 90.0, info.WindDirRaw)
	assert.Equal(t, "E", info.WindDir)
}

func TestMakeInfo_UnknownDistrictPanics(t *testing.T) {
	require.Panics(t, func() { MakeInfo(1, &CurrentWeather{}) })
}
