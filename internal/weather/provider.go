package weather

import (
	"context"
	"errors"
	"fmt"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
	UnitsStandard = "standard"

	DefaultLang = "ru"
)

var ErrInvalidUnits = errors.New("invalid unit system")

// Options are the unit system and language passed to every provider call.
type Options struct {
	Units string
	Lang  string
}

// DefaultOptions matches what the site has always requested.
func DefaultOptions() Options {
	return Options{Units: UnitsMetric, Lang: DefaultLang}
}

func (o Options) withDefaults() (Options, error) {
	if o.Units == "" {
		o.Units = UnitsMetric
	}
	if o.Lang == "" {
		o.Lang = DefaultLang
	}
	switch o.Units {
	case UnitsMetric, UnitsImperial, UnitsStandard:
	default:
		return o, fmt.Errorf("%w: %q", ErrInvalidUnits, o.Units)
	}
	return o, nil
}

// Provider abstracts the OpenWeatherMap current-weather endpoints.
type Provider interface {
	CurrentWeather(ctx context.Context, providerID int, opts Options) (*CurrentWeather, error)
	WeatherGroup(ctx context.Context, providerIDs []int, opts Options) ([]CurrentWeather, error)
}
