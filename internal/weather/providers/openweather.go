package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/district-weather/internal/metrics"
	"github.com/i474232898/district-weather/internal/weather"
)

const defaultBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
// It is safe for concurrent use.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// Option configures an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at another host (tests, proxies).
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *OpenWeatherProvider) {
		p.metrics = m
	}
}

// NewOpenWeatherProvider fails with ErrEmptyAPIKey when apiKey is empty.
func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) (*OpenWeatherProvider, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	p := &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CurrentWeather loads current conditions for one city id.
func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, providerID int, opts weather.Options) (*weather.CurrentWeather, error) {
	var payload owmCurrent
	if err := p.get(ctx, "weather", strconv.Itoa(providerID), opts, &payload); err != nil {
		return nil, err
	}
	w := payload.toCurrentWeather(opts.Units)
	return &w, nil
}

// WeatherGroup loads current conditions for several city ids in one call.
func (p *OpenWeatherProvider) WeatherGroup(ctx context.Context, providerIDs []int, opts weather.Options) ([]weather.CurrentWeather, error) {
	if len(providerIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(providerIDs))
	for _, id := range providerIDs {
		ids = append(ids, strconv.Itoa(id))
	}

	var payload struct {
		Cnt  int          `json:"cnt"`
		List []owmCurrent `json:"list"`
	}
	if err := p.get(ctx, "group", strings.Join(ids, ","), opts, &payload); err != nil {
		return nil, err
	}

	out := make([]weather.CurrentWeather, 0, len(payload.List))
	for _, item := range payload.List {
		out = append(out, item.toCurrentWeather(opts.Units))
	}
	return out, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint, ids string, opts weather.Options, dst any) error {
	values := url.Values{}
	values.Set("id", ids)
	values.Set("appid", p.apiKey)
	if opts.Units != "" {
		values.Set("units", opts.Units)
	}
	if opts.Lang != "" {
		values.Set("lang", opts.Lang)
	}

	u := fmt.Sprintf("%s/data/2.5/%s?%s", p.baseURL, endpoint, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := doRequest(ctx, p.client, p.circuit, req)
	p.metrics.ObserveHistogram(metrics.ProviderRequestDuration, time.Since(start).Seconds(), endpoint)
	if err != nil {
		p.metrics.IncrementCounter(metrics.ProviderRequests, endpoint, "error")
		return fmt.Errorf("openweather %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		p.metrics.IncrementCounter(metrics.ProviderRequests, endpoint, "decode_error")
		return fmt.Errorf("failed to decode response: %w", err)
	}

	p.metrics.IncrementCounter(metrics.ProviderRequests, endpoint, "success")
	return nil
}

// owmCurrent mirrors the /data/2.5/weather body. Pointers mark optional sections.
type owmCurrent struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Pressure *float64 `json:"pressure"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Clouds *struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain    *owmPrecipitation `json:"rain"`
	Snow    *owmPrecipitation `json:"snow"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type owmPrecipitation struct {
	OneH   *float64 `json:"1h"`
	ThreeH *float64 `json:"3h"`
}

func (pr *owmPrecipitation) value() (float64, bool) {
	if pr == nil {
		return 0, false
	}
	if pr.OneH != nil {
		return *pr.OneH, true
	}
	if pr.ThreeH != nil {
		return *pr.ThreeH, true
	}
	return 0, false
}

func (c owmCurrent) toCurrentWeather(units string) weather.CurrentWeather {
	w := weather.CurrentWeather{
		City: weather.City{ID: c.ID, Name: c.Name},
	}
	if c.Dt > 0 {
		w.LastUpdate = time.Unix(c.Dt, 0).UTC()
	}

	tempUnit, speedUnit := unitLabels(units)

	if c.Main != nil {
		w.Temperature.Now = measure(c.Main.Temp, tempUnit)
		w.Pressure = measure(c.Main.Pressure, "hPa")
		w.Humidity = measure(c.Main.Humidity, "%")
	}

	if c.Wind != nil {
		w.Wind.Speed = measure(c.Wind.Speed, speedUnit)
		if c.Wind.Deg != nil {
			w.Wind.Direction = &weather.Measurement{
				Value:       *c.Wind.Deg,
				Unit:        compassPoint(*c.Wind.Deg),
				Description: "deg",
			}
		}
	}

	var description string
	if len(c.Weather) > 0 {
		first := c.Weather[0]
		description = first.Description
		w.Weather = &weather.Condition{
			Description: first.Description,
			Icon:        first.Icon,
		}
	}

	if c.Clouds != nil {
		w.Clouds = &weather.Measurement{Value: c.Clouds.All, Unit: "%", Description: description}
	}

	if v, ok := c.Rain.value(); ok {
		w.Precipitation = &weather.Measurement{Value: v, Unit: "mm", Description: "rain"}
	} else if v, ok := c.Snow.value(); ok {
		w.Precipitation = &weather.Measurement{Value: v, Unit: "mm", Description: "snow"}
	}

	return w
}

func measure(v *float64, unit string) *weather.Measurement {
	if v == nil {
		return nil
	}
	return &weather.Measurement{Value: *v, Unit: unit}
}

func unitLabels(units string) (temp, speed string) {
	switch units {
	case weather.UnitsImperial:
		return "F", "mph"
	case weather.UnitsStandard:
		return "K", "m/s"
	default:
		return "C", "m/s"
	}
}

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassPoint converts degrees into a 16-point abbreviation.
func compassPoint(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+11.25)/22.5)) % len(compassPoints)
	return compassPoints[idx]
}
