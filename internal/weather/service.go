package weather

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/i474232898/district-weather/internal/districts"
)

var (
	// ErrNoProvider is returned by NewService when no provider is given.
	ErrNoProvider = errors.New("weather provider not configured")
	// ErrUnknownProviderID is returned when the provider answers for a city outside the districts table.
	ErrUnknownProviderID = errors.New("unknown provider district id")
)

// RegionList is the input of the group fetchers: either IDList or DistrictSet.
type RegionList interface {
	ProviderIDs() []int
}

// IDList is a flat list of provider ids.
type IDList []int

// ProviderIDs implements RegionList.
func (l IDList) ProviderIDs() []int {
	out := make([]int, len(l))
	copy(out, l)
	return out
}

// DistrictSet is a list of full district records.
type DistrictSet []districts.District

// ProviderIDs implements RegionList.
func (s DistrictSet) ProviderIDs() []int {
	out := make([]int, 0, len(s))
	for _, d := range s {
		out = append(out, d.ProviderID)
	}
	return out
}

// Service fetches district weather from the provider and normalizes it.
// It is immutable after construction.
type Service struct {
	provider Provider
	opts     Options
	logger   zerolog.Logger
	console  io.Writer
}

// NewService creates a new Service. A nil logger disables logging.
func NewService(provider Provider, opts Options, logger *zerolog.Logger) (*Service, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "weather").Logger()
	}

	return &Service{
		provider: provider,
		opts:     opts,
		logger:   l,
	}, nil
}

// Options returns the unit system and language in use.
func (s *Service) Options() Options {
	return s.opts
}

// WithOptions returns a copy of the service using other options.
func (s *Service) WithOptions(opts Options) (*Service, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	cp := *s
	cp.opts = opts
	return &cp, nil
}

// WithConsole returns a copy of the service that echoes FetchGroupDebug progress to w.
func (s *Service) WithConsole(w io.Writer) *Service {
	cp := *s
	cp.console = w
	return &cp
}

// FetchGroup loads weather for all regions with a single batch request.
// Provider failures are returned to the caller.
func (s *Service) FetchGroup(ctx context.Context, regions RegionList) (map[int]Info, error) {
	ids := regions.ProviderIDs()

	s.logger.Info().Ints("ids", ids).Msg("[FETCH] weather for regions ids")

	group, err := s.provider.WeatherGroup(ctx, ids, s.opts)
	if err != nil {
		return nil, fmt.Errorf("fetch weather group: %w", err)
	}

	result := make(map[int]Info, len(group))
	for i := range group {
		id := group[i].City.ID
		d, ok := districts.ByProviderID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownProviderID, id)
		}
		s.logger.Info().Int("id", id).Msgf("[MAKE] weather data for region %s", d.NameRU)

		result[id] = MakeInfo(id, &group[i])
	}

	return result, nil
}

// FetchGroupDebug loads weather one district at a time, reporting progress.
// It needs full district records; an IDList is logged and yields an empty result.
func (s *Service) FetchGroupDebug(ctx context.Context, regions RegionList) (map[int]Info, error) {
	result := make(map[int]Info)

	set, ok := regions.(DistrictSet)
	if !ok {
		s.logger.Error().Msg("Can't iterate flat regions list.")
		s.print("Can't iterate flat regions list.\n")
		return result, nil
	}

	for _, d := range set {
		s.print("Retrieving data for region %s ... ", d.NameRU)
		s.logger.Debug().Int("id", d.ProviderID).Msgf("Retrieving data for region %s ... ", d.NameRU)
		s.logger.Info().Int("id", d.ProviderID).Msgf("[GET] data for region %s ... ", d.NameRU)

		w, err := s.provider.CurrentWeather(ctx, d.ProviderID, s.opts)
		if err != nil {
			s.print("Failed.\n")
			return nil, fmt.Errorf("fetch weather for %d: %w", d.ProviderID, err)
		}

		id := w.City.ID
		if _, ok := districts.ByProviderID(id); !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownProviderID, id)
		}
		s.logger.Debug().
			Int("id", id).
			Str("provider_name", w.City.Name).
			Time("observed_at", w.LastUpdate).
			Msg("received current weather")

		result[id] = MakeInfo(id, w)
		s.print("Ok.\n")
	}

	return result, nil
}

func (s *Service) print(format string, args ...any) {
	if s.console == nil {
		return
	}
	_, _ = fmt.Fprintf(s.console, format, args...)
}
