package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/district-weather/internal/districts"
	"github.com/i474232898/district-weather/internal/store"
	"github.com/i474232898/district-weather/internal/weather"
)

const runTimeout = 2 * time.Minute

// Scheduler periodically fetches weather for every district and rewrites the snapshot file.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	store     *store.FileStore
	path      string
	location  *time.Location
	interval  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a new Scheduler. Snapshot times are rendered in loc.
func New(service *weather.Service, fileStore *store.FileStore, path string, loc *time.Location, interval time.Duration, logger *zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "scheduler").Logger()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		service:   service,
		store:     fileStore,
		path:      path,
		location:  loc,
		interval:  interval,
		logger:    l,
		now:       time.Now,
	}
}

// RunOnce fetches all districts one by one and saves the result.
// On a fetch failure the previous snapshot is left untouched.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.service == nil || s.store == nil {
		return errors.New("scheduler: service and store are required")
	}

	data, err := s.service.FetchGroupDebug(ctx, weather.DistrictSet(districts.All()))
	if err != nil {
		return fmt.Errorf("fetch districts: %w", err)
	}

	snap := weather.NewSnapshot(s.now().In(s.location), data)
	if err := s.store.Save(s.path, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval < time.Minute {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		s.logger.Info().Msg("running weather fetch job")

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error().Err(err).Msg("weather fetch job failed")
			return
		}
		s.logger.Info().Msg("completed weather fetch job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
