package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/district-weather/internal/districts"
	"github.com/i474232898/district-weather/internal/store"
	"github.com/i474232898/district-weather/internal/weather"
)

type stubProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *stubProvider) CurrentWeather(_ context.Context, providerID int, _ weather.Options) (*weather.CurrentWeather, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &weather.CurrentWeather{
		City:        weather.City{ID: providerID},
		Temperature: weather.Temperature{Now: &weather.Measurement{Value: 1.6, Unit: "C"}},
		Weather:     &weather.Condition{Icon: "01d"},
	}, nil
}

func (p *stubProvider) WeatherGroup(context.Context, []int, weather.Options) ([]weather.CurrentWeather, error) {
	return nil, errors.New("not used")
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestScheduler(t *testing.T, provider weather.Provider) (*Scheduler, *store.FileStore) {
	t.Helper()
	svc, err := weather.NewService(provider, weather.DefaultOptions(), nil)
	require.NoError(t, err)

	fs := store.NewFileStore(afero.NewMemMapFs(), nil, nil)
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	s := New(svc, fs, "/data/weather.json", moscow, time.Minute, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return s, fs
}

func TestScheduler_RunOnce(t *testing.T) {
	provider := &stubProvider{}
	s, fs := newTestScheduler(t, provider)

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, len(districts.All()), provider.callCount())

	snap, err := fs.Read("/data/weather.json")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 12-00-00", snap.UpdateTime)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Unix(), snap.UpdateTS)
	require.Len(t, snap.Data, len(districts.All()))

	info := snap.Data[536203]
	assert.Equal(t, "Санкт-Петербург", info.Name)
	assert.Equal(t, 2, info.T)
	assert.Equal(t, "31d", info.S)
}

func TestScheduler_RunOnce_ProviderFailureKeepsSnapshot(t *testing.T) {
	provider := &stubProvider{}
	s, fs := newTestScheduler(t, provider)
	require.NoError(t, s.RunOnce(context.Background()))

	provider.err = errors.New("boom")
	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	snap, err := fs.Read("/data/weather.json")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 12-00-00", snap.UpdateTime)
}

func TestScheduler_RunOnce_MissingDependencies(t *testing.T) {
	s := New(nil, nil, "x.json", nil, time.Minute, nil)
	assert.Error(t, s.RunOnce(context.Background()))
}

func TestScheduler_StartStop(t *testing.T) {
	provider := &stubProvider{}
	s, fs := newTestScheduler(t, provider)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := fs.Read("/data/weather.json")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}
