package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/district-weather/internal/weather"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	originalDir, _ := os.Getwd()
	tmpDir := t.TempDir()
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
	return tmpDir
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no config file exists", func(t *testing.T) {
		viper.Reset()
		chdirTemp(t)

		cfg, err := Load("")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "metric", cfg.Weather.Units)
		assert.Equal(t, "ru", cfg.Weather.Lang)
		assert.Equal(t, "https://api.openweathermap.org", cfg.Weather.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Weather.HTTPTimeout)
		assert.Equal(t, "weather.json", cfg.Snapshot.Path)
		assert.Equal(t, "Europe/Moscow", cfg.Snapshot.Timezone)
		assert.Equal(t, 15*time.Minute, cfg.Snapshot.FetchInterval)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, weather.DefaultOptions(), cfg.Weather.Options())
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		viper.Reset()
		chdirTemp(t)

		t.Setenv("OPENWEATHER_API_KEY", "weather_key_123")
		t.Setenv("WEATHER_UNITS", "imperial")
		t.Setenv("WEATHER_LANG", "en")
		t.Setenv("HTTP_TIMEOUT", "3s")
		t.Setenv("SNAPSHOT_PATH", "/tmp/w.json")
		t.Setenv("FETCH_INTERVAL", "30m")
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "weather_key_123", cfg.Weather.OpenWeatherAPIKey)
		assert.Equal(t, "imperial", cfg.Weather.Units)
		assert.Equal(t, "en", cfg.Weather.Lang)
		assert.Equal(t, 3*time.Second, cfg.Weather.HTTPTimeout)
		assert.Equal(t, "/tmp/w.json", cfg.Snapshot.Path)
		assert.Equal(t, 30*time.Minute, cfg.Snapshot.FetchInterval)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("loads from .env file", func(t *testing.T) {
		viper.Reset()
		dir := chdirTemp(t)
		t.Setenv("WEATHER_LANG", "")
		require.NoError(t, os.Unsetenv("WEATHER_LANG"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WEATHER_LANG=de\n"), 0o600))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "de", cfg.Weather.Lang)
	})

	t.Run("loads explicit yaml file", func(t *testing.T) {
		viper.Reset()
		dir := chdirTemp(t)
		path := filepath.Join(dir, "custom.yaml")
		content := "snapshot:\n  path: /data/weather.json\n  timezone: UTC\nlogging:\n  format: console\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/data/weather.json", cfg.Snapshot.Path)
		assert.Equal(t, "UTC", cfg.Snapshot.Timezone)
		assert.Equal(t, "console", cfg.Logging.Format)
		assert.Equal(t, "metric", cfg.Weather.Units)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		viper.Reset()
		dir := chdirTemp(t)

		_, err := Load(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("rejects invalid units", func(t *testing.T) {
		viper.Reset()
		chdirTemp(t)
		t.Setenv("WEATHER_UNITS", "kelvin")

		_, err := Load("")
		assert.ErrorIs(t, err, weather.ErrInvalidUnits)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Weather:  WeatherConfig{Units: "metric", HTTPTimeout: time.Second},
			Snapshot: SnapshotConfig{Timezone: "Europe/Moscow", FetchInterval: 15 * time.Minute},
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("short interval", func(t *testing.T) {
		cfg := valid()
		cfg.Snapshot.FetchInterval = 10 * time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Weather.HTTPTimeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := valid()
		cfg.Snapshot.Timezone = "Mars/Olympus"
		assert.Error(t, cfg.Validate())
	})
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	assert.Equal(t, "metric", viper.GetString("weather.units"))
	assert.Equal(t, 15*time.Minute, viper.GetDuration("snapshot.fetch_interval"))
	assert.Equal(t, "json", viper.GetString("logging.format"))
}
