package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/district-weather/internal/weather"
)

type Config struct {
	Weather  WeatherConfig  `mapstructure:"weather"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type WeatherConfig struct {
	OpenWeatherAPIKey string        `mapstructure:"openweather_api_key"`
	Units             string        `mapstructure:"units"`
	Lang              string        `mapstructure:"lang"`
	BaseURL           string        `mapstructure:"base_url"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
}

// Options returns the request options configured for the provider.
func (w WeatherConfig) Options() weather.Options {
	return weather.Options{Units: w.Units, Lang: w.Lang}
}

type SnapshotConfig struct {
	Path          string        `mapstructure:"path"`
	Timezone      string        `mapstructure:"timezone"`
	FetchInterval time.Duration `mapstructure:"fetch_interval"`
}

// Location resolves Timezone.
func (s SnapshotConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, an optional YAML file and the environment.
// An empty configFile searches the default locations.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("district-weather")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config")
		viper.AddConfigPath("/etc")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("weather.openweather_api_key", "OPENWEATHER_API_KEY")
	_ = viper.BindEnv("weather.units", "WEATHER_UNITS")
	_ = viper.BindEnv("weather.lang", "WEATHER_LANG")
	_ = viper.BindEnv("weather.base_url", "WEATHER_BASE_URL")
	_ = viper.BindEnv("weather.http_timeout", "HTTP_TIMEOUT")

	_ = viper.BindEnv("snapshot.path", "SNAPSHOT_PATH")
	_ = viper.BindEnv("snapshot.timezone", "SNAPSHOT_TIMEZONE")
	_ = viper.BindEnv("snapshot.fetch_interval", "FETCH_INTERVAL")

	_ = viper.BindEnv("server.port", "PORT")

	_ = viper.BindEnv("logging.level", "LOG_LEVEL")
	_ = viper.BindEnv("logging.format", "LOG_FORMAT")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("weather.units", weather.UnitsMetric)
	viper.SetDefault("weather.lang", weather.DefaultLang)
	viper.SetDefault("weather.base_url", "https://api.openweathermap.org")
	viper.SetDefault("weather.http_timeout", 10*time.Second)

	viper.SetDefault("snapshot.path", "weather.json")
	viper.SetDefault("snapshot.timezone", "Europe/Moscow")
	viper.SetDefault("snapshot.fetch_interval", 15*time.Minute)

	viper.SetDefault("server.port", "8080")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// Validate checks values that would otherwise fail late at runtime.
// The API key is not checked here; the provider constructor rejects an empty one.
func (c *Config) Validate() error {
	switch c.Weather.Units {
	case weather.UnitsMetric, weather.UnitsImperial, weather.UnitsStandard:
	default:
		return fmt.Errorf("invalid weather.units %q: %w", c.Weather.Units, weather.ErrInvalidUnits)
	}
	if c.Weather.HTTPTimeout <= 0 {
		return fmt.Errorf("weather.http_timeout must be positive, got %s", c.Weather.HTTPTimeout)
	}
	if c.Snapshot.FetchInterval < time.Minute {
		return fmt.Errorf("snapshot.fetch_interval must be at least 1m, got %s", c.Snapshot.FetchInterval)
	}
	if _, err := c.Snapshot.Location(); err != nil {
		return fmt.Errorf("invalid snapshot.timezone %q: %w", c.Snapshot.Timezone, err)
	}
	return nil
}
