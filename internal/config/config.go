package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all service settings, populated from environment variables.
// Provider API keys are optional: a missing key switches the corresponding
// adapter to its mock fallback instead of failing startup.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR, default=:8080"`
	LogLevel        string        `env:"LOG_LEVEL, default=info"`
	LogFormat       string        `env:"LOG_FORMAT, default=json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	// Provider credentials and endpoints. Base URLs are overridable so an
	// adapter can be pointed at the same-origin proxy (or a test server)
	// instead of the provider directly.
	OpenWeatherAPIKey string        `env:"OPENWEATHER_API_KEY"`
	NewsAPIKey        string        `env:"NEWS_API_KEY"`
	NWSUserAgent      string        `env:"NWS_USER_AGENT, default=location-dashboard (contact@example.com)"`
	WeatherBaseURL    string        `env:"WEATHER_BASE_URL, default=https://api.openweathermap.org/data/2.5"`
	GeocodeBaseURL    string        `env:"GEOCODE_BASE_URL, default=https://api.openweathermap.org/geo/1.0"`
	AlertsBaseURL     string        `env:"ALERTS_BASE_URL, default=https://api.weather.gov"`
	NewsBaseURL       string        `env:"NEWS_BASE_URL, default=https://newsapi.org/v2"`
	ProviderTimeout   time.Duration `env:"PROVIDER_TIMEOUT, default=10s"`
	GeocodeCacheSize  int           `env:"GEOCODE_CACHE_SIZE, default=256"`

	// State persistence and derived-view settings.
	StatePath       string `env:"STATE_PATH, default=./data/dashboard_state.json"`
	CollationLocale string `env:"COLLATION_LOCALE, default=en"`

	// Bootstrap seeds an empty collection with one default location, mirroring
	// the dashboard's first-load behavior when geolocation is unavailable.
	BootstrapEnabled  bool    `env:"BOOTSTRAP_ENABLED, default=true"`
	BootstrapLat      float64 `env:"BOOTSTRAP_LAT, default=40.7128"`
	BootstrapLng      float64 `env:"BOOTSTRAP_LNG, default=-74.0060"`
	BootstrapNickname string  `env:"BOOTSTRAP_NICKNAME, default=NYC"`
	BootstrapQuery    string  `env:"BOOTSTRAP_QUERY, default=New York"`
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, errors.New("PROVIDER_TIMEOUT must be positive")
	}
	if cfg.GeocodeCacheSize <= 0 {
		return nil, errors.New("GEOCODE_CACHE_SIZE must be positive")
	}
	if cfg.StatePath == "" {
		return nil, errors.New("STATE_PATH is required")
	}
	if cfg.NWSUserAgent == "" {
		return nil, errors.New("NWS_USER_AGENT is required")
	}

	return &cfg, nil
}
