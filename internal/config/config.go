package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	JWTSecret string `env:"JWT_SECRET,required" validate:"required,min=32"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	PriceCacheTTL    time.Duration `env:"PRICE_CACHE_TTL" envDefault:"2h" validate:"gt=0"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	ProviderRateRPS  float64       `env:"PROVIDER_RATE_LIMIT" envDefault:"50" validate:"gt=0"`
	CompareWorkers   int           `env:"COMPARE_WORKERS" envDefault:"8" validate:"gte=1"`
	SplitDeliveryFee bool          `env:"SPLIT_DELIVERY_FEES" envDefault:"false"`

	OptimizerURL     string        `env:"OPTIMIZER_URL" validate:"omitempty,url"`
	OptimizerAPIKey  string        `env:"OPTIMIZER_API_KEY"`
	OptimizerModel   string        `env:"OPTIMIZER_MODEL" envDefault:"gpt-4o-mini"`
	OptimizerTimeout time.Duration `env:"OPTIMIZER_TIMEOUT" envDefault:"60s" validate:"gt=0"`

	BaseURL string `env:"BASE_URL" validate:"omitempty,url"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if strings.TrimSpace(c.OptimizerAPIKey) != "" && strings.TrimSpace(c.OptimizerURL) == "" {
		return fmt.Errorf("OPTIMIZER_URL is required when OPTIMIZER_API_KEY is set")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
