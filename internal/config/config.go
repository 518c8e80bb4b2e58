package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/pasarantar/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL (default: 7 days, matching how long an idle session keeps
	// its cart)
	CartTTL time.Duration `env:"CART_TTL" envDefault:"168h"`

	// Toast auto-dismiss delay
	ToastDismissAfter time.Duration `env:"TOAST_DISMISS_AFTER" envDefault:"4s"`

	// Kafka. Leave brokers empty to disable event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// Order API
	OrderAPIURL     string        `env:"ORDER_API_URL" envDefault:"http://localhost:9000/api/orders"`
	OrderAPITimeout time.Duration `env:"ORDER_API_TIMEOUT" envDefault:"30s"`
	OrderAPIRetries int           `env:"ORDER_API_MAX_RETRIES" envDefault:"2"`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("cart TTL must be positive, got %s", c.CartTTL)
	}
	if _, err := url.ParseRequestURI(c.OrderAPIURL); err != nil {
		return fmt.Errorf("invalid order API URL %q: %w", c.OrderAPIURL, err)
	}
	return nil
}
