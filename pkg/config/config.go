package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/neurostream/protocolengine/pkg/retry"
)

// Config holds all application configuration
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	Server      ServerConfig
	ProtocolAPI ProtocolAPIConfig
	Redis       RedisConfig
	Cache       CacheConfig
	CORS        CORSConfig
	OTEL        OTELConfig
}

// ServerConfig holds configuration for the mock protocol API server
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8000"`
}

// ProtocolAPIConfig holds configuration for the remote protocol-data API.
// An empty URL selects the in-process mock collaborator.
type ProtocolAPIConfig struct {
	URL     string        `env:"PROTOCOL_API_URL"`
	Timeout time.Duration `env:"PROTOCOL_API_TIMEOUT" envDefault:"10s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool         `env:"REDIS_ENABLED" envDefault:"false"`
	Host     string       `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int          `env:"REDIS_PORT" envDefault:"6379"`
	Password string       `env:"REDIS_PASSWORD"`
	DB       int          `env:"REDIS_DB" envDefault:"0"`
	Connect  retry.Config `envPrefix:"REDIS_"`
}

// CacheConfig holds TTLs for the protocol catalog and comparison caches
// and what the mock server warms at startup
type CacheConfig struct {
	CatalogTTLSeconds    int      `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"180"`
	ComparisonTTLSeconds int      `env:"COMPARISON_CACHE_TTL_SECONDS" envDefault:"3600"`
	WarmOnStart          bool     `env:"CACHE_WARM_ON_START" envDefault:"true"`
	WarmComparisons      []string `env:"CACHE_WARM_COMPARISONS" envSeparator:";"`
}

// CORSConfig holds allowed origins for the mock server
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"protocol-engine"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION" envDefault:"1.0.0"`
	Endpoint       string `env:"OTEL_ENDPOINT"`
	Enabled        bool   `env:"OTEL_ENABLED" envDefault:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port)
	}
	cfg.ProtocolAPI.URL = strings.TrimRight(cfg.ProtocolAPI.URL, "/")
	return cfg, nil
}

// ServerAddr returns the listen address of the mock server
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UseMock reports whether the in-process mock collaborator should be used
func (c *ProtocolAPIConfig) UseMock() bool {
	return c.URL == ""
}
