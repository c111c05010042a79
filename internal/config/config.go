package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/harith2255/ecommerce-frontend/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Platform API the storefront fronts.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:5000/api"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Session TTL in hours (default: 24 hours)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"24"`

	// Secret shared with the platform's token issuer.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Auth endpoint rate limiting, per client IP.
	AuthRateRPS   int `env:"AUTH_RATE_RPS" envDefault:"5"`
	AuthRateBurst int `env:"AUTH_RATE_BURST" envDefault:"10"`

	// Upstream circuit breaker
	BreakerMinRequests  uint32 `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerTimeoutSecs  int    `env:"BREAKER_TIMEOUT_SECONDS" envDefault:"30"`
	BreakerIntervalSecs int    `env:"BREAKER_INTERVAL_SECONDS" envDefault:"60"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1.0"`

	// Pprof access, CIDR allowlist. Empty disables the endpoints.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"" envSeparator:","`
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
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.APIBaseURL)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("cart TTL must be at least 1 hour, got %d", c.CartTTL)
	}
	if c.SessionTTL < 1 {
		return fmt.Errorf("session TTL must be at least 1 hour, got %d", c.SessionTTL)
	}
	return nil
}
