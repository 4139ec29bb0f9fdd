package config

import "time"

// ServerConfig is the root configuration for todo-stub.
type ServerConfig struct {
	HTTP    HTTPSection    `koanf:"http" yaml:"http"`
	Auth    AuthSection    `koanf:"auth" yaml:"auth"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics"`
	Log     LogSection     `koanf:"log" yaml:"log"`
}

// HTTPSection configures the listener.
type HTTPSection struct {
	Addr              string        `koanf:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout"`
	// CORSAllowedOrigins lists allowed origins; empty allows all.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	// RateLimit is the per-client requests per second; zero disables limiting.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" yaml:"rate_burst"`
}

// AuthSection configures token issuance and password hashing.
type AuthSection struct {
	// Secret signs access tokens. When empty a random secret is
	// generated at startup, so tokens do not survive a restart.
	Secret     string        `koanf:"secret" yaml:"secret"`
	TokenTTL   time.Duration `koanf:"token_ttl" yaml:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Path    string `koanf:"path" yaml:"path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
