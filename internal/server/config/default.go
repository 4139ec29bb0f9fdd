package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Default configuration values.
const (
	DefaultHTTPAddr          = ":8000"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultTokenTTL          = 60 * time.Minute
	DefaultBcryptCost        = bcrypt.DefaultCost
	DefaultMetricsPath       = "/metrics"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"

	// EnvPrefix is the environment variable prefix.
	EnvPrefix = "TODO_STUB_"
)

// Default returns the default configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		HTTP: HTTPSection{
			Addr:              DefaultHTTPAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
		Auth: AuthSection{
			TokenTTL:   DefaultTokenTTL,
			BcryptCost: DefaultBcryptCost,
		},
		Metrics: MetricsSection{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults in the flat form used by confloader.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"http.addr":                d.HTTP.Addr,
		"http.read_header_timeout": d.HTTP.ReadHeaderTimeout.String(),
		"auth.token_ttl":           d.Auth.TokenTTL.String(),
		"auth.bcrypt_cost":         d.Auth.BcryptCost,
		"metrics.enabled":          d.Metrics.Enabled,
		"metrics.path":             d.Metrics.Path,
		"log.level":                d.Log.Level,
		"log.format":               d.Log.Format,
	}
}
