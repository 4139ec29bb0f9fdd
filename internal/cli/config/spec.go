package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/gateway"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "TODO_"

// CLIConfig is the configuration for todo-cli.
type CLIConfig struct {
	API     APISection     `koanf:"api" yaml:"api"`
	Store   StoreSection   `koanf:"store" yaml:"store"`
	Session SessionSection `koanf:"session" yaml:"session"`
	Notify  NotifySection  `koanf:"notify" yaml:"notify"`
	Output  OutputSection  `koanf:"output" yaml:"output"`
	Log     LogSection     `koanf:"log" yaml:"log"`
}

// APISection configures the backend connection.
type APISection struct {
	BaseURL   string        `koanf:"base_url" yaml:"base_url"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout"`
	RateLimit float64       `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst int           `koanf:"rate_burst" yaml:"rate_burst"`
}

// StoreSection configures where the session token is kept.
type StoreSection struct {
	Backend     string `koanf:"backend" yaml:"backend"`
	Path        string `koanf:"path" yaml:"path"`
	Key         string `koanf:"key" yaml:"key"`
	SealKeyFile string `koanf:"seal_key_file" yaml:"seal_key_file,omitempty"`
}

// SessionSection configures session behavior.
type SessionSection struct {
	SignOutOnUnauthorized bool `koanf:"sign_out_on_unauthorized" yaml:"sign_out_on_unauthorized"`
}

// NotifySection configures notifications.
type NotifySection struct {
	TTL time.Duration `koanf:"ttl" yaml:"ttl"`
}

// OutputSection configures result rendering.
type OutputSection struct {
	Format string `koanf:"format" yaml:"format"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Dir returns ~/.todo.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".todo")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "cli.yaml")
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		API: APISection{
			BaseURL: gateway.DefaultBaseURL,
			Timeout: gateway.DefaultTimeout,
		},
		Store: StoreSection{
			Backend: storage.BackendFile,
			Path:    filepath.Join(Dir(), "session.json"),
			Key:     storage.DefaultKey,
		},
		Notify: NotifySection{TTL: domain.DefaultNotificationTTL},
		Output: OutputSection{Format: "table"},
		Log:    LogSection{Level: "warn", Format: "text"},
	}
}

// DefaultMap returns the defaults in the flat form used by confloader.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"api.base_url":                     d.API.BaseURL,
		"api.timeout":                      d.API.Timeout.String(),
		"api.rate_limit":                   d.API.RateLimit,
		"api.rate_burst":                   d.API.RateBurst,
		"store.backend":                    d.Store.Backend,
		"store.path":                       d.Store.Path,
		"store.key":                        d.Store.Key,
		"session.sign_out_on_unauthorized": d.Session.SignOutOnUnauthorized,
		"notify.ttl":                       d.Notify.TTL.String(),
		"output.format":                    d.Output.Format,
		"log.level":                        d.Log.Level,
		"log.format":                       d.Log.Format,
	}
}
