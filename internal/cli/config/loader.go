package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Archi470/Todo-Mobile-Application/internal/app"
	"github.com/Archi470/Todo-Mobile-Application/internal/cli/output"
	"github.com/Archi470/Todo-Mobile-Application/internal/gateway"
	"github.com/Archi470/Todo-Mobile-Application/internal/infra/confloader"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// Load reads defaults, the optional file at path (DefaultConfigPath when
// empty) and TODO_* variables.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	loader := confloader.NewLoader(
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithConfigFile(path),
		confloader.WithOptionalFile(),
		confloader.WithDefaults(DefaultMap()),
	)
	cfg := Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Verify validates the configuration.
func Verify(cfg *CLIConfig) error {
	if _, err := gateway.NormalizeBaseURL(cfg.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if cfg.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if cfg.API.RateLimit < 0 || cfg.API.RateBurst < 0 {
		return errors.New("api.rate_limit and api.rate_burst must not be negative")
	}
	if !slices.Contains(storage.Backends(), cfg.Store.Backend) {
		return fmt.Errorf("store.backend %q is not one of %v", cfg.Store.Backend, storage.Backends())
	}
	if cfg.Store.Backend != storage.BackendMemory && cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required for the %s backend", cfg.Store.Backend)
	}
	if cfg.Store.SealKeyFile != "" && cfg.Store.Backend != storage.BackendFile {
		return errors.New("store.seal_key_file is only supported by the file backend")
	}
	if cfg.Notify.TTL <= 0 {
		return errors.New("notify.ttl must be positive")
	}
	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if !logger.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

// AppConfig converts the CLI settings to the app configuration.
func (c *CLIConfig) AppConfig() app.Config {
	return app.Config{
		BaseURL:   c.API.BaseURL,
		Timeout:   c.API.Timeout,
		RateLimit: c.API.RateLimit,
		Burst:     c.API.RateBurst,
		Store: app.StoreConfig{
			Backend:     c.Store.Backend,
			Path:        c.Store.Path,
			Key:         c.Store.Key,
			SealKeyFile: c.Store.SealKeyFile,
		},
		NotifyTTL:             c.Notify.TTL,
		SignOutOnUnauthorized: c.Session.SignOutOnUnauthorized,
	}
}
