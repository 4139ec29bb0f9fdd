package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 16

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyHTTP(&cfg.HTTP); err != nil {
		return err
	}
	if err := verifyAuth(&cfg.Auth); err != nil {
		return err
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with /", cfg.Metrics.Path)
	}
	if !logger.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

func verifyHTTP(cfg *HTTPSection) error {
	if cfg.Addr == "" {
		return errors.New("http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("http.addr %q: %w", cfg.Addr, err)
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return errors.New("http.rate_limit and http.rate_burst must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst == 0 {
		return errors.New("http.rate_burst is required when http.rate_limit is set")
	}
	if cfg.ReadHeaderTimeout < 0 {
		return errors.New("http.read_header_timeout must not be negative")
	}
	return nil
}

func verifyAuth(cfg *AuthSection) error {
	if cfg.Secret != "" && len(cfg.Secret) < MinSecretLength {
		return fmt.Errorf("auth.secret must be at least %d characters", MinSecretLength)
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
