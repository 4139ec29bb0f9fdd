package storage

import (
	"context"
	"errors"
)

// DefaultKey is the key the session token is stored under.
const DefaultKey = "userToken"

// Common errors
var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("token store closed")
)

// TokenStore is the durable key/value capability consumed by the
// session machine (read/write) and the gateway (read only).
//
// Implementations must be safe for concurrent use and must not report
// success for Set before the value is durable.
type TokenStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Backends lists every known backend name.
func Backends() []string {
	return []string{BackendFile, BackendBadger, BackendSQLite, BackendMemory}
}
