package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"

	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// badgerKeyPrefix namespaces token keys inside the Badger keyspace.
const badgerKeyPrefix = "token/"

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Dir is the storage directory. Required unless InMemory is set.
	Dir string

	// InMemory keeps all data in RAM (tests only; nothing survives Close).
	InMemory bool

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 16MB (a token store never grows beyond a few KB).
	ValueLogFileSize int64
}

// BadgerStore implements TokenStore on Badger v3.
//
// Writes are synchronous so Set only returns once the token is on disk.
type BadgerStore struct {
	db     *badger.DB
	logger logger.Logger
	closed atomic.Bool
}

// NewBadgerStore opens (or creates) a Badger-backed token store.
func NewBadgerStore(cfg BadgerConfig, log logger.Logger) (*BadgerStore, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}
	if cfg.ValueLogFileSize == 0 {
		cfg.ValueLogFileSize = 16 << 20
	}

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: log.With("component", "badger")}
	opts.SyncWrites = true
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.NumVersionsToKeep = 1

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	log.Debug("badger token store opened", "dir", cfg.Dir, "in_memory", cfg.InMemory)

	return &BadgerStore{db: db, logger: log}, nil
}

// Get retrieves the value stored under key.
func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}

	return string(value), nil
}

// Set stores value under key.
func (s *BadgerStore) Set(ctx context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), []byte(value))
	})
}

// Remove deletes key. Badger deletes are idempotent.
func (s *BadgerStore) Remove(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + key))
	})
}

// Close flushes and closes the database. Subsequent calls are no-ops.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	return nil
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
