package app

import (
	"fmt"

	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage/file"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage/memory"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage/sqlite"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// StoreConfig selects and configures the token store backend.
type StoreConfig struct {
	Backend string
	// Path is the file, database file or directory, depending on Backend.
	Path string
	// Key is the entry holding the token.
	Key string
	// SealKeyFile enables at-rest encryption for the file backend.
	SealKeyFile string
}

// OpenStore opens the configured backend.
func OpenStore(cfg StoreConfig, log logger.Logger) (storage.TokenStore, error) {
	if log == nil {
		log = logger.Default()
	}

	switch cfg.Backend {
	case storage.BackendMemory:
		return memory.New(), nil

	case storage.BackendFile, "":
		opts := []file.Option{file.WithLogger(log)}
		if cfg.SealKeyFile != "" {
			key, err := file.LoadOrCreateKey(cfg.SealKeyFile)
			if err != nil {
				return nil, err
			}
			sealer, err := file.NewSealer(key)
			if err != nil {
				return nil, err
			}
			opts = append(opts, file.WithSealer(sealer))
		}
		return file.New(cfg.Path, opts...)

	case storage.BackendBadger:
		return storage.NewBadgerStore(storage.BadgerConfig{Dir: cfg.Path}, log)

	case storage.BackendSQLite:
		return sqlite.Open(cfg.Path)

	default:
		return nil, fmt.Errorf("app: unknown store backend %q (want one of %v)", cfg.Backend, storage.Backends())
	}
}
