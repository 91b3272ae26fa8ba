package config

import (
	"context"
	"fmt"
	"log/slog"

	internalstorage "github.com/jwebster45206/dayscene/internal/storage"
	"github.com/jwebster45206/dayscene/pkg/storage"
)

// NewSaveStore builds the save backend selected by SAVE_BACKEND. For redis it
// waits until the server answers or ctx ends.
func NewSaveStore(ctx context.Context, cfg *Config, logger *slog.Logger) (storage.SaveStore, error) {
	switch cfg.SaveBackend {
	case BackendRedis:
		store := internalstorage.NewRedisStore(cfg.RedisURL, cfg.SaveTTL, logger)
		if err := store.WaitForConnection(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case BackendSQLite:
		return internalstorage.NewSQLiteStore(cfg.SQLitePath, logger)
	case BackendFile, "":
		return internalstorage.NewFileStore(cfg.SaveDir, cfg.SaveFormat, logger)
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
}
