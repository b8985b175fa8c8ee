package store

import (
	"context"
	"fmt"

	"codeberg.org/whbprompts/server/internal/config"
)

// builds the backend selected in the client config
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "redis":
		return NewRedisStore(ctx, cfg.URL)
	case "postgres":
		return NewPostgresStore(ctx, cfg.URL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
