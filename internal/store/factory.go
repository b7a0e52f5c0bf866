package store

import (
	"context"
	"fmt"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"go.uber.org/zap"
)

// Open builds the slot backend selected by cfg.Storage.Backend. The caller
// owns the returned KV and must Close it.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (KV, error) {
	backend := cfg.Storage.Backend
	log.Debug("Opening slot store", zap.String("backend", backend))

	switch backend {
	case config.StorageFile, "":
		return NewFileKV(cfg.Storage.DataDir, log)

	case config.StorageRedis:
		return NewRedisKV(ctx, RedisConfig{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})

	case config.StoragePostgres:
		db, err := database.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresKV(db, log), nil

	case config.StorageMemory:
		return NewMemoryKV(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
