package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Personal-Hub-Backend/internal/config"
	"github.com/ndewijer/Personal-Hub-Backend/internal/kvstore"
	"github.com/ndewijer/Personal-Hub-Backend/internal/mediastore"
)

// openCacheStore builds the key/value store behind the balance cache.
// The returned func releases any connection the store holds.
func openCacheStore(ctx context.Context, cfg config.CacheConfig, db *sql.DB) (kvstore.Store, func(), error) {
	var (
		store   kvstore.Store
		closeFn = func() {}
	)

	switch cfg.Backend {
	case config.CacheBackendRedis:
		redisStore, err := kvstore.NewRedisStore(ctx, kvstore.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "hub:",
		})
		if err != nil {
			return nil, nil, err
		}
		store = redisStore
		closeFn = func() { _ = redisStore.Close() }
	default:
		store = kvstore.NewSQLiteStore(db)
	}

	if cfg.EncryptionKey == "" {
		return store, closeFn, nil
	}

	sealed, err := kvstore.NewSealedStoreFromString(store, cfg.EncryptionKey)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return sealed, closeFn, nil
}

// openMediaStore builds the attachment store used when notes drop attachments.
func openMediaStore(ctx context.Context, cfg config.MediaConfig) (mediastore.Remover, func(), error) {
	switch cfg.Backend {
	case config.MediaBackendGCS:
		gcs, err := mediastore.NewGCSStore(ctx, cfg.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	case config.MediaBackendLocal:
		local, err := mediastore.NewLocalStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return local, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}
