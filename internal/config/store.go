package config

import (
	"context"
	"fmt"

	"santri_portal/internal/storage"
)

// OpenStore creates the session storage selected by cfg.Storage.Driver.
// The returned func releases the underlying connection.
func OpenStore(ctx context.Context, cfg *Config) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case DriverMemory:
		return storage.NewMemoryStore(), noop, nil

	case DriverRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client, storage.DefaultRedisPrefix), func() { _ = client.Close() }, nil

	case DriverPostgres:
		pool, err := ConnectDB(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := AutoMigrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return storage.NewPostgresStore(pool), pool.Close, nil

	case DriverFile, "":
		store, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
