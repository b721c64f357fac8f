package repository

import (
	"fmt"

	"github.com/ikkim/dealer-admin-backend/config"
	"github.com/ikkim/dealer-admin-backend/internal/db"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
	"github.com/ikkim/dealer-admin-backend/pkg/redis"
)

// OpenSlots connects the backend named by cfg.Storage.Backend. The returned
// close func releases the connection.
func OpenSlots(cfg *config.Config) (SlotBackend, func() error, error) {
	logger.Info("Opening dealer slot backend", map[string]interface{}{
		"backend": cfg.Storage.Backend,
		"key":     cfg.Storage.SlotKey,
	})

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return NewMemorySlots(), func() error { return nil }, nil

	case config.BackendRedis:
		if err := redis.Init(&cfg.Redis); err != nil {
			return nil, nil, err
		}
		return NewRedisSlots(redis.GetClient()), redis.Close, nil

	case config.BackendPostgres, config.BackendSQLite:
		if err := db.Initialize(cfg.Storage.Backend, &cfg.Database, &cfg.SQLite); err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewGormSlots(db.GetDB()), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
