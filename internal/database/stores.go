package database

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealsnap/backend/config"
)

// OpenCustomFoodStore builds the custom food store selected by
// cfg.CustomFoodStore. The returned *gorm.DB is nil unless the SQL backend is
// selected, in which case migrations have already run.
func OpenCustomFoodStore(cfg *config.Config, client *redis.Client) (*SnapshotFoodStore, *gorm.DB, error) {
	switch cfg.CustomFoodStore {
	case config.StoreRedis:
		if client == nil {
			return nil, nil, fmt.Errorf("redis custom food store needs a redis client")
		}
		return NewSnapshotFoodStore(NewRedisSnapshot(client, CustomFoodsKey)), nil, nil
	case config.StoreSQL:
		db, err := Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := RunMigrations(db); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewSnapshotFoodStore(NewSQLSnapshot(db, CustomFoodsKey)), db, nil
	case config.StoreMemory, "":
		return NewSnapshotFoodStore(NewMemorySnapshot()), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown custom food store %q", cfg.CustomFoodStore)
	}
}
