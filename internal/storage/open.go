package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/repository/sqlite"
	"github.com/redis/go-redis/v9"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Config selects and configures a driver.
type Config struct {
	Driver    string
	Path      string // sqlite file
	RedisAddr string
	KeyPrefix string
}

// Open builds the configured store. The returned close function is never nil.
func Open(ctx context.Context, cfg Config) (domain.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), noop, nil

	case DriverSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite store: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("migrate sqlite store: %w", err)
		}
		return db.KeyValues(), db.Close, nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			DialTimeout: 2 * time.Second,
		})
		store := NewRedisStore(client, WithKeyPrefix(cfg.KeyPrefix))
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
