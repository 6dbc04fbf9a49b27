package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/druide/internal/config"
	"github.com/aretw0/druide/pkg/adapters/bolt"
	"github.com/aretw0/druide/pkg/adapters/file"
	"github.com/aretw0/druide/pkg/adapters/memory"
	"github.com/aretw0/druide/pkg/adapters/redis"
	"github.com/aretw0/druide/pkg/ports"
)

// BoltTimeout bounds how long opening a locked bolt database may block.
const BoltTimeout = time.Second

// NewStore builds the report store selected by cfg. The returned close
// function releases its resources and is never nil.
func NewStore(ctx context.Context, cfg config.StoreConfig) (ports.ReportStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Kind {
	case config.StoreMemory, "":
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.Path), noop, nil
	case config.StoreBolt:
		store, err := bolt.Open(cfg.Path, BoltTimeout)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown store kind %q", config.ErrInvalidConfig, cfg.Kind)
	}
}
