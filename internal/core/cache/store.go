package cache

import (
	"context"
	"fmt"
	"time"

	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"
)

// Store key-value cache with expiry. Get returns common.ErrCacheMiss when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// New builds the store selected by cfg.Cache.Backend. A disabled cache yields a
// store that always misses.
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("cache disabled")
		return Disabled{}, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return NewService(cfg.Redis, cfg.Cache)
	case config.CacheMemory:
		return NewManager(cfg.Cache), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Disabled store used when caching is turned off
type Disabled struct{}

// Get always misses
func (Disabled) Get(context.Context, string) ([]byte, error) { return nil, common.ErrCacheMiss }

// Set discards the value
func (Disabled) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Ping always succeeds
func (Disabled) Ping(context.Context) error { return nil }

// Close is a no-op
func (Disabled) Close() error { return nil }
