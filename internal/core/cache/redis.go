package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service redis backed cache
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService connects to redis and verifies the connection
func NewService(rcfg config.RedisConfig, ccfg config.CacheConfig) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     rcfg.Addr(),
		Password: rcfg.Password,
		DB:       rcfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewServiceWithClient(client, ccfg.TTL), nil
}

// NewServiceWithClient wraps an existing client
func NewServiceWithClient(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

// Get reads key, redis.Nil maps to common.ErrCacheMiss
func (s *Service) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("redis", key)
			return nil, common.ErrCacheMiss
		}
		return nil, common.ErrCacheUnavailable.Wrap(err)
	}

	common.LogCacheHit("redis", key)
	return data, nil
}

// Set writes key with ttl, falling back to the configured TTL
func (s *Service) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return common.ErrCacheUnavailable.Wrap(err)
	}
	return nil
}

// Ping checks the redis connection
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client
func (s *Service) Close() error {
	return s.client.Close()
}
