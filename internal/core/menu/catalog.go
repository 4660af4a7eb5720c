package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meal-deals/internal/core/cache"
	"meal-deals/internal/pkg/common"
	"meal-deals/internal/pkg/metrics"

	"go.uber.org/zap"
)

const reviewsMenuKey = "reviews:menu"

// Catalog cache-aside access to a Repository
type Catalog struct {
	repo  Repository
	store cache.Store
	ttl   time.Duration
}

// NewCatalog creates a Catalog. A nil store disables caching.
func NewCatalog(repo Repository, store cache.Store, ttl time.Duration) *Catalog {
	if store == nil {
		store = cache.Disabled{}
	}
	return &Catalog{repo: repo, store: store, ttl: ttl}
}

func menuKey(branch int) string {
	return fmt.Sprintf("menu:%d", branch)
}

// Menu returns the branch menu, serving from cache when possible. Only a
// data-source failure is returned; cache failures degrade to a miss.
func (c *Catalog) Menu(ctx context.Context, branch int) ([]Item, error) {
	key := menuKey(branch)

	var items []Item
	if c.lookup(ctx, key, &items) && len(items) > 0 {
		return normalizeServes(items), nil
	}

	items, err := c.repo.Menu(ctx, branch)
	if err != nil {
		return nil, common.ErrDataSource.Wrap(err)
	}

	if len(items) > 0 {
		c.save(ctx, key, items)
	}
	return items, nil
}

// Popularity returns order counts for branch. Failures yield an empty map.
func (c *Catalog) Popularity(ctx context.Context, branch int) map[string]int {
	counts, err := c.repo.OrderCounts(ctx, branch)
	if err != nil {
		common.LogWarn("order counts unavailable",
			zap.Int("branch", branch),
			zap.Error(err),
		)
		return map[string]int{}
	}
	return counts
}

// ReviewedMenu returns the menu with reviews, cache first
func (c *Catalog) ReviewedMenu(ctx context.Context) ([]ReviewedItem, error) {
	var items []ReviewedItem
	if c.lookup(ctx, reviewsMenuKey, &items) && len(items) > 0 {
		return items, nil
	}

	items, err := c.repo.ReviewedMenu(ctx)
	if err != nil {
		return nil, common.ErrDataSource.Wrap(err)
	}

	if len(items) > 0 {
		c.save(ctx, reviewsMenuKey, items)
	}
	return items, nil
}

// Ping checks the data source and the cache
func (c *Catalog) Ping(ctx context.Context) error {
	if err := c.repo.Ping(ctx); err != nil {
		return common.ErrDataSource.Wrap(err)
	}
	if err := c.store.Ping(ctx); err != nil {
		return common.ErrCacheUnavailable.Wrap(err)
	}
	return nil
}

// lookup decodes the cached value at key into v, reporting a hit
func (c *Catalog) lookup(ctx context.Context, key string, v interface{}) bool {
	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrCacheMiss):
		metrics.MenuCacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	default:
		metrics.MenuCacheRequests.WithLabelValues(metrics.CacheError).Inc()
		common.LogWarn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		metrics.MenuCacheRequests.WithLabelValues(metrics.CacheError).Inc()
		common.LogWarn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}

	metrics.MenuCacheRequests.WithLabelValues(metrics.CacheHit).Inc()
	return true
}

// save writes v at key, failures are logged only
func (c *Catalog) save(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		common.LogWarn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		common.LogWarn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
