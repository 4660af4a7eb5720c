package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-deals/internal/core/cache"
	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"
)

type stubRepo struct {
	items     []Item
	err       error
	orders    map[string]int
	ordersErr error
	menuCalls int
}

func (s *stubRepo) Menu(ctx context.Context, branch int) ([]Item, error) {
	s.menuCalls++
	return s.items, s.err
}

func (s *stubRepo) OrderCounts(ctx context.Context, branch int) (map[string]int, error) {
	return s.orders, s.ordersErr
}

func (s *stubRepo) ReviewedMenu(ctx context.Context) ([]ReviewedItem, error) {
	return []ReviewedItem{{ID: 1, Name: "Fries", Reviews: []Review{}}}, s.err
}

func (s *stubRepo) Ping(ctx context.Context) error { return nil }

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, common.ErrCacheUnavailable.Wrap(errors.New("dial tcp: refused"))
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return common.ErrCacheUnavailable
}
func (brokenStore) Ping(context.Context) error { return errors.New("down") }
func (brokenStore) Close() error               { return nil }

func TestCatalogMenuCacheAside(t *testing.T) {
	repo := &stubRepo{items: []Item{{ID: 1, Branch: 1, Name: "Fries", Category: "Fries", Price: 250, Serves: 1}}}
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()
	cat := NewCatalog(repo, store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		items, err := cat.Menu(ctx, 1)
		if err != nil || len(items) != 1 {
			t.Fatalf("Menu() = %v, %v", items, err)
		}
	}
	if repo.menuCalls != 1 {
		t.Fatalf("repository called %d times, want 1", repo.menuCalls)
	}
	if _, err := store.Get(ctx, "menu:1"); err != nil {
		t.Fatalf("expected menu:1 cached, got %v", err)
	}
}

func TestCatalogMenuCachedZeroServes(t *testing.T) {
	repo := &stubRepo{}
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()
	ctx := context.Background()
	entry := []byte(`[{"name":"Pizza","category":"Pizza","price":1200,"serves":0},{"name":"Fries","category":"Fries","price":250,"serves":null}]`)
	if err := store.Set(ctx, "menu:1", entry, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	items, err := NewCatalog(repo, store, time.Minute).Menu(ctx, 1)
	if err != nil || len(items) != 2 {
		t.Fatalf("Menu() = %v, %v", items, err)
	}
	if repo.menuCalls != 0 {
		t.Fatalf("repository called %d times, want cache hit", repo.menuCalls)
	}
	for _, it := range items {
		if it.Serves != 1 {
			t.Errorf("%s serves = %d, want 1", it.Name, it.Serves)
		}
	}
}

func TestCatalogEmptyMenuNotCached(t *testing.T) {
	repo := &stubRepo{items: []Item{}}
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()
	cat := NewCatalog(repo, store, time.Minute)

	_, _ = cat.Menu(context.Background(), 4)
	_, _ = cat.Menu(context.Background(), 4)
	if repo.menuCalls != 2 {
		t.Fatalf("empty menu should not be cached, repository calls = %d", repo.menuCalls)
	}
}

func TestCatalogCacheFailureDegrades(t *testing.T) {
	repo := &stubRepo{items: []Item{{ID: 1, Name: "Fries", Serves: 1}}}
	cat := NewCatalog(repo, brokenStore{}, time.Minute)

	items, err := cat.Menu(context.Background(), 1)
	if err != nil {
		t.Fatalf("cache failure must not abort, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
}

func TestCatalogDataSourceError(t *testing.T) {
	repo := &stubRepo{err: errors.New("db down")}
	cat := NewCatalog(repo, nil, time.Minute)

	_, err := cat.Menu(context.Background(), 1)
	if !errors.Is(err, common.ErrDataSource) {
		t.Fatalf("error = %v, want ErrDataSource", err)
	}
}

func TestCatalogPopularityBestEffort(t *testing.T) {
	repo := &stubRepo{ordersErr: errors.New("timeout")}
	cat := NewCatalog(repo, nil, time.Minute)

	counts := cat.Popularity(context.Background(), 1)
	if counts == nil || len(counts) != 0 {
		t.Fatalf("Popularity() = %v, want empty map", counts)
	}
}
