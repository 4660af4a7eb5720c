package menu

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"meal-deals/internal/pkg/common"
)

// fileDocument on-disk layout of a flat-file menu source
type fileDocument struct {
	Items   []Item                    `json:"items"`
	Orders  map[string]map[string]int `json:"orders"`
	Reviews map[string][]Review       `json:"reviews"`
}

// FileRepo implements Repository over a JSON document loaded once at start
type FileRepo struct {
	items   []Item
	orders  map[int]map[string]int
	reviews map[int][]Review
}

// LoadFileRepo reads and decodes the document at path
func LoadFileRepo(path string) (*FileRepo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()

	var doc fileDocument
	if err := common.DecodeJSON(f, &doc); err != nil {
		return nil, fmt.Errorf("decode menu file: %w", err)
	}
	return newFileRepo(doc)
}

func newFileRepo(doc fileDocument) (*FileRepo, error) {
	repo := &FileRepo{
		items:   normalizeServes(doc.Items),
		orders:  make(map[int]map[string]int, len(doc.Orders)),
		reviews: make(map[int][]Review, len(doc.Reviews)),
	}
	for key, counts := range doc.Orders {
		branch, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("orders: invalid branch %q", key)
		}
		repo.orders[branch] = counts
	}
	for key, reviews := range doc.Reviews {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("reviews: invalid item id %q", key)
		}
		repo.reviews[id] = reviews
	}
	return repo, nil
}

// Menu returns the items of branch in file order
func (r *FileRepo) Menu(ctx context.Context, branch int) ([]Item, error) {
	items := make([]Item, 0)
	for _, it := range r.items {
		if it.Branch == branch {
			items = append(items, it)
		}
	}
	return items, nil
}

// OrderCounts returns a copy of the branch order counts
func (r *FileRepo) OrderCounts(ctx context.Context, branch int) (map[string]int, error) {
	counts := make(map[string]int, len(r.orders[branch]))
	for name, n := range r.orders[branch] {
		counts[name] = n
	}
	return counts, nil
}

// ReviewedMenu returns every item with the reviews keyed by its id
func (r *FileRepo) ReviewedMenu(ctx context.Context) ([]ReviewedItem, error) {
	items := make([]ReviewedItem, 0, len(r.items))
	for _, it := range r.items {
		reviews := r.reviews[it.ID]
		if reviews == nil {
			reviews = []Review{}
		}
		items = append(items, ReviewedItem{ID: it.ID, Name: it.Name, Category: it.Category, Price: it.Price, Reviews: reviews})
	}
	return items, nil
}

// Ping always succeeds
func (r *FileRepo) Ping(ctx context.Context) error {
	return nil
}
