package menu

import "context"

// Repository menu, order and review data source
type Repository interface {
	// Menu returns the branch menu in catalog order, empty when the branch has no items
	Menu(ctx context.Context, branch int) ([]Item, error)
	// OrderCounts returns order counts keyed by item name
	OrderCounts(ctx context.Context, branch int) (map[string]int, error)
	// ReviewedMenu returns every menu item together with its reviews
	ReviewedMenu(ctx context.Context) ([]ReviewedItem, error)
	Ping(ctx context.Context) error
}
