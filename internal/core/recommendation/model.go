package recommendation

import (
	"meal-deals/internal/core/menu"
)

// MaxBundles upper bound on bundles per recommendation
const MaxBundles = 3

// Preferences normalised user preferences
type Preferences struct {
	PartySize  int
	Mood       string
	Spice      string
	Dietary    string // empty when no restriction
	BudgetTier string
	MealTime   string
}

// ScoredItem menu item with its ranking score
type ScoredItem struct {
	menu.Item
	Score int
}

// LineItem one menu item within a bundle
type LineItem struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Quantity   int    `json:"qty"`
	ServesEach int    `json:"serves_each"`
	UnitPrice  int    `json:"unit_price"`
	TotalPrice int    `json:"total_price"`
}

// Bundle a proposed meal deal
type Bundle struct {
	Number      int        `json:"deal_number"`
	Items       []LineItem `json:"items"`
	TotalCost   int        `json:"total_cost"`
	Explanation string     `json:"explanation"`
}

// Coverage number of diners the bundle feeds
func (b Bundle) Coverage() int {
	total := 0
	for _, li := range b.Items {
		total += li.Quantity * li.ServesEach
	}
	return total
}

// Strategy how the returned bundles were produced
type Strategy string

// Strategies
const (
	StrategyGenerated Strategy = "generated"
	StrategyMixed     Strategy = "mixed"
	StrategyFallback  Strategy = "fallback"
	StrategyEmpty     Strategy = "empty"
)

// Result outcome of one recommendation
type Result struct {
	Bundles  []Bundle
	Strategy Strategy
	Budget   BudgetEnvelope
	// FallbackReason absorbed generation failure, nil when the fallback bundler was not used
	FallbackReason error
}

func newLine(it menu.Item, qty int) LineItem {
	return LineItem{
		Name:       it.Name,
		Category:   it.Category,
		Quantity:   qty,
		ServesEach: it.Serves,
		UnitPrice:  it.Price,
		TotalPrice: qty * it.Price,
	}
}

// ceilDiv integer ceil(a/b) for b > 0
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
