package recommendation

import (
	"testing"

	"meal-deals/internal/core/menu"
)

func sampleMenu() []menu.Item {
	return []menu.Item{
		{ID: 1, Branch: 1, Name: "Pizza", Category: "Pizza", Portion: "Large", Price: 1200, Serves: 2},
		{ID: 2, Branch: 1, Name: "Zinger Burger", Category: "Burger", Portion: "Regular", Price: 650, Serves: 1},
		{ID: 3, Branch: 1, Name: "Fries", Category: "Fries", Portion: "Regular", Price: 250, Serves: 1},
		{ID: 4, Branch: 1, Name: "Chicken Karahi", Category: "Karahi", Portion: "Full", Price: 1400, Serves: 3},
	}
}

func scoredOf(items []menu.Item) []ScoredItem {
	return unscored(items)
}

// checkInvariants asserts the properties every emitted bundle must satisfy
func checkInvariants(t testing.TB, bundles []Bundle, offered []ScoredItem, partySize, hardBudget int) {
	t.Helper()
	names := make(map[string]bool, len(offered))
	for _, it := range offered {
		names[it.Name] = true
	}
	if len(bundles) > MaxBundles {
		t.Errorf("got %d bundles, want at most %d", len(bundles), MaxBundles)
	}
	for _, b := range bundles {
		if b.TotalCost > hardBudget {
			t.Errorf("bundle %d total %d exceeds hard budget %d", b.Number, b.TotalCost, hardBudget)
		}
		if b.Coverage() < partySize {
			t.Errorf("bundle %d covers %d, want >= %d", b.Number, b.Coverage(), partySize)
		}
		sum := 0
		for _, li := range b.Items {
			if !names[li.Name] {
				t.Errorf("bundle %d has unknown item %q", b.Number, li.Name)
			}
			if li.Quantity < 1 {
				t.Errorf("bundle %d item %q quantity %d", b.Number, li.Name, li.Quantity)
			}
			if li.TotalPrice != li.Quantity*li.UnitPrice {
				t.Errorf("bundle %d item %q line total %d", b.Number, li.Name, li.TotalPrice)
			}
			sum += li.TotalPrice
		}
		if sum != b.TotalCost {
			t.Errorf("bundle %d total %d, lines sum to %d", b.Number, b.TotalCost, sum)
		}
	}
}
