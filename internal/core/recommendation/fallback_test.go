package recommendation

import (
	"reflect"
	"strings"
	"testing"

	"meal-deals/internal/core/menu"
)

func fallbackMenu() []ScoredItem {
	return scoredOf([]menu.Item{
		{Name: "Chicken Karahi", Category: "Karahi", Price: 1400, Serves: 3},
		{Name: "Zinger Burger", Category: "Burger", Price: 650, Serves: 1},
		{Name: "Garden Salad", Category: "Salad", Price: 450, Serves: 1},
		{Name: "Beef Burger", Category: "burger", Price: 700, Serves: 1},
	})
}

type wantLine struct {
	name string
	qty  int
}

func assertLines(t *testing.T, b Bundle, want []wantLine) {
	t.Helper()
	if len(b.Items) != len(want) {
		t.Fatalf("bundle %d lines = %+v, want %+v", b.Number, b.Items, want)
	}
	for i, w := range want {
		if b.Items[i].Name != w.name || b.Items[i].Quantity != w.qty {
			t.Errorf("bundle %d line %d = %s x%d, want %s x%d", b.Number, i, b.Items[i].Name, b.Items[i].Quantity, w.name, w.qty)
		}
	}
}

func TestBuildFallback(t *testing.T) {
	items := fallbackMenu()
	bundles := BuildFallback(items, 6, 4680, 0)
	if len(bundles) != 3 {
		t.Fatalf("got %d bundles, want 3", len(bundles))
	}
	checkInvariants(t, bundles, items, 6, 4680)

	assertLines(t, bundles[0], []wantLine{{"Chicken Karahi", 2}, {"Zinger Burger", 1}})
	assertLines(t, bundles[1], []wantLine{{"Zinger Burger", 3}, {"Garden Salad", 3}})
	assertLines(t, bundles[2], []wantLine{{"Garden Salad", 3}, {"Chicken Karahi", 1}})

	wantTotals := []int{3450, 3300, 2750}
	for i, b := range bundles {
		if b.Number != i+1 {
			t.Errorf("bundle %d numbered %d", i, b.Number)
		}
		if b.TotalCost != wantTotals[i] {
			t.Errorf("bundle %d total = %d, want %d", b.Number, b.TotalCost, wantTotals[i])
		}
	}
	if want := "Combo of Karahi, Burger picked from the top-ranked items for 6 people within budget."; bundles[0].Explanation != want {
		t.Errorf("explanation = %q, want %q", bundles[0].Explanation, want)
	}
}

func TestBuildFallbackDeterministic(t *testing.T) {
	first := BuildFallback(fallbackMenu(), 6, 4680, 0)
	second := BuildFallback(fallbackMenu(), 6, 4680, 0)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("BuildFallback not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestBuildFallbackStartIndex(t *testing.T) {
	bundles := BuildFallback(fallbackMenu(), 6, 4680, 2)
	if len(bundles) != 1 {
		t.Fatalf("got %d bundles, want 1", len(bundles))
	}
	if bundles[0].Number != 3 {
		t.Errorf("number = %d, want 3", bundles[0].Number)
	}
	assertLines(t, bundles[0], []wantLine{{"Garden Salad", 3}, {"Chicken Karahi", 1}})

	if got := BuildFallback(fallbackMenu(), 6, 4680, MaxBundles); len(got) != 0 {
		t.Errorf("no slots left, got %+v", got)
	}
}

func TestBuildFallbackUnreachableParty(t *testing.T) {
	items := scoredOf([]menu.Item{
		{Name: "Fries", Category: "Fries", Price: 250, Serves: 1},
		{Name: "Curly Fries", Category: "Fries", Price: 300, Serves: 1},
	})
	if got := BuildFallback(items, 10, 100000, 0); len(got) != 0 {
		t.Fatalf("expected no bundles, got %+v", got)
	}
}

func TestBuildFallbackRespectsHardBudget(t *testing.T) {
	items := fallbackMenu()
	bundles := BuildFallback(items, 2, 900, 0)
	checkInvariants(t, bundles, items, 2, 900)
	for _, b := range bundles {
		for _, li := range b.Items {
			if li.Name == "Chicken Karahi" {
				t.Errorf("bundle %d includes an unaffordable item", b.Number)
			}
		}
	}
}

func TestBuildFallbackSinglePerson(t *testing.T) {
	bundles := BuildFallback(fallbackMenu(), 1, 1000, 0)
	if len(bundles) == 0 {
		t.Fatal("expected bundles")
	}
	if !strings.HasSuffix(bundles[0].Explanation, "for 1 person within budget.") {
		t.Errorf("explanation = %q", bundles[0].Explanation)
	}
}

func TestBuildFallbackEmpty(t *testing.T) {
	if got := BuildFallback(nil, 2, 1000, 0); got != nil {
		t.Fatalf("BuildFallback(nil) = %+v", got)
	}
}
