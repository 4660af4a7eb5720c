package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleDocument = `{
  "items": [
    {"id": 1, "branch": 1, "name": "Zinger Burger", "category": "Burger", "portion": "Regular", "price": 650, "serves": 1},
    {"id": 2, "branch": 1, "name": "Family Pizza", "category": "Pizza", "portion": "Large", "price": 1800, "serves": 0},
    {"id": 3, "branch": 2, "name": "Chicken Karahi", "category": "Karahi", "portion": "Half", "price": 1400, "serves": 3}
  ],
  "orders": {"1": {"Zinger Burger": 7}},
  "reviews": {"1": [{"id": 1, "review": "Great taste", "customer_name": "Ali", "date": "2024-05-02"}]}
}`

func writeSample(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileRepo(t *testing.T) {
	repo, err := LoadFileRepo(writeSample(t, sampleDocument))
	if err != nil {
		t.Fatalf("LoadFileRepo: %v", err)
	}
	ctx := context.Background()

	items, _ := repo.Menu(ctx, 1)
	if len(items) != 2 || items[0].Name != "Zinger Burger" {
		t.Fatalf("Menu(1) = %+v", items)
	}
	if items[1].Serves != 1 {
		t.Errorf("serves = %d, want 1", items[1].Serves)
	}

	if items, _ := repo.Menu(ctx, 9); len(items) != 0 {
		t.Errorf("Menu(9) = %+v, want empty", items)
	}

	counts, _ := repo.OrderCounts(ctx, 1)
	if counts["Zinger Burger"] != 7 {
		t.Errorf("counts = %v", counts)
	}
	counts["Zinger Burger"] = 0
	if again, _ := repo.OrderCounts(ctx, 1); again["Zinger Burger"] != 7 {
		t.Errorf("OrderCounts returned shared map")
	}

	reviewed, _ := repo.ReviewedMenu(ctx)
	if len(reviewed) != 3 || len(reviewed[0].Reviews) != 1 || len(reviewed[1].Reviews) != 0 {
		t.Errorf("ReviewedMenu = %+v", reviewed)
	}
}

func TestLoadFileRepoErrors(t *testing.T) {
	if _, err := LoadFileRepo(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
	if _, err := LoadFileRepo(writeSample(t, `{"items": [`)); err == nil {
		t.Errorf("expected error for malformed file")
	}
	if _, err := LoadFileRepo(writeSample(t, `{"items": [], "orders": {"main": {}}}`)); err == nil {
		t.Errorf("expected error for non-numeric branch key")
	}
}
