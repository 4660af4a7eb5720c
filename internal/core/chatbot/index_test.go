package chatbot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meal-deals/internal/core/menu"
)

func samplePassages() []Passage {
	return []Passage{
		{Source: "kb", Text: "We are open from 11am to 11pm every day."},
		{Source: "kb", Text: "Home delivery is free for orders above 1500 PKR."},
		{Source: "kb", Text: "Our chicken karahi is cooked fresh. Karahi takes 25 minutes."},
		{Source: "menu", Text: "Chicken Tikka is on the menu in the BBQ category."},
	}
}

func TestIndexSearch(t *testing.T) {
	idx := NewIndex(samplePassages())

	got := idx.Search("How long does the karahi take?", 8)
	if len(got) == 0 || !strings.Contains(got[0].Text, "karahi") {
		t.Fatalf("Search(karahi) = %+v", got)
	}

	// "chicken" appears twice, the rarer "karahi" decides the order
	got = idx.Search("chicken karahi", 8)
	if len(got) != 2 || got[0].Source != "kb" || got[1].Source != "menu" {
		t.Fatalf("Search(chicken karahi) = %+v", got)
	}

	if got := idx.Search("parking", 8); len(got) != 0 {
		t.Errorf("unrelated query matched %+v", got)
	}
	if got := idx.Search("what is the", 8); len(got) != 0 {
		t.Errorf("stop words matched %+v", got)
	}
}

func TestIndexSearchTopK(t *testing.T) {
	var passages []Passage
	for i := 0; i < 12; i++ {
		passages = append(passages, Passage{Text: "burger combo"})
	}
	idx := NewIndex(passages)
	if idx.Len() != 12 {
		t.Fatalf("Len() = %d", idx.Len())
	}
	if got := idx.Search("Burger", 8); len(got) != 8 {
		t.Errorf("got %d passages, want 8", len(got))
	}
	if got := idx.Search("burger", 0); got != nil {
		t.Errorf("k=0 returned %+v", got)
	}
	if got := NewIndex(nil).Search("burger", 8); got != nil {
		t.Errorf("empty index returned %+v", got)
	}
}

func TestSplitPassages(t *testing.T) {
	got := SplitPassages("first line\nstill first\r\n\r\n\n\nsecond\n\n  \n", "kb.txt")
	if len(got) != 2 || got[0].Text != "first line\nstill first" || got[1].Text != "second" || got[1].Source != "kb.txt" {
		t.Fatalf("SplitPassages() = %+v", got)
	}
}

func TestLoadKnowledge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	if err := os.WriteFile(path, []byte("Open daily.\n\nFree delivery."), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadKnowledge(path)
	if err != nil || len(got) != 2 {
		t.Fatalf("LoadKnowledge() = %+v, %v", got, err)
	}

	if _, err := LoadKnowledge(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMenuPassages(t *testing.T) {
	got := MenuPassages([]menu.Item{
		{Name: "Zinger Burger", Category: "Burger", Portion: "Regular", Price: 650, Serves: 1},
		{Name: "Fries", Category: "Sides", Price: 250, Serves: 1},
	})
	want := []string{
		"Zinger Burger is on the menu in the Burger category, portion Regular. It costs 650 PKR and serves 1.",
		"Fries is on the menu in the Sides category. It costs 250 PKR and serves 1.",
	}
	for i, p := range got {
		if p.Text != want[i] || p.Source != "menu" {
			t.Errorf("passage %d = %+v", i, p)
		}
	}
}
