package reviews

import (
	"context"
	"errors"
	"testing"

	"meal-deals/internal/core/menu"
)

type stubSource struct {
	items []menu.ReviewedItem
	err   error
}

func (s stubSource) ReviewedMenu(ctx context.Context) ([]menu.ReviewedItem, error) {
	return s.items, s.err
}

func reviewedMenu() []menu.ReviewedItem {
	return []menu.ReviewedItem{
		{ID: 1, Name: "Zinger Burger", Category: "Burger", Price: 650, Reviews: []menu.Review{
			{ID: 10, Review: "Delicious and crispy", CustomerName: "Ali", Date: "2024-01-02"},
			{ID: 11, Review: "Worst burger ever", CustomerName: "Sara", Date: "2024-01-03"},
			{ID: 12, Review: "", CustomerName: "Empty", Date: "2024-01-04"},
		}},
		{ID: 2, Name: "Fries", Category: "Fries", Price: 250},
		{ID: 3, Name: "Chicken Karahi", Category: "Karahi", Price: 1400, Reviews: []menu.Review{
			{ID: 20, Review: "Amazing, perfect spice, highly recommend", CustomerName: "Omar", Date: "2024-02-01"},
		}},
	}
}

func TestStreamFilters(t *testing.T) {
	svc := NewService(stubSource{items: reviewedMenu()})

	var got []Match
	n, err := svc.Stream(context.Background(), Positive, func(m Match) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if n != 2 || len(got) != 2 {
		t.Fatalf("sent %d, got %+v", n, got)
	}
	if got[0].ItemID != 1 || got[0].Review.ID != 10 || got[0].Review.StarRating != 4 {
		t.Errorf("first match = %+v", got[0])
	}
	if got[1].ItemName != "Chicken Karahi" || got[1].Review.StarRating != 5 || got[1].Review.CustomerName != "Omar" {
		t.Errorf("second match = %+v", got[1])
	}

	n, err = svc.Stream(context.Background(), Negative, func(m Match) error {
		if m.Review.ID != 11 {
			t.Errorf("unexpected negative match %+v", m)
		}
		return nil
	})
	if err != nil || n != 1 {
		t.Fatalf("Stream(negative) = %d, %v", n, err)
	}
}

func TestStreamNoData(t *testing.T) {
	svc := NewService(stubSource{})
	_, err := svc.Stream(context.Background(), Positive, func(Match) error { return nil })
	if !errors.Is(err, ErrNoMenuData) {
		t.Fatalf("error = %v, want ErrNoMenuData", err)
	}
}

func TestStreamStopsOnSendError(t *testing.T) {
	svc := NewService(stubSource{items: reviewedMenu()})
	closed := errors.New("closed")
	n, err := svc.Stream(context.Background(), Positive, func(Match) error { return closed })
	if !errors.Is(err, closed) || n != 0 {
		t.Fatalf("Stream() = %d, %v", n, err)
	}
}

func TestStreamSourceError(t *testing.T) {
	down := errors.New("down")
	svc := NewService(stubSource{err: down})
	if _, err := svc.Stream(context.Background(), Negative, func(Match) error { return nil }); !errors.Is(err, down) {
		t.Fatalf("error = %v", err)
	}
	if _, err := svc.Menu(context.Background()); !errors.Is(err, down) {
		t.Fatalf("Menu() error = %v", err)
	}
}

func TestMenuNeverNil(t *testing.T) {
	items, err := NewService(stubSource{}).Menu(context.Background())
	if err != nil || items == nil {
		t.Fatalf("Menu() = %v, %v", items, err)
	}
}
