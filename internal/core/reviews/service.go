package reviews

import (
	"context"
	"errors"

	"meal-deals/internal/core/menu"
	"meal-deals/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrNoMenuData no reviewed menu to stream
var ErrNoMenuData = errors.New("no menu data available")

// Source reviewed menu lookup
type Source interface {
	ReviewedMenu(ctx context.Context) ([]menu.ReviewedItem, error)
}

// ReviewFrame review as streamed to clients
type ReviewFrame struct {
	ID           int       `json:"id"`
	Text         string    `json:"text"`
	CustomerName string    `json:"customer_name"`
	Date         string    `json:"date"`
	Sentiment    Sentiment `json:"sentiment"`
	StarRating   int       `json:"star_rating"`
}

// Match one review that passed the sentiment filter
type Match struct {
	ItemID       int         `json:"item_id"`
	ItemName     string      `json:"item_name"`
	ItemCategory string      `json:"item_category"`
	Review       ReviewFrame `json:"review"`
}

// Service review listing and sentiment streaming
type Service struct {
	source Source
}

// NewService creates a Service
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Menu returns every menu item with its reviews, never nil
func (s *Service) Menu(ctx context.Context) ([]menu.ReviewedItem, error) {
	items, err := s.source.ReviewedMenu(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []menu.ReviewedItem{}
	}
	return items, nil
}

// Stream calls send for every review whose sentiment equals filter, in menu
// order, and returns the number sent. Reviews with empty text are skipped.
// ErrNoMenuData is returned when the source has nothing to stream.
func (s *Service) Stream(ctx context.Context, filter Sentiment, send func(Match) error) (int, error) {
	items, err := s.source.ReviewedMenu(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, ErrNoMenuData
	}

	sent := 0
	for _, item := range items {
		for _, r := range item.Reviews {
			if r.Review == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return sent, err
			}

			analysis := Analyze(r.Review)
			if analysis.Sentiment != filter {
				continue
			}

			if err := send(Match{
				ItemID:       item.ID,
				ItemName:     item.Name,
				ItemCategory: item.Category,
				Review: ReviewFrame{
					ID:           r.ID,
					Text:         r.Review,
					CustomerName: r.CustomerName,
					Date:         r.Date,
					Sentiment:    analysis.Sentiment,
					StarRating:   analysis.StarRating,
				},
			}); err != nil {
				return sent, err
			}
			sent++
		}
	}

	common.LogDebug("review stream finished",
		zap.String("filter", string(filter)),
		zap.Int("sent", sent),
	)
	return sent, nil
}
