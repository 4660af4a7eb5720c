package recommendation

import (
	"fmt"
	"strings"

	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/pkg/common"
)

// promptItem compact item form sent to the model
type promptItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
	Serves   int    `json:"serves"`
	Score    *int   `json:"score,omitempty"`
}

// RequestOptions model parameters for the bundle request
type RequestOptions struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	IncludeScore bool
}

const systemPrompt = `You are a restaurant recommendation expert. Your task is to analyze menu items and user preferences to suggest meal deals.

Given menu items filtered by meal time and user preferences, recommend 3 different meal deals that:
1. Fit within the budget constraints (ideal: %d PKR, maximum: %d PKR)
2. Match the user's mood/craving type: %s
3. Match the user's spice level preference: %s
4. Respect dietary restrictions: %s
5. Provide variety and good value
6. Cover the required number of people: %d
7. Are appropriate for meal time: %s
8. Don't suggest items that are not in the provided menu items
9. Balance quantities against the party size instead of ordering one item per person. A large pizza feeds 2 to 3 people, so a party of 4 does not need 4 of them.

IMPORTANT FILTERING RULES:
- If mood is "healthy", exclude items from categories like Pizza, Burger, BBQ, Dessert, Fries, Onion Rings, Nachos. Prefer Salad, Grilled, Wrap, Sandwich, Soup, Smoothie categories.
- If dietary restrictions are specified, exclude any items containing those restrictions in name or category.
- Match spice level preferences based on item names.
- Prioritize items that match the meal time categories but also consider all preferences.

Return your recommendations in JSON format with this structure:
{
    "recommendations": [
        {
            "deal_number": 1,
            "items": [
                {
                    "name": "item_name",
                    "quantity": 2,
                    "reason": "why this item fits"
                }
            ],
            "total_estimated_cost": 1500,
            "explanation": "why this deal is good"
        }
    ]
}

Be practical and consider:
- Serving sizes (serves field)
- Price per item
- Category variety
- User preferences (mood, spice, dietary restrictions)
- Budget constraints
- Meal time appropriateness`

const userPrompt = `User Preferences:
- Number of people: %d
- Meal time: %s
- Mood/Craving: %s
- Spice level: %s
- Dietary restrictions: %s
- Budget level: %s
- Ideal budget: %d PKR
- Maximum budget: %d PKR

Menu Items (JSON):
%s

Please recommend 3 different meal deals based on the above information. Use only the names listed above, apply all filtering rules (mood, spice, dietary restrictions) and return only valid JSON.`

// ItemsJSON serialises items in the compact form embedded in the prompt
func ItemsJSON(items []ScoredItem, includeScore bool) (string, error) {
	out := make([]promptItem, len(items))
	for i, it := range items {
		out[i] = promptItem{
			Name:     it.Name,
			Category: it.Category,
			Price:    it.Price,
			Serves:   it.Serves,
		}
		if includeScore {
			score := it.Score
			out[i].Score = &score
		}
	}
	return common.ToIndentedJSON(out)
}

// BuildRequest builds the bundle generation request
func BuildRequest(items []ScoredItem, prefs Preferences, env BudgetEnvelope, opts RequestOptions) (*provider.Request, error) {
	itemsJSON, err := ItemsJSON(items, opts.IncludeScore)
	if err != nil {
		return nil, fmt.Errorf("serialise items: %w", err)
	}

	dietary := prefs.Dietary
	if strings.TrimSpace(dietary) == "" {
		dietary = "None"
	}

	system := fmt.Sprintf(systemPrompt,
		env.Ideal, env.Hard,
		prefs.Mood,
		prefs.Spice,
		dietary,
		prefs.PartySize,
		prefs.MealTime,
	)
	user := fmt.Sprintf(userPrompt,
		prefs.PartySize,
		prefs.MealTime,
		prefs.Mood,
		prefs.Spice,
		dietary,
		prefs.BudgetTier,
		env.Ideal,
		env.Hard,
		itemsJSON,
	)

	return &provider.Request{
		Model: opts.Model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}, nil
}
