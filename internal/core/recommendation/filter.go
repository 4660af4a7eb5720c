package recommendation

import (
	"sort"
	"strings"

	"meal-deals/internal/core/menu"
)

// DefaultMaxItems ranked items kept for bundling
const DefaultMaxItems = 50

// mealPriority categories favoured per meal time
var mealPriority = map[string][]string{
	"breakfast": {"Sandwich", "Omelette", "Paratha", "Tea", "Coffee", "Milkshake", "Smoothie", "Pudding", "Muffin", "Tart"},
	"lunch":     {"Rice", "Karahi", "BBQ", "Pasta", "Salad", "Wrap", "Burger", "Chicken Wings", "Chicken Tenders", "Lasagna", "Ravioli"},
	"dinner":    {"Pizza", "Burger", "BBQ", "Dessert", "Pasta", "Salad", "Sandwich", "Appetizer", "Fries", "Onion Rings", "Nachos"},
}

// defaultPriority used when the meal time is unknown
var defaultPriority = []string{"Rice", "Burger", "Pizza", "Sandwich", "Pasta", "Salad", "Wrap", "BBQ"}

var healthyPriority = []string{"Salad", "Grilled", "Wrap", "Sandwich", "Soup", "Smoothie"}

// moodExclusions categories dropped outright for a mood
var moodExclusions = map[string][]string{
	"healthy": {"Pizza", "Burger", "BBQ", "Dessert", "Fries", "Onion Rings", "Nachos"},
}

// moodKeywords name keywords that signal a mood match
var moodKeywords = map[string][]string{
	"spicy_craving": {"spicy", "hot"},
	"cheesy_mood":   {"cheese"},
	"sweet_craving": {"sweet", "dessert"},
	"healthy":       {"salad", "grill"},
	"heavy_meal":    {"karahi", "biryani"},
	"light_meal":    {"soup", "salad"},
}

// spiceKeywords name keywords that signal a spice match
var spiceKeywords = map[string][]string{
	"low":    {"mild"},
	"medium": {"regular"},
	"high":   {"hot", "spicy"},
}

// canonicalMood folds mood aliases
func canonicalMood(mood string) string {
	if mood == "healthy_choice" {
		return "healthy"
	}
	return mood
}

// FilterByMealTime keeps items in the meal time's priority categories. The full
// menu is returned when the meal time is unknown or nothing matches.
func FilterByMealTime(items []menu.Item, mealTime string) []menu.Item {
	priority, ok := mealPriority[mealTime]
	if !ok {
		return items
	}

	filtered := make([]menu.Item, 0, len(items))
	for _, it := range items {
		if inCategories(it.Category, priority) {
			filtered = append(filtered, it)
		}
	}
	if len(filtered) == 0 {
		return items
	}
	return filtered
}

// ScoreItems applies hard exclusions, scores what remains and returns the top
// maxItems by score, stable on ties. The result may be empty.
func ScoreItems(items []menu.Item, prefs Preferences, popularity map[string]int, maxItems int) []ScoredItem {
	mood := canonicalMood(prefs.Mood)

	priority := healthyPriority
	if mood != "healthy" {
		var ok bool
		if priority, ok = mealPriority[prefs.MealTime]; !ok {
			priority = defaultPriority
		}
	}
	excluded := moodExclusions[mood]
	restriction := strings.ToLower(strings.TrimSpace(prefs.Dietary))

	scored := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		if inCategories(it.Category, excluded) {
			continue
		}
		if restriction != "" &&
			(strings.Contains(strings.ToLower(it.Name), restriction) ||
				strings.Contains(strings.ToLower(it.Category), restriction)) {
			continue
		}

		score := 2*keywordMatch(it.Name, moodKeywords[mood]) +
			3*keywordMatch(it.Name, spiceKeywords[prefs.Spice]) +
			popularity[it.Name]
		if inCategories(it.Category, priority) {
			score += 5
		}
		scored = append(scored, ScoredItem{Item: withServes(it), Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if len(scored) > maxItems {
		scored = scored[:maxItems]
	}
	return scored
}

// keywordMatch 1 when name contains any keyword, case-insensitive
func keywordMatch(name string, keywords []string) int {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return 1
		}
	}
	return 0
}

func inCategories(category string, categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}

// unscored wraps items with a zero score
func unscored(items []menu.Item) []ScoredItem {
	out := make([]ScoredItem, len(items))
	for i, it := range items {
		out[i] = ScoredItem{Item: withServes(it)}
	}
	return out
}

// withServes raises a serving capacity below 1 to 1
func withServes(it menu.Item) menu.Item {
	if it.Serves < 1 {
		it.Serves = 1
	}
	return it
}
