package recommendation

import (
	"strings"

	"meal-deals/internal/pkg/common"
)

// RawPreferences user-facing preference fields
type RawPreferences struct {
	NumberOfPeople      int     `json:"number_of_people"`
	CravingType         string  `json:"craving_type"`
	SpiceLevel          string  `json:"spice_level"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	BudgetLevel         string  `json:"budget_level"`
	MealType            string  `json:"meal_type"`
}

// Normalize maps raw fields onto Preferences. Tags are trimmed and lower-cased,
// an absent dietary restriction becomes "".
func Normalize(raw RawPreferences) (Preferences, error) {
	if raw.NumberOfPeople < 1 {
		return Preferences{}, common.ErrInvalidPreferences.Wrap(common.NewValidationError("number_of_people must be at least 1"))
	}

	prefs := Preferences{
		PartySize:  raw.NumberOfPeople,
		Mood:       normalizeTag(raw.CravingType),
		Spice:      normalizeTag(raw.SpiceLevel),
		BudgetTier: normalizeTag(raw.BudgetLevel),
		MealTime:   normalizeTag(raw.MealType),
	}
	if raw.DietaryRestrictions != nil {
		prefs.Dietary = strings.TrimSpace(*raw.DietaryRestrictions)
	}

	required := []struct{ field, value string }{
		{"craving_type", prefs.Mood},
		{"spice_level", prefs.Spice},
		{"budget_level", prefs.BudgetTier},
		{"meal_type", prefs.MealTime},
	}
	for _, r := range required {
		if r.value == "" {
			return Preferences{}, common.ErrInvalidPreferences.Wrap(common.NewValidationError(r.field + " is required"))
		}
	}

	return prefs, nil
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
