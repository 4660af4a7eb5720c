package recommendation

import (
	"errors"
	"testing"

	"meal-deals/internal/pkg/common"
)

func TestNormalize(t *testing.T) {
	prefs, err := Normalize(RawPreferences{
		NumberOfPeople: 4,
		CravingType:    " Spicy_Craving ",
		SpiceLevel:     "HIGH",
		BudgetLevel:    "tight",
		MealType:       "Dinner",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := Preferences{PartySize: 4, Mood: "spicy_craving", Spice: "high", BudgetTier: "tight", MealTime: "dinner"}
	if prefs != want {
		t.Fatalf("Normalize() = %+v, want %+v", prefs, want)
	}
}

func TestNormalizeDietary(t *testing.T) {
	restriction := " nuts "
	prefs, err := Normalize(RawPreferences{NumberOfPeople: 1, CravingType: "a", SpiceLevel: "b", BudgetLevel: "c", MealType: "d", DietaryRestrictions: &restriction})
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Dietary != "nuts" {
		t.Fatalf("dietary = %q", prefs.Dietary)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  RawPreferences
	}{
		{"zero people", RawPreferences{NumberOfPeople: 0, CravingType: "a", SpiceLevel: "b", BudgetLevel: "c", MealType: "d"}},
		{"negative people", RawPreferences{NumberOfPeople: -2, CravingType: "a", SpiceLevel: "b", BudgetLevel: "c", MealType: "d"}},
		{"missing meal type", RawPreferences{NumberOfPeople: 2, CravingType: "a", SpiceLevel: "b", BudgetLevel: "c", MealType: "  "}},
		{"missing craving", RawPreferences{NumberOfPeople: 2, SpiceLevel: "b", BudgetLevel: "c", MealType: "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			if !errors.Is(err, common.ErrInvalidPreferences) {
				t.Fatalf("error = %v, want ErrInvalidPreferences", err)
			}
			if !common.IsValidationError(err) {
				t.Fatalf("expected validation error in chain")
			}
		})
	}
}
