package recommendation

// perPersonBudget currency units per diner before the tier multiplier
const perPersonBudget = 600

// budgetMultipliers tier multipliers in tenths, unknown tiers use 10
var budgetMultipliers = map[string]int{
	"tight":       10,
	"medium":      14,
	"comfortable": 18,
}

// BudgetEnvelope low <= ideal <= hard spending bounds
type BudgetEnvelope struct {
	Low   int `json:"low"`
	Ideal int `json:"ideal"`
	Hard  int `json:"hard"`
}

// ComputeBudgetEnvelope derives the envelope for a party. Integer arithmetic
// keeps the truncation exact. mood does not currently change the envelope.
func ComputeBudgetEnvelope(partySize int, tier, mood string) BudgetEnvelope {
	if partySize < 0 {
		partySize = 0
	}
	multiplier, ok := budgetMultipliers[tier]
	if !ok {
		multiplier = 10
	}

	ideal := partySize * perPersonBudget * multiplier / 10
	return BudgetEnvelope{
		Low:   ideal * 7 / 10,
		Ideal: ideal,
		Hard:  ideal * 13 / 10,
	}
}
