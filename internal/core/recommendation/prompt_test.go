package recommendation

import (
	"strings"
	"testing"

	"meal-deals/internal/core/ai/provider"
)

func TestBuildRequest(t *testing.T) {
	items := []ScoredItem{{Item: sampleMenu()[0], Score: 5}}
	prefs := Preferences{PartySize: 4, Mood: "cheesy_mood", Spice: "medium", BudgetTier: "tight", MealTime: "dinner"}
	env := ComputeBudgetEnvelope(4, "tight", prefs.Mood)

	req, err := BuildRequest(items, prefs, env, RequestOptions{Model: "test-model", Temperature: 0.7, MaxTokens: 2048, IncludeScore: true})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	if req.Model != "test-model" || req.Temperature != 0.7 || req.MaxTokens != 2048 {
		t.Errorf("request parameters = %+v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != provider.RoleSystem || req.Messages[1].Role != provider.RoleUser {
		t.Fatalf("messages = %+v", req.Messages)
	}

	system, user := req.Messages[0].Content, req.Messages[1].Content
	for _, want := range []string{"ideal: 2400 PKR, maximum: 3120 PKR", "craving type: cheesy_mood", "restrictions: None", "number of people: 4", "meal time: dinner"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	for _, want := range []string{"- Budget level: tight", "- Maximum budget: 3120 PKR", `"name": "Pizza"`, `"score": 5`} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestBuildRequestWithoutScore(t *testing.T) {
	prefs := Preferences{PartySize: 2, Mood: "a", Spice: "b", Dietary: "nuts", BudgetTier: "medium", MealTime: "lunch"}
	req, err := BuildRequest(scoredOf(sampleMenu()), prefs, ComputeBudgetEnvelope(2, "medium", "a"), RequestOptions{})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if strings.Contains(req.Messages[1].Content, `"score"`) {
		t.Errorf("score should be omitted:\n%s", req.Messages[1].Content)
	}
	if !strings.Contains(req.Messages[0].Content, "restrictions: nuts") {
		t.Errorf("dietary restriction not rendered")
	}
}

func TestItemsJSON(t *testing.T) {
	got, err := ItemsJSON(nil, true)
	if err != nil {
		t.Fatalf("ItemsJSON() error = %v", err)
	}
	if got != "[]" {
		t.Fatalf("ItemsJSON(nil) = %q, want []", got)
	}
}
