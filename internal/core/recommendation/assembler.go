package recommendation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"meal-deals/internal/pkg/common"
)

// generatedEnvelope top level of the model output
type generatedEnvelope struct {
	Recommendations json.RawMessage `json:"recommendations"`
}

// generatedBundle one proposed deal
type generatedBundle struct {
	Items       []json.RawMessage `json:"items"`
	Explanation json.RawMessage   `json:"explanation"`
}

// generatedLine one proposed line
type generatedLine struct {
	Name     string   `json:"name"`
	Quantity quantity `json:"quantity"`
}

// quantity tolerates numbers, numeric strings and floats. Anything else reads
// as 1.
type quantity int

// UnmarshalJSON implements json.Unmarshaler
func (q *quantity) UnmarshalJSON(data []byte) error {
	*q = 1
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		switch {
		case f > math.MaxInt32:
			*q = math.MaxInt32
		case f < math.MinInt32:
			*q = math.MinInt32
		default:
			*q = quantity(int(f))
		}
	}
	return nil
}

// AssembleBundles validates model output against the item set that was offered.
// Unknown names and over-budget lines are dropped, bundles short on coverage
// are discarded, at most MaxBundles are returned in model order. Output that
// is not JSON or lacks "recommendations" yields common.ErrGenerationParse.
func AssembleBundles(raw string, items []ScoredItem, partySize, hardBudget int) ([]Bundle, error) {
	var envelope generatedEnvelope
	if err := common.ParseJSON(common.ExtractJSONObject(raw), &envelope); err != nil {
		return nil, common.ErrGenerationParse.Wrap(err)
	}
	if len(envelope.Recommendations) == 0 || bytes.Equal(bytes.TrimSpace(envelope.Recommendations), []byte("null")) {
		return nil, common.ErrGenerationParse.Wrap(common.NewValidationError("missing recommendations"))
	}

	var proposals []json.RawMessage
	if err := json.Unmarshal(envelope.Recommendations, &proposals); err != nil {
		return nil, common.ErrGenerationParse.Wrap(err)
	}

	// first occurrence wins, items arrive best-first
	lookup := make(map[string]ScoredItem, len(items))
	for _, it := range items {
		if _, exists := lookup[it.Name]; !exists {
			lookup[it.Name] = it
		}
	}

	bundles := make([]Bundle, 0, MaxBundles)
	for _, rawBundle := range proposals {
		if len(bundles) == MaxBundles {
			break
		}

		var proposal generatedBundle
		if err := json.Unmarshal(rawBundle, &proposal); err != nil {
			continue
		}

		bundle := Bundle{Explanation: explanationText(proposal.Explanation)}
		for _, rawLine := range proposal.Items {
			var line generatedLine
			line.Quantity = 1
			if err := json.Unmarshal(rawLine, &line); err != nil {
				continue
			}

			it, ok := lookup[strings.TrimSpace(line.Name)]
			if !ok {
				continue
			}

			qty := clamp(int(line.Quantity), 1, ceilDiv(partySize, it.Serves)+1)
			cost := qty * it.Price
			if bundle.TotalCost+cost > hardBudget {
				continue
			}

			bundle.Items = append(bundle.Items, newLine(it.Item, qty))
			bundle.TotalCost += cost
		}

		if len(bundle.Items) == 0 || bundle.Coverage() < partySize {
			continue
		}
		bundle.Number = len(bundles) + 1
		bundles = append(bundles, bundle)
	}

	return bundles, nil
}

func explanationText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
