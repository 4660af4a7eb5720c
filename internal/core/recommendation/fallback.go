package recommendation

import (
	"fmt"
	"strings"
)

// maxFallbackQty upper bound on one fallback line quantity
const maxFallbackQty = 3

// BuildFallback builds up to MaxBundles-startIndex bundles deterministically.
// Items are grouped by category in order of first appearance and each slot
// walks the categories rotated by its absolute slot index, taking the leading
// item of every category while the hard budget allows. A slot stops once it
// covers the party with at least two lines; slots that end empty or short on
// coverage are dropped. Bundle numbers start at startIndex+1.
func BuildFallback(items []ScoredItem, partySize, hardBudget, startIndex int) []Bundle {
	if startIndex < 0 {
		startIndex = 0
	}
	slots := MaxBundles - startIndex
	if slots <= 0 || len(items) == 0 {
		return nil
	}

	leads := categoryLeads(items)
	bundles := make([]Bundle, 0, slots)
	for i := 0; i < slots; i++ {
		slot := startIndex + i
		offset := slot % len(leads)

		var bundle Bundle
		coverage := 0
		used := make([]string, 0, len(leads))
		for k := 0; k < len(leads); k++ {
			it := leads[(offset+k)%len(leads)]

			need := partySize - coverage
			qty := clamp(ceilDiv(need, it.Serves), 1, maxFallbackQty)
			cost := qty * it.Price
			if bundle.TotalCost+cost > hardBudget {
				continue
			}

			bundle.Items = append(bundle.Items, newLine(it.Item, qty))
			bundle.TotalCost += cost
			coverage += qty * it.Serves
			used = append(used, it.Category)

			if coverage >= partySize && len(bundle.Items) >= 2 {
				break
			}
		}

		if len(bundle.Items) == 0 || coverage < partySize {
			continue
		}
		bundle.Number = slot + 1
		bundle.Explanation = fmt.Sprintf("Combo of %s picked from the top-ranked items for %d %s within budget.",
			strings.Join(used, ", "), partySize, pluralPeople(partySize))
		bundles = append(bundles, bundle)
	}

	return bundles
}

// categoryLeads first item of every category, categories in first-seen order
func categoryLeads(items []ScoredItem) []ScoredItem {
	seen := make(map[string]bool)
	leads := make([]ScoredItem, 0)
	for _, it := range items {
		key := strings.ToLower(it.Category)
		if seen[key] {
			continue
		}
		seen[key] = true
		leads = append(leads, it)
	}
	return leads
}

func pluralPeople(n int) string {
	if n == 1 {
		return "person"
	}
	return "people"
}
