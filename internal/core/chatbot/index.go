package chatbot

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Passage one retrievable piece of context
type Passage struct {
	Source string
	Text   string
}

// Index lexical retrieval index
type Index struct {
	passages []Passage
	terms    []map[string]int
	df       map[string]int
}

// NewIndex indexes passages in the given order
func NewIndex(passages []Passage) *Index {
	idx := &Index{
		passages: passages,
		terms:    make([]map[string]int, len(passages)),
		df:       make(map[string]int),
	}
	for i, p := range passages {
		tf := make(map[string]int)
		for _, tok := range tokenize(p.Text) {
			tf[tok]++
		}
		for tok := range tf {
			idx.df[tok]++
		}
		idx.terms[i] = tf
	}
	return idx
}

// Len number of indexed passages
func (idx *Index) Len() int {
	return len(idx.passages)
}

// Search returns up to k passages sharing at least one term with query, best
// first. Each shared term contributes its idf weighted by a damped term
// frequency; ties keep index order.
func (idx *Index) Search(query string, k int) []Passage {
	if k <= 0 || len(idx.passages) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var terms []string
	for _, tok := range tokenize(query) {
		if !seen[tok] {
			seen[tok] = true
			terms = append(terms, tok)
		}
	}

	type hit struct {
		pos   int
		score float64
	}
	n := float64(len(idx.passages))
	hits := make([]hit, 0)
	for i, tf := range idx.terms {
		score := 0.0
		for _, t := range terms {
			if f := tf[t]; f > 0 {
				idf := math.Log(1 + n/float64(idx.df[t]))
				score += idf * (1 + math.Log(float64(f)))
			}
		}
		if score > 0 {
			hits = append(hits, hit{pos: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	out := make([]Passage, len(hits))
	for i, h := range hits {
		out[i] = idx.passages[h.pos]
	}
	return out
}

// stopWords carry no retrieval signal
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "do": true, "does": true, "for": true,
	"i": true, "in": true, "is": true, "it": true, "me": true, "of": true, "on": true,
	"or": true, "the": true, "to": true, "what": true, "you": true, "your": true,
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if !stopWords[f] {
			out = append(out, f)
		}
	}
	return out
}
