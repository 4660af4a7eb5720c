package reviews

import (
	"regexp"
	"strings"
)

// Sentiment review polarity
type Sentiment string

// Sentiments
const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// ParseFilter accepts only the streamable sentiments
func ParseFilter(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case Positive, Negative:
		return Sentiment(s), true
	default:
		return "", false
	}
}

// Analysis sentiment and derived star rating of one review
type Analysis struct {
	Sentiment  Sentiment `json:"sentiment"`
	StarRating int       `json:"star_rating"`
}

var positivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(excellent|amazing|great|wonderful|fantastic|delicious|love|perfect|best|awesome|outstanding|superb|tasty|yummy|satisfied|happy|pleased|recommend|highly|very good|really good)\b`),
	regexp.MustCompile(`\b(5|five)\s*(star|stars)\b`),
	regexp.MustCompile(`\b(10/10|9/10|8/10)\b`),
}

var negativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(terrible|awful|horrible|bad|worst|disgusting|hate|disappointed|poor|unacceptable|inedible|waste|regret|never again|avoid|nasty|sick)\b`),
	regexp.MustCompile(`\b(1|one)\s*(star|stars)\b`),
	regexp.MustCompile(`\b(0/10|1/10|2/10)\b`),
}

// Analyze classifies text by counting positive and negative pattern hits.
// Three or more hits on the winning side give the extreme rating.
func Analyze(text string) Analysis {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Analysis{Sentiment: Neutral, StarRating: 3}
	}

	positive := countMatches(lower, positivePatterns)
	negative := countMatches(lower, negativePatterns)

	switch {
	case positive > negative:
		if positive >= 3 {
			return Analysis{Sentiment: Positive, StarRating: 5}
		}
		return Analysis{Sentiment: Positive, StarRating: 4}
	case negative > positive:
		if negative >= 3 {
			return Analysis{Sentiment: Negative, StarRating: 1}
		}
		return Analysis{Sentiment: Negative, StarRating: 2}
	default:
		return Analysis{Sentiment: Neutral, StarRating: 3}
	}
}

func countMatches(text string, patterns []*regexp.Regexp) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	return n
}
