// Package sentiment classifies short social texts against fixed keyword
// lexicons and tallies only fragments not seen in earlier cycles.
package sentiment

import "strings"

type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

var positiveWords = []string{
	"bullish", "moon", "pump", "buy", "buying", "hold", "hodl", "long", "gem",
	"rocket", "🚀", "🌙", "💎", "🔥", "lambo", "profit", "gains", "up", "green",
	"win", "winner", "strong", "support", "love", "great", "amazing", "best",
	"good", "nice", "awesome", "excellent", "perfect", "bull", "breakout",
	"mooning", "pumping", "bullrun", "ath", "undervalued", "potential",
	"accumulate", "bullmarket", "to the moon", "lets go", "lfg", "based",
}

var negativeWords = []string{
	"bearish", "dump", "sell", "selling", "short", "crash", "scam", "rug",
	"rugpull", "down", "red", "loss", "lose", "losing", "bear", "dead", "shit",
	"trash", "bad", "worst", "terrible", "avoid", "warning", "danger",
	"overvalued", "bubble", "ponzi", "fake", "exit", "rekt", "bearmarket",
	"falling", "collapse",
	// Listed twice: a scam mention weighs double.
	"scam",
}

// PositiveWords returns a copy of the positive lexicon.
func PositiveWords() []string { return append([]string(nil), positiveWords...) }

// NegativeWords returns a copy of the negative lexicon.
func NegativeWords() []string { return append([]string(nil), negativeWords...) }

// Score counts the lexicon entries contained in text, case-insensitively.
func Score(text string) (pos, neg int) {
	lower := strings.ToLower(text)
	return countMatches(lower, positiveWords), countMatches(lower, negativeWords)
}

// Classify labels text by which lexicon has more entries present.
func Classify(text string) Label {
	pos, neg := Score(text)
	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	}
	return Neutral
}

func countMatches(text string, tokens []string) int {
	count := 0
	for _, token := range tokens {
		if strings.Contains(text, token) {
			count++
		}
	}
	return count
}
