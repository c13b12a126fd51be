package sentiment

import (
	"fmt"
	"strconv"
)

// Tally counts labels for one cycle's new fragments.
type Tally struct {
	Positive int
	Negative int
	Neutral  int
}

func (t *Tally) Add(l Label) {
	switch l {
	case Positive:
		t.Positive++
	case Negative:
		t.Negative++
	default:
		t.Neutral++
	}
}

func (t Tally) Total() int { return t.Positive + t.Negative + t.Neutral }

// Pct renders part as a share of the total with one decimal.
func (t Tally) Pct(part int) string {
	total := t.Total()
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// TallyTexts classifies every text.
func TallyTexts(texts []string) Tally {
	var t Tally
	for _, s := range texts {
		t.Add(Classify(s))
	}
	return t
}

func itoa(n int) string { return strconv.Itoa(n) }
