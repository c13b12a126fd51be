package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/payload"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const priceDecimals = 10

// Money renders a USD amount scaled by magnitude. Zero and absent are NA.
func Money(v float64, ok bool) string {
	if !ok || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Sentinel
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.2fK", sign, v/1e3)
	}
	return fmt.Sprintf("%s$%.2f", sign, v)
}

// Price renders a decimal literal with ten fixed places.
func Price(literal string, ok bool) string {
	if !ok {
		return domain.Sentinel
	}
	d, err := decimal.NewFromString(strings.TrimSpace(literal))
	if err != nil {
		return domain.Sentinel
	}
	return "$" + d.StringFixed(priceDecimals)
}

// Percent renders v with two decimals and a % suffix.
func Percent(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Sentinel
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Count renders supplies and subscriber counts.
func Count(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Sentinel
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	}
	return humanize.Comma(int64(math.Round(v)))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date reduces an ISO-8601 timestamp to its calendar day.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Sentinel
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return domain.Sentinel
}

// Integer renders a whole number without grouping.
func Integer(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Sentinel
	}
	return strconv.FormatInt(int64(v), 10)
}

func text(n payload.Node) string {
	s := strings.TrimSpace(n.String(""))
	if s == "" {
		return domain.Sentinel
	}
	return s
}

func money(n payload.Node) string   { return Money(n.Float()) }
func percent(n payload.Node) string { return Percent(n.Float()) }
func count(n payload.Node) string   { return Count(n.Float()) }
func price(n payload.Node) string   { return Price(n.Decimal()) }
