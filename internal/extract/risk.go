package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/payload"
)

const (
	defaultTokenDecimals = 9
	maxTokenDecimals     = 18
	topHolderCount       = 10
)

// Assessment buckets a normalized risk score.
type Assessment string

const (
	AssessmentGood    Assessment = "Good"
	AssessmentNeutral Assessment = "Neutral"
	AssessmentWarning Assessment = "Warning"
	AssessmentBad     Assessment = "Bad"
)

var riskScorePaths = [][]string{
	{"score"},
	{"aggregate", "score"},
	{"fileMeta", "score"},
}

// RiskScore picks the lowest numeric score among the known report locations
// and folds raw scores above 100 back into range.
func RiskScore(report payload.Node) float64 {
	var (
		score float64
		found bool
	)
	for _, path := range riskScorePaths {
		v, ok := report.Get(path...).Number()
		if !ok {
			continue
		}
		if !found || v < score {
			score = v
			found = true
		}
	}
	if !found {
		return 0
	}
	return NormalizeRiskScore(score)
}

// NormalizeRiskScore rescales raw scores above 100 by 1/50 and caps at 100.
func NormalizeRiskScore(score float64) float64 {
	if score > 100 {
		return math.Min(math.Trunc(score/50), 100)
	}
	return score
}

// Assess maps a normalized score onto the four-tier scale.
func Assess(score float64) Assessment {
	switch {
	case score <= 20:
		return AssessmentGood
	case score <= 50:
		return AssessmentNeutral
	case score <= 80:
		return AssessmentWarning
	}
	return AssessmentBad
}

// Risk normalizes a RugCheck report. An absent report yields an all-NA fragment.
func Risk(report payload.Node) map[string]string {
	out := domain.Blank(domain.RiskColumns)
	if !report.IsObject() {
		return out
	}

	out[domain.ColRugName] = firstText(report.Get("tokenMeta", "name"), report.Get("token", "name"))
	out[domain.ColRugSymbol] = firstText(report.Get("tokenMeta", "symbol"), report.Get("token", "symbol"))

	score := RiskScore(report)
	out[domain.ColRugScore] = strconv.FormatFloat(score, 'f', -1, 64)
	out[domain.ColRugAssessment] = string(Assess(score))

	if supply, ok := report.Get("token", "supply").Float(); ok && supply > 0 {
		if decimals, ok := tokenDecimals(report.Get("token", "decimals")); ok {
			out[domain.ColRugSupply] = Count(supply/math.Pow10(decimals), true)
		}
	}

	out[domain.ColRugMintAuth] = authority(report, "mintAuthority")
	out[domain.ColRugFreezeAuth] = authority(report, "freezeAuthority")
	out[domain.ColRugLPLocked] = lpLocked(report.Get("markets"))
	out[domain.ColRugTop10] = topHolders(report.Get("topHolders"))
	return out
}

// tokenDecimals defaults a missing value and rejects one that is not a whole
// number in [0, maxTokenDecimals].
func tokenDecimals(v payload.Node) (int, bool) {
	if !v.Exists() {
		return defaultTokenDecimals, true
	}
	d, ok := v.Float()
	if !ok || d < 0 || d > maxTokenDecimals || d != math.Trunc(d) {
		return 0, false
	}
	return int(d), true
}

func authority(report payload.Node, key string) string {
	v := report.Get(key)
	if !v.Exists() {
		v = report.Get("token", key)
	}
	s := strings.TrimSpace(v.String(""))
	if s == "" || s == "null" {
		return "Revoked"
	}
	return "Active"
}

func lpLocked(markets payload.Node) string {
	var (
		sum float64
		n   int
	)
	for _, m := range markets.Array() {
		pct, ok := m.Get("lp", "lpLockedPct").Float()
		if !ok {
			continue
		}
		sum += pct
		n++
	}
	if n == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", sum/float64(n))
}

func topHolders(holders payload.Node) string {
	var total float64
	for i, h := range holders.Array() {
		if i == topHolderCount {
			break
		}
		total += h.Get("pct").FloatOr(0)
	}
	if total == 0 {
		return domain.Sentinel
	}
	return fmt.Sprintf("%.2f%%", total)
}

func firstText(nodes ...payload.Node) string {
	for _, n := range nodes {
		if s := text(n); s != domain.Sentinel {
			return s
		}
	}
	return domain.Sentinel
}
