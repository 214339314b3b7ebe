// Package checklist computes the tender summary and assembles the checklist
// sheet shown to the user: the filled-in fields, the financial breakpoints
// and the standing guidance with its policy circulars.
package checklist

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Thresholds are the four policy fractions applied to the annualized value.
type Thresholds struct {
	ATO      float64 `json:"ato_pct"`
	SingleWO float64 `json:"single_wo_pct"`
	TwoWO    float64 `json:"two_wo_pct"`
	ThreeWO  float64 `json:"three_wo_pct"`
}

// DefaultThresholds apply when a rule is missing or unreadable.
var DefaultThresholds = Thresholds{
	ATO:      0.60,
	SingleWO: 0.50,
	TwoWO:    0.40,
	ThreeWO:  0.30,
}

// ThresholdSource resolves a policy rule to a number.
type ThresholdSource interface {
	ThresholdFor(key string, def float64) float64
}

// ThresholdsFrom reads the four well-known rules from src.
func ThresholdsFrom(src ThresholdSource) Thresholds {
	return Thresholds{
		ATO:      src.ThresholdFor(types.RuleATO, DefaultThresholds.ATO),
		SingleWO: src.ThresholdFor(types.RuleSingleWO, DefaultThresholds.SingleWO),
		TwoWO:    src.ThresholdFor(types.RuleTwoWO, DefaultThresholds.TwoWO),
		ThreeWO:  src.ThresholdFor(types.RuleThreeWO, DefaultThresholds.ThreeWO),
	}
}

// Summary holds the annualized estimate and the breakpoints derived from it,
// at full precision.
type Summary struct {
	Annualized float64 `json:"annualized"`
	ATO        float64 `json:"ato"`
	SingleWO   float64 `json:"single_wo"`
	TwoWO      float64 `json:"two_wo"`
	ThreeWO    float64 `json:"three_wo"`
}

// ComputeSummary spreads a multi-year estimate over its years and applies
// each threshold. A period of one year or less leaves the estimate as is.
func ComputeSummary(estimate float64, years int, th Thresholds) Summary {
	annualized := estimate
	if years > 1 {
		annualized = estimate / float64(years)
	}
	return Summary{
		Annualized: annualized,
		ATO:        annualized * th.ATO,
		SingleWO:   annualized * th.SingleWO,
		TwoWO:      annualized * th.TwoWO,
		ThreeWO:    annualized * th.ThreeWO,
	}
}

// Line is one labelled amount of a Summary.
type Line struct {
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

// Lines returns the summary in display order.
func (s Summary) Lines() []Line {
	return []Line{
		newLine("Annualized value", s.Annualized),
		newLine("ATO value", s.ATO),
		newLine("Single WO", s.SingleWO),
		newLine("Two WO", s.TwoWO),
		newLine("Three WO", s.ThreeWO),
	}
}

func newLine(label string, v float64) Line {
	return Line{Label: label, Amount: v, Formatted: FormatAmount(v)}
}

// FormatAmount renders v with two decimals and comma thousands separators.
// The integer digits are grouped as a big.Int so amounts beyond the int64
// range keep their value.
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return s
	}
	return humanize.BigComma(n) + "." + frac
}
