/*
penalty.go - Penalty point accumulation and capped discounting

PURPOSE:
  Converts an instructor's active penalty points into a percentage
  discount on the pre-retention total.

STEPS:
  totalPoints     = sum of points of active penalties
  excessPoints    = max(0, totalPoints - allowedPoints)
  discountPercent = min(maxPercent, excessPoints x perPointPercent)

The discount is monotonic and capped: points beyond the cap threshold
never increase it further. The currency amount is taken against the
pre-retention total by the assembler, not here.

SEE ALSO:
  - config.go: Default rules (10 allowed points, 2%/point, 10% cap)
  - engine.go: Applies the percentage to adjustedBase + bonusTotal
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PenaltyAssessment is the points picture before it becomes money.
type PenaltyAssessment struct {
	TotalPoints     int
	ExcessPoints    int
	DiscountPercent decimal.Decimal
}

// AssessPenalties sums active penalty points and derives the capped
// discount percentage under the given rules.
func AssessPenalties(penalties []Penalty, rules DiscountRules) (PenaltyAssessment, error) {
	total := 0
	for _, p := range penalties {
		if p.Points < 0 {
			return PenaltyAssessment{}, &InvalidInputError{
				RecordKind: "penalty", RecordID: p.ID,
				Detail: fmt.Sprintf("negative point count %d", p.Points),
			}
		}
		if !p.Active {
			continue
		}
		total += p.Points
	}

	excess := total - rules.AllowedPoints
	if excess < 0 {
		excess = 0
	}

	percent := rules.PerPointPercent.Mul(decimal.NewFromInt(int64(excess)))
	if percent.GreaterThan(rules.MaxPercent) {
		percent = rules.MaxPercent
	}

	return PenaltyAssessment{
		TotalPoints:     total,
		ExcessPoints:    excess,
		DiscountPercent: percent,
	}, nil
}
