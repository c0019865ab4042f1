/*
bonus.go - Bonus credit aggregation

PURPOSE:
  Sums the supplementary per-event payments layered on top of
  class-derived base pay: flagged cover credits, branding credits,
  theme-ride credits, and negotiated workshop payments.

Each subtotal is reported separately for auditability; their sum feeds
the payment assembler.

SEE ALSO:
  - config.go: Per-unit credit rates (cover 30, branding 50, theme ride 40)
  - engine.go: Adds the total into the breakdown
*/
package engine

import "github.com/shopspring/decimal"

// BonusTotals carries the separately reported bonus subtotals.
type BonusTotals struct {
	Cover     decimal.Decimal
	Branding  decimal.Decimal
	ThemeRide decimal.Decimal
	Workshop  decimal.Decimal
}

// Total returns the sum of all subtotals.
func (b BonusTotals) Total() decimal.Decimal {
	return b.Cover.Add(b.Branding).Add(b.ThemeRide).Add(b.Workshop)
}

// AggregateBonuses computes the subtotals for one instructor+period.
// Only covers with the bonus flag set earn the cover credit.
func AggregateBonuses(covers []Cover, brandings []Branding, themeRides []ThemeRide, workshops []Workshop, cfg Config) (BonusTotals, error) {
	flagged := 0
	for _, c := range covers {
		if c.BonusApplies {
			flagged++
		}
	}

	workshopTotal := decimal.Zero
	for _, w := range workshops {
		if w.Payment.IsNegative() {
			return BonusTotals{}, &InvalidInputError{
				RecordKind: "workshop", RecordID: w.ID,
				Detail: "negative payment amount " + w.Payment.String(),
			}
		}
		workshopTotal = workshopTotal.Add(w.Payment)
	}

	return BonusTotals{
		Cover:     cfg.CoverRate.Mul(decimal.NewFromInt(int64(flagged))),
		Branding:  cfg.BrandingRate.Mul(decimal.NewFromInt(int64(len(brandings)))),
		ThemeRide: cfg.ThemeRideRate.Mul(decimal.NewFromInt(int64(len(themeRides)))),
		Workshop:  workshopTotal,
	}, nil
}
