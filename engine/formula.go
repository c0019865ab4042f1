/*
formula.go - Category ladders and payment parameter tables

PURPOSE:
  A Formula is the pay configuration for one (discipline, period) pair:
  the ordered category requirement ladder (who qualifies for which tier)
  and the payment parameter table (what each tier pays per class).

KEY INSIGHT:
  The console stores these as JSON keyed by category name. The engine
  refuses loosely-typed maps: a Formula is validated ONCE at load time
  (see factory package) and trusted everywhere after. Every category in
  the ladder must have a matching parameter row; names are unique.

LADDER ORDERING:
  Requirements are ordered strictest to weakest, e.g.
    SENIOR_AMBASSADOR -> AMBASSADOR -> JUNIOR_AMBASSADOR -> INSTRUCTOR
  The last entry is the base tier: it declares no thresholds and always
  qualifies, so evaluation can never come up empty.

OPTIONAL THRESHOLDS:
  Each requirement field is a pointer; nil means "not declared" and the
  check is skipped. This keeps one record shape for every tier while
  letting the base tier declare nothing.

SEE ALSO:
  - category.go: Evaluates a ladder against aggregated metrics
  - tariff.go: Resolves a tariff from a parameter row's tier table
  - factory/formula.go: JSON to Formula conversion and validation
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TARIFF TIERS - Per-reservation rates banded by reservation count
// =============================================================================

// TariffTier pays Tariff per reservation for classes whose reservation
// count is at most Threshold. Tiers are kept sorted ascending.
type TariffTier struct {
	Threshold int
	Tariff    decimal.Decimal
}

// =============================================================================
// PAYMENT PARAMETERS - One row per category
// =============================================================================

// PaymentParams is the payment parameter row for one category.
type PaymentParams struct {
	Category CategoryName

	// Fixed amount added to every class payment when positive.
	FixedQuota decimal.Decimal

	// Lower clamp for a single class payment (0 = no minimum).
	MinimumGuaranteed decimal.Decimal

	// Banded per-reservation rates, ascending by threshold.
	Tiers []TariffTier

	// Rate applied when the class is full, and the fallback when no tier
	// covers the reservation count.
	FullHouseTariff decimal.Decimal

	// Upper clamp for a single class payment (0 = no maximum).
	MaximumCap decimal.Decimal

	// Flat bonus added once per discipline to the base amount.
	FlatBonus decimal.Decimal

	// Optional override of the engine's default retention percentage.
	RetentionPercent *decimal.Decimal

	// Optional amount added to the base per back-to-back pair.
	BackToBackAdjustment decimal.Decimal
}

// sortedTiers returns the tier list sorted ascending by threshold
// without mutating the row.
func (p PaymentParams) sortedTiers() []TariffTier {
	tiers := make([]TariffTier, len(p.Tiers))
	copy(tiers, p.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })
	return tiers
}

// =============================================================================
// CATEGORY REQUIREMENTS - One ladder entry
// =============================================================================

// CategoryRequirement declares the thresholds an instructor must meet to
// hold a category. Nil fields are not checked.
type CategoryRequirement struct {
	Name CategoryName

	MinOccupancy      *decimal.Decimal // fraction, 0.7 = 70%
	MinClassesPerWeek *decimal.Decimal
	MinVenues         *int
	MinBackToBack     *int
	MinOffPeak        *int

	RequireEventParticipation  *bool
	RequireGuidelineCompliance *bool

	MinSeniorityMonths *int
	MinEvaluationScore *decimal.Decimal
	RequireTraining    *bool
}

// HasThresholds reports whether the requirement declares anything at all.
// The base tier declares nothing.
func (r CategoryRequirement) HasThresholds() bool {
	return r.MinOccupancy != nil ||
		r.MinClassesPerWeek != nil ||
		r.MinVenues != nil ||
		r.MinBackToBack != nil ||
		r.MinOffPeak != nil ||
		r.RequireEventParticipation != nil ||
		r.RequireGuidelineCompliance != nil ||
		r.MinSeniorityMonths != nil ||
		r.MinEvaluationScore != nil ||
		r.RequireTraining != nil
}

// =============================================================================
// FORMULA - Pay configuration for one (discipline, period)
// =============================================================================

type Formula struct {
	DisciplineID DisciplineID
	PeriodID     PeriodID

	// Strictest to weakest; the last entry is the base tier.
	Ladder []CategoryRequirement

	// One row per ladder entry, keyed by category name.
	Params map[CategoryName]PaymentParams
}

// Validate enforces the load-time invariants. A Formula that passed
// Validate never fails a ParamsFor lookup for a ladder category.
func (f *Formula) Validate() error {
	if len(f.Ladder) == 0 {
		return &ConfigurationError{
			DisciplineID: f.DisciplineID, PeriodID: f.PeriodID,
			Detail: "category ladder is empty",
		}
	}

	seen := make(map[CategoryName]bool, len(f.Ladder))
	for _, req := range f.Ladder {
		if req.Name == "" {
			return &ConfigurationError{
				DisciplineID: f.DisciplineID, PeriodID: f.PeriodID,
				Detail: "category with empty name in ladder",
			}
		}
		if seen[req.Name] {
			return &ConfigurationError{
				DisciplineID: f.DisciplineID, PeriodID: f.PeriodID,
				Detail: "duplicate category " + string(req.Name) + " in ladder",
			}
		}
		seen[req.Name] = true

		if _, ok := f.Params[req.Name]; !ok {
			return &ConfigurationError{
				DisciplineID: f.DisciplineID, PeriodID: f.PeriodID,
				Detail: "no payment parameters for category " + string(req.Name),
			}
		}
	}

	for name, row := range f.Params {
		tiers := row.sortedTiers()
		for i := 1; i < len(tiers); i++ {
			if tiers[i].Threshold == tiers[i-1].Threshold {
				return &ConfigurationError{
					DisciplineID: f.DisciplineID, PeriodID: f.PeriodID,
					Detail: "duplicate tariff tier threshold for category " + string(name),
				}
			}
		}
	}

	return nil
}

// ParamsFor returns the payment parameter row for a category.
func (f *Formula) ParamsFor(category CategoryName) (PaymentParams, error) {
	row, ok := f.Params[category]
	if !ok {
		return PaymentParams{}, &ConfigurationError{
			DisciplineID: f.DisciplineID, PeriodID: f.PeriodID,
			Detail: "no payment parameters for category " + string(category),
		}
	}
	return row, nil
}

// BaseCategory returns the always-qualifying last ladder entry.
func (f *Formula) BaseCategory() CategoryName {
	return f.Ladder[len(f.Ladder)-1].Name
}
