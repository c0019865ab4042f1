/*
engine.go - The payment assembler and the two public operations

PURPOSE:
  Orchestrates the full pipeline for one (instructor, period) snapshot:

    classes -> metrics -> category -> parameter row -> class payments
           -> base -> manual adjustment -> bonuses -> penalty discount
           -> retention -> final payment

ASSEMBLY ORDER (the money pipeline):
  1. adjustedBase  = base + adjustment (fixed amount or percentage of base)
  2. bonusTotal    = cover + branding + themeRide + workshop
  3. penaltyAmount = discountPercent x (adjustedBase + bonusTotal)
  4. preRetention  = adjustedBase + bonusTotal - penaltyAmount
  5. retention     = preRetention x retentionPercent
  6. finalPayment  = preRetention - retention

DETERMINISM:
  Disciplines are processed in sorted order and classes in start-slot
  order, so identical snapshots yield identical breakdowns - recomputation
  is idempotent and safe to run concurrently across instructors/periods.

FAILURE:
  A missing formula or parameter row raises ConfigurationError naming the
  (discipline, period) pair; a broken record raises InvalidInputError.
  Either way no partial breakdown is returned.

SEE ALSO:
  - classpay.go, metrics.go, category.go, bonus.go, penalty.go
  - errors.go: The error taxonomy
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Engine computes payments and categories. Stateless apart from its
// configuration; safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// =============================================================================
// DETERMINE CATEGORY
// =============================================================================

// DetermineCategory resolves the category for one discipline within the
// snapshot. A manual assignment wins outright; otherwise the metrics are
// aggregated from the discipline's classes and evaluated against the
// formula's ladder.
func (e *Engine) DetermineCategory(snap Snapshot, disciplineID DisciplineID) (CategoryName, error) {
	if manual, ok := snap.ManualCategories[disciplineID]; ok && manual != "" {
		return manual, nil
	}

	formula, ok := snap.Formulas[disciplineID]
	if !ok || formula == nil {
		return "", &ConfigurationError{
			DisciplineID: disciplineID, PeriodID: snap.Period.ID,
			Detail: "no formula configured",
		}
	}

	classes := classesForDiscipline(snap.Classes, disciplineID)
	metrics := AggregateMetrics(classes, snap.Events, snap.Profile, e.cfg)
	return EvaluateCategory(formula.Ladder, metrics), nil
}

// =============================================================================
// COMPUTE PAYMENT
// =============================================================================

// ComputePayment runs the full pipeline over the snapshot and returns the
// itemized breakdown. The snapshot is never mutated.
func (e *Engine) ComputePayment(snap Snapshot) (*PaymentBreakdown, error) {
	breakdown := &PaymentBreakdown{
		InstructorID: snap.InstructorID,
		PeriodID:     snap.Period.ID,
		Categories:   make(map[DisciplineID]CategoryName),
		Status:       PaymentComputed,
	}

	base := decimal.Zero
	var retentionOverride *decimal.Decimal

	for _, disciplineID := range sortedDisciplines(snap.Classes) {
		formula, ok := snap.Formulas[disciplineID]
		if !ok || formula == nil {
			return nil, &ConfigurationError{
				DisciplineID: disciplineID, PeriodID: snap.Period.ID,
				Detail: "no formula configured",
			}
		}

		classes := classesForDiscipline(snap.Classes, disciplineID)
		metrics := AggregateMetrics(classes, snap.Events, snap.Profile, e.cfg)

		category, ok := snap.ManualCategories[disciplineID]
		if !ok || category == "" {
			category = EvaluateCategory(formula.Ladder, metrics)
		}
		breakdown.Categories[disciplineID] = category

		params, err := formula.ParamsFor(category)
		if err != nil {
			return nil, err
		}

		for _, class := range classes {
			payment, err := CalculateClass(class, params)
			if err != nil {
				return nil, err
			}
			payment.Category = category
			breakdown.Classes = append(breakdown.Classes, payment)
			base = base.Add(payment.Amount)
		}

		if params.FlatBonus.IsPositive() {
			base = base.Add(params.FlatBonus)
		}
		if !params.BackToBackAdjustment.IsZero() && metrics.BackToBackCount > 0 {
			base = base.Add(params.BackToBackAdjustment.Mul(decimal.NewFromInt(int64(metrics.BackToBackCount))))
		}

		if params.RetentionPercent != nil {
			if retentionOverride != nil && !retentionOverride.Equal(*params.RetentionPercent) {
				return nil, &ConfigurationError{
					DisciplineID: disciplineID, PeriodID: snap.Period.ID,
					Detail: "conflicting retention overrides across disciplines",
				}
			}
			retentionOverride = params.RetentionPercent
		}
	}

	// 1. Manual adjustment on the base amount.
	adjustment := Adjustment{Type: AdjustmentFixed, Value: decimal.Zero}
	if snap.Adjustment != nil {
		adjustment = *snap.Adjustment
	}
	adjustedBase := base
	switch adjustment.Type {
	case AdjustmentPercent:
		adjustedBase = base.Add(percentOf(base, adjustment.Value))
	default:
		adjustedBase = base.Add(adjustment.Value)
	}

	// 2. Bonus subtotals.
	bonuses, err := AggregateBonuses(snap.Covers, snap.Brandings, snap.ThemeRides, snap.Workshops, e.cfg)
	if err != nil {
		return nil, err
	}
	bonusTotal := bonuses.Total()

	// 3. Penalty discount against the pre-retention total.
	assessment, err := AssessPenalties(snap.Penalties, e.cfg.discountRulesFor(snap.Period))
	if err != nil {
		return nil, err
	}
	penaltyAmount := round(percentOf(adjustedBase.Add(bonusTotal), assessment.DiscountPercent))

	// 4-6. Retention and final payment.
	retentionPercent := e.cfg.RetentionPercent
	if retentionOverride != nil {
		retentionPercent = *retentionOverride
	}
	preRetention := adjustedBase.Add(bonusTotal).Sub(penaltyAmount)
	retention := round(percentOf(preRetention, retentionPercent))

	breakdown.Base = round(base)
	breakdown.Adjustment = adjustment
	breakdown.AdjustedBase = round(adjustedBase)
	breakdown.CoverBonus = round(bonuses.Cover)
	breakdown.BrandingBonus = round(bonuses.Branding)
	breakdown.ThemeRideBonus = round(bonuses.ThemeRide)
	breakdown.WorkshopBonus = round(bonuses.Workshop)
	breakdown.BonusTotal = round(bonusTotal)
	breakdown.PenaltyPoints = assessment.TotalPoints
	breakdown.ExcessPoints = assessment.ExcessPoints
	breakdown.DiscountPercent = assessment.DiscountPercent
	breakdown.PenaltyAmount = penaltyAmount
	breakdown.PreRetention = round(preRetention)
	breakdown.RetentionPercent = retentionPercent
	breakdown.Retention = retention
	breakdown.FinalPayment = round(preRetention.Sub(retention))

	return breakdown, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// sortedDisciplines returns the distinct disciplines taught, sorted for
// deterministic iteration.
func sortedDisciplines(classes []Class) []DisciplineID {
	seen := make(map[DisciplineID]bool)
	var ids []DisciplineID
	for _, c := range classes {
		if !seen[c.DisciplineID] {
			seen[c.DisciplineID] = true
			ids = append(ids, c.DisciplineID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// classesForDiscipline filters and orders a discipline's classes by start
// slot (then ID for stable ties).
func classesForDiscipline(classes []Class, disciplineID DisciplineID) []Class {
	var out []Class
	for _, c := range classes {
		if c.DisciplineID == disciplineID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out
}
