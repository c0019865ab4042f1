/*
Package factory provides JSON to Go formula conversion.

PURPOSE:
  Converts JSON formula definitions into engine.Formula values. This is
  how the console stores pay configuration - operations staff edit the
  JSON per discipline and period, and the factory produces the strongly
  typed, validated structure the engine trusts.

WHY JSON?
  - Non-developers adjust ladders and tariffs without code changes
  - Database storage of formula configs (one row per discipline+period)
  - Version control for pay rule definitions

VALIDATED ONCE:
  The loosely-typed shape is checked HERE, at load time, never at use
  time: every ladder category must have a parameter row, names must be
  unique, tier thresholds must not collide. A formula that makes it past
  ParseFormula cannot fail a category lookup mid-computation.

JSON SCHEMA:
  {
    "discipline_id": "cycling",
    "period_id": "2025-03",
    "ladder": [
      {"name": "AMBASSADOR", "min_occupancy": 0.8, "min_classes_per_week": 4,
       "min_venues": 2, "require_event_participation": true},
      {"name": "INSTRUCTOR"}
    ],
    "params": [
      {"category": "AMBASSADOR", "fixed_quota": 75000, "full_house_tariff": 5000,
       "tiers": [{"threshold": 30, "tariff": 3000}, {"threshold": 45, "tariff": 4000}],
       "maximum_cap": 300000},
      {"category": "INSTRUCTOR", "full_house_tariff": 3000, "minimum_guaranteed": 40000}
    ]
  }

SEE ALSO:
  - engine/formula.go: The typed structure and its invariants
  - store/sqlite: Stores the JSON column and hydrates through this package
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ridepulse/payroll-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// FormulaJSON is the JSON representation of a formula.
type FormulaJSON struct {
	DisciplineID string            `json:"discipline_id"`
	PeriodID     string            `json:"period_id"`
	Ladder       []RequirementJSON `json:"ladder"`
	Params       []ParamsJSON      `json:"params"`
}

// RequirementJSON is one ladder entry. Omitted fields are not checked.
type RequirementJSON struct {
	Name string `json:"name"`

	MinOccupancy      *float64 `json:"min_occupancy,omitempty"`
	MinClassesPerWeek *float64 `json:"min_classes_per_week,omitempty"`
	MinVenues         *int     `json:"min_venues,omitempty"`
	MinBackToBack     *int     `json:"min_back_to_back,omitempty"`
	MinOffPeak        *int     `json:"min_off_peak,omitempty"`

	RequireEventParticipation  *bool `json:"require_event_participation,omitempty"`
	RequireGuidelineCompliance *bool `json:"require_guideline_compliance,omitempty"`

	MinSeniorityMonths *int     `json:"min_seniority_months,omitempty"`
	MinEvaluationScore *float64 `json:"min_evaluation_score,omitempty"`
	RequireTraining    *bool    `json:"require_training,omitempty"`
}

// ParamsJSON is one payment parameter row.
type ParamsJSON struct {
	Category             string     `json:"category"`
	FixedQuota           float64    `json:"fixed_quota,omitempty"`
	MinimumGuaranteed    float64    `json:"minimum_guaranteed,omitempty"`
	Tiers                []TierJSON `json:"tiers,omitempty"`
	FullHouseTariff      float64    `json:"full_house_tariff"`
	MaximumCap           float64    `json:"maximum_cap,omitempty"`
	FlatBonus            float64    `json:"flat_bonus,omitempty"`
	RetentionPercent     *float64   `json:"retention_percent,omitempty"`
	BackToBackAdjustment float64    `json:"back_to_back_adjustment,omitempty"`
}

// TierJSON is one tariff band.
type TierJSON struct {
	Threshold int     `json:"threshold"`
	Tariff    float64 `json:"tariff"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// ParseFormula converts a JSON document into a validated engine.Formula.
func ParseFormula(data []byte) (*engine.Formula, error) {
	var doc FormulaJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse formula JSON: %w", err)
	}
	return FromJSON(doc)
}

// FromJSON converts an already-decoded document into a validated formula.
func FromJSON(doc FormulaJSON) (*engine.Formula, error) {
	if doc.DisciplineID == "" {
		return nil, fmt.Errorf("formula missing discipline_id")
	}
	if doc.PeriodID == "" {
		return nil, fmt.Errorf("formula missing period_id")
	}

	formula := &engine.Formula{
		DisciplineID: engine.DisciplineID(doc.DisciplineID),
		PeriodID:     engine.PeriodID(doc.PeriodID),
		Params:       make(map[engine.CategoryName]engine.PaymentParams, len(doc.Params)),
	}

	for _, req := range doc.Ladder {
		formula.Ladder = append(formula.Ladder, engine.CategoryRequirement{
			Name:                       engine.CategoryName(req.Name),
			MinOccupancy:               decimalPtr(req.MinOccupancy),
			MinClassesPerWeek:          decimalPtr(req.MinClassesPerWeek),
			MinVenues:                  req.MinVenues,
			MinBackToBack:              req.MinBackToBack,
			MinOffPeak:                 req.MinOffPeak,
			RequireEventParticipation:  req.RequireEventParticipation,
			RequireGuidelineCompliance: req.RequireGuidelineCompliance,
			MinSeniorityMonths:         req.MinSeniorityMonths,
			MinEvaluationScore:         decimalPtr(req.MinEvaluationScore),
			RequireTraining:            req.RequireTraining,
		})
	}

	for _, row := range doc.Params {
		name := engine.CategoryName(row.Category)
		if _, dup := formula.Params[name]; dup {
			return nil, fmt.Errorf("duplicate params row for category %q", row.Category)
		}

		params := engine.PaymentParams{
			Category:             name,
			FixedQuota:           decimal.NewFromFloat(row.FixedQuota),
			MinimumGuaranteed:    decimal.NewFromFloat(row.MinimumGuaranteed),
			FullHouseTariff:      decimal.NewFromFloat(row.FullHouseTariff),
			MaximumCap:           decimal.NewFromFloat(row.MaximumCap),
			FlatBonus:            decimal.NewFromFloat(row.FlatBonus),
			RetentionPercent:     decimalPtr(row.RetentionPercent),
			BackToBackAdjustment: decimal.NewFromFloat(row.BackToBackAdjustment),
		}
		for _, tier := range row.Tiers {
			params.Tiers = append(params.Tiers, engine.TariffTier{
				Threshold: tier.Threshold,
				Tariff:    decimal.NewFromFloat(tier.Tariff),
			})
		}
		formula.Params[name] = params
	}

	if err := formula.Validate(); err != nil {
		return nil, err
	}
	return formula, nil
}

// ToJSON converts a formula back to its JSON document shape, for storage
// and API responses.
func ToJSON(f *engine.Formula) FormulaJSON {
	doc := FormulaJSON{
		DisciplineID: string(f.DisciplineID),
		PeriodID:     string(f.PeriodID),
	}

	for _, req := range f.Ladder {
		doc.Ladder = append(doc.Ladder, RequirementJSON{
			Name:                       string(req.Name),
			MinOccupancy:               floatPtr(req.MinOccupancy),
			MinClassesPerWeek:          floatPtr(req.MinClassesPerWeek),
			MinVenues:                  req.MinVenues,
			MinBackToBack:              req.MinBackToBack,
			MinOffPeak:                 req.MinOffPeak,
			RequireEventParticipation:  req.RequireEventParticipation,
			RequireGuidelineCompliance: req.RequireGuidelineCompliance,
			MinSeniorityMonths:         req.MinSeniorityMonths,
			MinEvaluationScore:         floatPtr(req.MinEvaluationScore),
			RequireTraining:            req.RequireTraining,
		})

		params := f.Params[req.Name]
		row := ParamsJSON{
			Category:             string(params.Category),
			FixedQuota:           params.FixedQuota.InexactFloat64(),
			MinimumGuaranteed:    params.MinimumGuaranteed.InexactFloat64(),
			FullHouseTariff:      params.FullHouseTariff.InexactFloat64(),
			MaximumCap:           params.MaximumCap.InexactFloat64(),
			FlatBonus:            params.FlatBonus.InexactFloat64(),
			RetentionPercent:     floatPtr(params.RetentionPercent),
			BackToBackAdjustment: params.BackToBackAdjustment.InexactFloat64(),
		}
		for _, tier := range params.Tiers {
			row.Tiers = append(row.Tiers, TierJSON{Threshold: tier.Threshold, Tariff: tier.Tariff.InexactFloat64()})
		}
		doc.Params = append(doc.Params, row)
	}

	return doc
}

// =============================================================================
// HELPERS
// =============================================================================

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
