package engine_test

import (
	"reflect"
	"testing"

	"github.com/ridepulse/payroll-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func march2025() engine.Period {
	return engine.Period{
		ID: "2025-03", Number: 3, Year: 2025,
		Start: engine.NewDate(2025, 3, 1),
		End:   engine.NewDate(2025, 3, 31),
	}
}

// flatFormula pays a single flat tariff for every class at the base tier.
func flatFormula(disciplineID engine.DisciplineID, tariff float64) *engine.Formula {
	return &engine.Formula{
		DisciplineID: disciplineID,
		PeriodID:     "2025-03",
		Ladder:       []engine.CategoryRequirement{{Name: "INSTRUCTOR"}},
		Params: map[engine.CategoryName]engine.PaymentParams{
			"INSTRUCTOR": {Category: "INSTRUCTOR", FullHouseTariff: dec(tariff)},
		},
	}
}

// snapshotWithBase builds a snapshot whose base amount computes to
// exactly `base` via one full-house class.
func snapshotWithBase(base float64) engine.Snapshot {
	return engine.Snapshot{
		InstructorID: "ins-1",
		Period:       march2025(),
		Formulas: map[engine.DisciplineID]*engine.Formula{
			"cycling": flatFormula("cycling", base/10),
		},
		Classes: []engine.Class{
			{
				ID: "cls-1", InstructorID: "ins-1", DisciplineID: "cycling",
				PeriodID: "2025-03", Spots: 10, TotalReservations: 10,
				WeekNumber: 1, StartsAt: slot(3, 18, 0), GuidelineCompliant: true,
			},
		},
	}
}

// =============================================================================
// RETENTION AND FINAL PAYMENT
// =============================================================================

func TestComputePayment_RetentionApplied(t *testing.T) {
	// GIVEN: preRetention 1,000.00 and the default 8% retention
	// THEN: retention 80.00, final payment 920.00

	eng := engine.New(engine.DefaultConfig())

	breakdown, err := eng.ComputePayment(snapshotWithBase(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.PreRetention.Equal(dec(1000)) {
		t.Errorf("expected pre-retention 1000, got %v", breakdown.PreRetention)
	}
	if !breakdown.Retention.Equal(dec(80)) {
		t.Errorf("expected retention 80, got %v", breakdown.Retention)
	}
	if !breakdown.FinalPayment.Equal(dec(920)) {
		t.Errorf("expected final payment 920, got %v", breakdown.FinalPayment)
	}
}

func TestComputePayment_ParameterRowOverridesRetention(t *testing.T) {
	snap := snapshotWithBase(1000)
	params := snap.Formulas["cycling"].Params["INSTRUCTOR"]
	params.RetentionPercent = decPtr(10)
	snap.Formulas["cycling"].Params["INSTRUCTOR"] = params

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.Retention.Equal(dec(100)) {
		t.Errorf("expected overridden retention 100, got %v", breakdown.Retention)
	}
}

// =============================================================================
// PENALTY AGAINST THE PRE-RETENTION TOTAL
// =============================================================================

func TestComputePayment_PenaltyOnPreRetentionTotal(t *testing.T) {
	// GIVEN: base 1,500.00 and 15 penalty points (allowance 10)
	// THEN: discount 10% capped, penaltyAmount 150.00

	snap := snapshotWithBase(1500)
	snap.Penalties = []engine.Penalty{{ID: "pn-1", InstructorID: "ins-1", PeriodID: "2025-03", Points: 15, Active: true}}

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.DiscountPercent.Equal(dec(10)) {
		t.Errorf("expected 10%% discount, got %v", breakdown.DiscountPercent)
	}
	if !breakdown.PenaltyAmount.Equal(dec(150)) {
		t.Errorf("expected penalty amount 150, got %v", breakdown.PenaltyAmount)
	}
	if !breakdown.PreRetention.Equal(dec(1350)) {
		t.Errorf("expected pre-retention 1350, got %v", breakdown.PreRetention)
	}
}

// =============================================================================
// ADJUSTMENTS AND BONUSES
// =============================================================================

func TestComputePayment_PercentageAdjustment(t *testing.T) {
	snap := snapshotWithBase(1000)
	snap.Adjustment = &engine.Adjustment{Type: engine.AdjustmentPercent, Value: dec(10)}

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.AdjustedBase.Equal(dec(1100)) {
		t.Errorf("expected adjusted base 1100, got %v", breakdown.AdjustedBase)
	}
}

func TestComputePayment_FixedAdjustmentCanBeNegative(t *testing.T) {
	snap := snapshotWithBase(1000)
	snap.Adjustment = &engine.Adjustment{Type: engine.AdjustmentFixed, Value: dec(-200)}

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.AdjustedBase.Equal(dec(800)) {
		t.Errorf("expected adjusted base 800, got %v", breakdown.AdjustedBase)
	}
}

func TestComputePayment_BonusSubtotalsInBreakdown(t *testing.T) {
	snap := snapshotWithBase(1000)
	snap.Covers = []engine.Cover{
		{ID: "cv-1", BonusApplies: true},
		{ID: "cv-2", BonusApplies: true},
		{ID: "cv-3", BonusApplies: true},
	}
	snap.Brandings = []engine.Branding{{ID: "br-1"}, {ID: "br-2"}}
	snap.ThemeRides = []engine.ThemeRide{{ID: "tr-1"}}

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.BonusTotal.Equal(dec(230)) {
		t.Errorf("expected bonus total 230, got %v", breakdown.BonusTotal)
	}
	if !breakdown.PreRetention.Equal(dec(1230)) {
		t.Errorf("expected pre-retention 1230, got %v", breakdown.PreRetention)
	}
}

// =============================================================================
// CATEGORIES
// =============================================================================

func TestComputePayment_ManualCategoryBypassesEvaluation(t *testing.T) {
	// GIVEN: A manual AMBASSADOR assignment and a params row paying double
	// THEN: The manual category's row applies, metrics ignored

	snap := snapshotWithBase(1000)
	formula := snap.Formulas["cycling"]
	formula.Ladder = append([]engine.CategoryRequirement{{
		Name:         "AMBASSADOR",
		MinOccupancy: decPtr(0.99),
	}}, formula.Ladder...)
	formula.Params["AMBASSADOR"] = engine.PaymentParams{Category: "AMBASSADOR", FullHouseTariff: dec(200)}
	snap.ManualCategories = map[engine.DisciplineID]engine.CategoryName{"cycling": "AMBASSADOR"}

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if breakdown.Categories["cycling"] != "AMBASSADOR" {
		t.Errorf("expected manual AMBASSADOR, got %s", breakdown.Categories["cycling"])
	}
	if !breakdown.Base.Equal(dec(2000)) {
		t.Errorf("expected base 2000 under ambassador tariff, got %v", breakdown.Base)
	}
}

func TestDetermineCategory_UsesDisciplineClassesOnly(t *testing.T) {
	snap := snapshotWithBase(1000)
	snap.Formulas["strength"] = flatFormula("strength", 50)
	snap.Classes = append(snap.Classes, engine.Class{
		ID: "cls-s", InstructorID: "ins-1", DisciplineID: "strength",
		PeriodID: "2025-03", Spots: 10, TotalReservations: 1,
		WeekNumber: 1, StartsAt: slot(5, 7, 0), GuidelineCompliant: true,
	})

	category, err := engine.New(engine.DefaultConfig()).DetermineCategory(snap, "strength")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category != "INSTRUCTOR" {
		t.Errorf("expected INSTRUCTOR, got %s", category)
	}
}

// =============================================================================
// FAILURE MODES
// =============================================================================

func TestComputePayment_MissingFormulaFails(t *testing.T) {
	// GIVEN: A class in a discipline with no formula row
	// THEN: ConfigurationError, no partial breakdown

	snap := snapshotWithBase(1000)
	snap.Classes = append(snap.Classes, engine.Class{
		ID: "cls-x", InstructorID: "ins-1", DisciplineID: "yoga",
		PeriodID: "2025-03", Spots: 20, TotalReservations: 5,
		WeekNumber: 1, StartsAt: slot(6, 10, 0),
	})

	breakdown, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)

	if !engine.IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if breakdown != nil {
		t.Error("no partial breakdown may be returned on failure")
	}
}

func TestComputePayment_ConflictingRetentionOverridesFail(t *testing.T) {
	snap := snapshotWithBase(1000)
	paramsA := snap.Formulas["cycling"].Params["INSTRUCTOR"]
	paramsA.RetentionPercent = decPtr(10)
	snap.Formulas["cycling"].Params["INSTRUCTOR"] = paramsA

	other := flatFormula("strength", 100)
	paramsB := other.Params["INSTRUCTOR"]
	paramsB.RetentionPercent = decPtr(12)
	other.Params["INSTRUCTOR"] = paramsB
	snap.Formulas["strength"] = other
	snap.Classes = append(snap.Classes, engine.Class{
		ID: "cls-s", InstructorID: "ins-1", DisciplineID: "strength",
		PeriodID: "2025-03", Spots: 10, TotalReservations: 10,
		WeekNumber: 1, StartsAt: slot(7, 18, 0),
	})

	_, err := engine.New(engine.DefaultConfig()).ComputePayment(snap)

	if !engine.IsConfiguration(err) {
		t.Errorf("expected ConfigurationError for conflicting overrides, got %v", err)
	}
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestComputePayment_Idempotent(t *testing.T) {
	// Identical snapshots yield identical breakdowns.

	snap := snapshotWithBase(1500)
	snap.Penalties = []engine.Penalty{{ID: "pn-1", Points: 12, Active: true}}
	snap.Covers = []engine.Cover{{ID: "cv-1", BonusApplies: true}}
	snap.Adjustment = &engine.Adjustment{Type: engine.AdjustmentPercent, Value: dec(5)}

	eng := engine.New(engine.DefaultConfig())

	first, err := eng.ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.ComputePayment(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation differed:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
