package engine_test

import (
	"testing"

	"github.com/ridepulse/payroll-engine/engine"
)

func defaultRules() engine.DiscountRules {
	return engine.DefaultConfig().DiscountRules
}

func TestAssessPenalties_ExcessPointsCapped(t *testing.T) {
	// GIVEN: 15 accumulated points against a 10-point allowance
	// THEN: 5 excess points, discount = min(10%, 5x2%) = 10% (cap reached)

	penalties := []engine.Penalty{
		{ID: "pn-1", Points: 9, Active: true},
		{ID: "pn-2", Points: 6, Active: true},
	}

	a, err := engine.AssessPenalties(penalties, defaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.TotalPoints != 15 || a.ExcessPoints != 5 {
		t.Errorf("expected 15 total / 5 excess, got %d / %d", a.TotalPoints, a.ExcessPoints)
	}
	if !a.DiscountPercent.Equal(dec(10)) {
		t.Errorf("expected capped 10%%, got %v", a.DiscountPercent)
	}
}

func TestAssessPenalties_InactivePenaltiesIgnored(t *testing.T) {
	penalties := []engine.Penalty{
		{ID: "pn-1", Points: 50, Active: false},
		{ID: "pn-2", Points: 4, Active: true},
	}

	a, err := engine.AssessPenalties(penalties, defaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.TotalPoints != 4 {
		t.Errorf("expected 4 active points, got %d", a.TotalPoints)
	}
	if !a.DiscountPercent.IsZero() {
		t.Errorf("expected no discount within allowance, got %v", a.DiscountPercent)
	}
}

func TestAssessPenalties_DiscountNeverExceedsCap(t *testing.T) {
	// Piling on points never pushes the discount past the cap.

	rules := defaultRules()
	prev := dec(0)
	for points := 0; points <= 100; points += 5 {
		a, err := engine.AssessPenalties([]engine.Penalty{{ID: "pn", Points: points, Active: true}}, rules)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.DiscountPercent.GreaterThan(rules.MaxPercent) {
			t.Fatalf("discount %v exceeds cap at %d points", a.DiscountPercent, points)
		}
		if a.DiscountPercent.LessThan(prev) {
			t.Fatalf("discount decreased at %d points", points)
		}
		prev = a.DiscountPercent
	}
}

func TestAssessPenalties_PeriodOverridesRules(t *testing.T) {
	rules := engine.DiscountRules{AllowedPoints: 0, PerPointPercent: dec(5), MaxPercent: dec(25)}

	a, err := engine.AssessPenalties([]engine.Penalty{{ID: "pn", Points: 3, Active: true}}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.DiscountPercent.Equal(dec(15)) {
		t.Errorf("expected 15%% under override rules, got %v", a.DiscountPercent)
	}
}

func TestAssessPenalties_NegativePointsFail(t *testing.T) {
	_, err := engine.AssessPenalties([]engine.Penalty{{ID: "pn-bad", Points: -2, Active: true}}, defaultRules())

	if !engine.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}
