package engine_test

import (
	"testing"

	"github.com/ridepulse/payroll-engine/engine"
)

// =============================================================================
// QUOTA + VARIABLE AMOUNT
// =============================================================================

func TestCalculateClass_QuotaPlusVariable(t *testing.T) {
	// GIVEN: AMBASSADOR row with fixed quota 75,000 and a 4,000 tariff
	//        bracket, a class with 12 reservations
	// THEN: variable = 12 x 4,000 = 48,000; total = 123,000

	params := engine.PaymentParams{
		Category:        "AMBASSADOR",
		FixedQuota:      dec(75000),
		FullHouseTariff: dec(5000),
		Tiers: []engine.TariffTier{
			{Threshold: 45, Tariff: dec(4000)},
		},
	}
	class := engine.Class{
		ID: "cls-1", Spots: 50, TotalReservations: 12,
		StartsAt: slot(3, 18, 0),
	}

	payment, err := engine.CalculateClass(class, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.RawAmount.Equal(dec(48000)) {
		t.Errorf("expected raw amount 48000, got %v", payment.RawAmount)
	}
	if !payment.Amount.Equal(dec(123000)) {
		t.Errorf("expected total 123000, got %v", payment.Amount)
	}
}

// =============================================================================
// CLAMPS
// =============================================================================

func TestCalculateClass_MinimumGuaranteed(t *testing.T) {
	// GIVEN: A near-empty class below the guaranteed floor
	// THEN: The amount is lifted to the minimum

	params := engine.PaymentParams{
		MinimumGuaranteed: dec(40000),
		FullHouseTariff:   dec(5000),
		Tiers:             []engine.TariffTier{{Threshold: 50, Tariff: dec(1000)}},
	}
	class := engine.Class{ID: "cls-2", Spots: 50, TotalReservations: 3}

	payment, err := engine.CalculateClass(class, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.AppliedMinimum {
		t.Error("expected minimum clamp to apply")
	}
	if !payment.Amount.Equal(dec(40000)) {
		t.Errorf("expected 40000, got %v", payment.Amount)
	}
}

func TestCalculateClass_MaximumCap(t *testing.T) {
	params := engine.PaymentParams{
		MaximumCap:      dec(100000),
		FullHouseTariff: dec(5000),
	}
	class := engine.Class{ID: "cls-3", Spots: 50, TotalReservations: 50}

	payment, err := engine.CalculateClass(class, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.AppliedMaximum {
		t.Error("expected maximum clamp to apply")
	}
	if !payment.Amount.Equal(dec(100000)) {
		t.Errorf("expected 100000, got %v", payment.Amount)
	}
}

func TestCalculateClass_ClampBounds(t *testing.T) {
	// For positive, non-conflicting bounds the amount always lands in
	// [minimum, maximum].

	params := engine.PaymentParams{
		MinimumGuaranteed: dec(30000),
		MaximumCap:        dec(90000),
		FixedQuota:        dec(10000),
		FullHouseTariff:   dec(6000),
		Tiers: []engine.TariffTier{
			{Threshold: 10, Tariff: dec(1000)},
			{Threshold: 30, Tariff: dec(2500)},
		},
	}

	for r := 0; r <= 60; r++ {
		class := engine.Class{ID: "cls-b", Spots: 60, TotalReservations: r}
		payment, err := engine.CalculateClass(class, params)
		if err != nil {
			t.Fatalf("unexpected error at %d reservations: %v", r, err)
		}
		if payment.Amount.LessThan(params.MinimumGuaranteed) || payment.Amount.GreaterThan(params.MaximumCap) {
			t.Fatalf("amount %v out of bounds at %d reservations", payment.Amount, r)
		}
	}
}

// =============================================================================
// VERSUS SPLIT
// =============================================================================

func TestCalculateClass_VersusSplitsEvenly(t *testing.T) {
	// GIVEN: A versus slot with 2 instructors and an undivided 200,000
	// THEN: Each instructor's row computes 100,000

	params := engine.PaymentParams{
		FullHouseTariff: dec(4000),
	}
	class := engine.Class{
		ID: "cls-vs", Spots: 50, TotalReservations: 50,
		IsVersus: true, VersusNumber: 2,
	}

	payment, err := engine.CalculateClass(class, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.Undivided.Equal(dec(200000)) {
		t.Errorf("expected undivided 200000, got %v", payment.Undivided)
	}
	if !payment.Amount.Equal(dec(100000)) {
		t.Errorf("expected per-instructor 100000, got %v", payment.Amount)
	}
}

func TestCalculateClass_VersusConservation(t *testing.T) {
	// N rows with versusNumber=N sum back to the undivided amount within
	// N-1 minor currency units.

	params := engine.PaymentParams{
		FixedQuota:      dec(100.01),
		FullHouseTariff: dec(33.33),
	}

	for n := 2; n <= 5; n++ {
		single := engine.Class{ID: "cls-solo", Spots: 10, TotalReservations: 10}
		solo, err := engine.CalculateClass(single, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		shared := single
		shared.IsVersus = true
		shared.VersusNumber = n

		sum := dec(0)
		for i := 0; i < n; i++ {
			p, err := engine.CalculateClass(shared, params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sum = sum.Add(p.Amount)
		}

		tolerance := dec(0.01).Mul(dec(float64(n - 1)))
		diff := sum.Sub(solo.Amount).Abs()
		if diff.GreaterThan(tolerance) {
			t.Errorf("n=%d: sum %v vs undivided %v exceeds tolerance %v", n, sum, solo.Amount, tolerance)
		}
	}
}

// =============================================================================
// INVALID INPUT
// =============================================================================

func TestCalculateClass_VersusWithoutCoInstructorsFails(t *testing.T) {
	class := engine.Class{ID: "cls-bad", Spots: 50, TotalReservations: 20, IsVersus: true, VersusNumber: 0}

	_, err := engine.CalculateClass(class, engine.PaymentParams{FullHouseTariff: dec(1)})

	if !engine.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}

func TestCalculateClass_NegativeReservationsFail(t *testing.T) {
	class := engine.Class{ID: "cls-neg", Spots: 50, TotalReservations: -1}

	_, err := engine.CalculateClass(class, engine.PaymentParams{FullHouseTariff: dec(1)})

	if !engine.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}
