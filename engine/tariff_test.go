package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridepulse/payroll-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func slot(day, hour, minute int) engine.TimePoint {
	return engine.NewSlot(2025, time.March, day, hour, minute)
}

func tieredParams() engine.PaymentParams {
	return engine.PaymentParams{
		Category:        "INSTRUCTOR",
		FullHouseTariff: dec(5000),
		Tiers: []engine.TariffTier{
			{Threshold: 30, Tariff: dec(3000)},
			{Threshold: 10, Tariff: dec(1000)},
			{Threshold: 20, Tariff: dec(2000)},
		},
	}
}

// =============================================================================
// FULL HOUSE
// =============================================================================

func TestResolveTariff_FullHouseTakesPrecedence(t *testing.T) {
	// GIVEN: A class at exactly capacity
	// WHEN: Resolving the tariff
	// THEN: Full-house tariff applies regardless of tier table contents

	params := tieredParams()

	tariff, fullHouse := engine.ResolveTariff(params, 50, 50)

	if !fullHouse {
		t.Error("expected full-house resolution at capacity")
	}
	if !tariff.Equal(dec(5000)) {
		t.Errorf("expected full-house tariff 5000, got %v", tariff)
	}
}

func TestResolveTariff_OverCapacityIsStillFullHouse(t *testing.T) {
	params := tieredParams()

	_, fullHouse := engine.ResolveTariff(params, 55, 50)

	if !fullHouse {
		t.Error("reservations beyond capacity should resolve as full house")
	}
}

func TestResolveTariff_ZeroCapacityNeverFullHouse(t *testing.T) {
	// GIVEN: capacity 0 (virtual/uncapped slot)
	// THEN: The tier walk applies; full house can never trigger

	params := tieredParams()

	tariff, fullHouse := engine.ResolveTariff(params, 15, 0)

	if fullHouse {
		t.Error("capacity 0 must never resolve as full house")
	}
	if !tariff.Equal(dec(2000)) {
		t.Errorf("expected tier tariff 2000 for 15 reservations, got %v", tariff)
	}
}

// =============================================================================
// TIER LOOKUP
// =============================================================================

func TestResolveTariff_SmallestCoveringTier(t *testing.T) {
	// GIVEN: Unsorted tiers with thresholds 10/20/30
	// THEN: The smallest tier covering the count wins

	params := tieredParams()

	cases := []struct {
		reservations int
		want         decimal.Decimal
	}{
		{0, dec(1000)},
		{10, dec(1000)},
		{11, dec(2000)},
		{20, dec(2000)},
		{25, dec(3000)},
		{30, dec(3000)},
	}

	for _, tc := range cases {
		tariff, _ := engine.ResolveTariff(params, tc.reservations, 100)
		if !tariff.Equal(tc.want) {
			t.Errorf("reservations=%d: expected %v, got %v", tc.reservations, tc.want, tariff)
		}
	}
}

func TestResolveTariff_MonotonicTierIndex(t *testing.T) {
	// Increasing reservations below capacity never decreases the tariff.

	params := tieredParams()

	prev := decimal.Zero
	for r := 0; r < 50; r++ {
		tariff, _ := engine.ResolveTariff(params, r, 100)
		if tariff.LessThan(prev) {
			t.Fatalf("tariff decreased at %d reservations: %v < %v", r, tariff, prev)
		}
		prev = tariff
	}
}

// =============================================================================
// FALLBACK
// =============================================================================

func TestResolveTariff_UncoveredCountFallsBackToFullHouse(t *testing.T) {
	// GIVEN: All tier thresholds below the reservation count
	// THEN: The full-house tariff is the safety net, not zero

	params := tieredParams()

	tariff, fullHouse := engine.ResolveTariff(params, 40, 100)

	if fullHouse {
		t.Error("fallback is not an occupancy full house")
	}
	if !tariff.Equal(dec(5000)) {
		t.Errorf("expected full-house fallback 5000, got %v", tariff)
	}
}

func TestResolveTariff_EmptyTierTableFallsBack(t *testing.T) {
	params := engine.PaymentParams{FullHouseTariff: dec(4500)}

	tariff, _ := engine.ResolveTariff(params, 12, 100)

	if !tariff.Equal(dec(4500)) {
		t.Errorf("expected fallback 4500 for empty tier table, got %v", tariff)
	}
}
