/*
tariff.go - Tariff table resolution for a single class

PURPOSE:
  Given a payment parameter row and a class's reservation count and
  capacity, decide the per-reservation tariff to apply.

RESOLUTION ORDER:
  1. Full house: reservations >= capacity (capacity > 0) pays the
     full-house tariff regardless of the tier table.
  2. Smallest covering tier: tiers sorted ascending by threshold, first
     tier whose threshold >= reservations wins.
  3. Fallback: no covering tier (empty table or every threshold smaller)
     pays the full-house tariff. Deliberate safety net so an incomplete
     tariff table never resolves to zero.

Capacity 0 means the class can never be a full house; the tier walk and
fallback still apply.

SEE ALSO:
  - classpay.go: Multiplies the resolved tariff into a class payment
  - formula.go: TariffTier and PaymentParams definitions
*/
package engine

import "github.com/shopspring/decimal"

// ResolveTariff returns the per-reservation tariff for a class and
// whether the full-house rate was triggered by occupancy.
func ResolveTariff(params PaymentParams, reservations, capacity int) (tariff decimal.Decimal, fullHouse bool) {
	if capacity > 0 && reservations >= capacity {
		return params.FullHouseTariff, true
	}

	for _, tier := range params.sortedTiers() {
		if tier.Threshold >= reservations {
			return tier.Tariff, false
		}
	}

	// Uncovered reservation count: fall back to the full-house rate.
	return params.FullHouseTariff, false
}
