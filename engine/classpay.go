/*
classpay.go - Payment calculation for a single class

PURPOSE:
  Turns one Class plus the payment parameter row for the instructor's
  category into the instructor's payable amount for that class.

STEPS:
  1. Resolve the tariff (tariff.go)
  2. rawAmount = tariff x totalReservations
  3. Add the fixed quota when positive
  4. Clamp to the minimum guaranteed (when positive)
  5. Clamp to the maximum cap (when positive)
  6. Versus classes: divide by the co-instructor count

VERSUS SPLIT:
  Each co-instructor has an independent Class row for the shared slot, so
  the per-instructor amount after division, summed across all rows,
  reconstructs the undivided amount within rounding tolerance. Division
  rounds half-up to cents; residual fractional cents are NOT
  redistributed.

Pure function of its inputs. All divisors are guarded: capacity 0 means
never full-house; a versus class without co-instructors is rejected as
invalid input.

SEE ALSO:
  - tariff.go: Tariff resolution
  - engine.go: Sums class payments into the base amount
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CalculateClass computes the instructor's payable amount for one class
// under the given payment parameter row.
func CalculateClass(class Class, params PaymentParams) (ClassPayment, error) {
	if err := validateClass(class); err != nil {
		return ClassPayment{}, err
	}

	tariff, fullHouse := ResolveTariff(params, class.TotalReservations, class.Spots)

	raw := tariff.Mul(decimal.NewFromInt(int64(class.TotalReservations)))

	amount := raw
	if params.FixedQuota.IsPositive() {
		amount = amount.Add(params.FixedQuota)
	}

	appliedMin := false
	if params.MinimumGuaranteed.IsPositive() && amount.LessThan(params.MinimumGuaranteed) {
		amount = params.MinimumGuaranteed
		appliedMin = true
	}

	appliedMax := false
	if params.MaximumCap.IsPositive() && amount.GreaterThan(params.MaximumCap) {
		amount = params.MaximumCap
		appliedMax = true
	}

	undivided := round(amount)
	final := undivided
	if class.IsVersus {
		final = round(amount.Div(decimal.NewFromInt(int64(class.VersusNumber))))
	}

	return ClassPayment{
		ClassID:        class.ID,
		DisciplineID:   class.DisciplineID,
		Tariff:         tariff,
		FullHouse:      fullHouse,
		RawAmount:      round(raw),
		FixedQuota:     params.FixedQuota,
		AppliedMinimum: appliedMin,
		AppliedMaximum: appliedMax,
		Undivided:      undivided,
		Amount:         final,
	}, nil
}

// validateClass rejects structurally broken class records at the
// boundary of the single offending record.
func validateClass(class Class) error {
	if class.TotalReservations < 0 {
		return &InvalidInputError{
			RecordKind: "class", RecordID: class.ID,
			Detail: fmt.Sprintf("negative reservation count %d", class.TotalReservations),
		}
	}
	if class.Spots < 0 {
		return &InvalidInputError{
			RecordKind: "class", RecordID: class.ID,
			Detail: fmt.Sprintf("negative capacity %d", class.Spots),
		}
	}
	if class.IsVersus && class.VersusNumber <= 0 {
		return &InvalidInputError{
			RecordKind: "class", RecordID: class.ID,
			Detail: fmt.Sprintf("versus class with co-instructor count %d", class.VersusNumber),
		}
	}
	return nil
}
