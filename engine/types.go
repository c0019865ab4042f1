/*
Package engine provides the instructor payment calculation core.

PURPOSE:
  This package contains the pure rules that turn one instructor's raw
  class, bonus, and penalty records for a single period into a final
  payable amount, plus the category determination that decides which
  tariff tier the instructor qualifies for per discipline.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimePoint: A specific point in time (day or slot granularity)
  - Class: One taught class with its occupancy numbers
  - Snapshot: The complete immutable input for one instructor+period
  - PaymentBreakdown: The fully itemized output of a computation

DESIGN PRINCIPLES:
  1. Purity: The engine performs no I/O and holds no mutable state
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Type Safety: Strong typing for IDs prevents mixing instructor/period IDs
  4. Auditability: Every intermediate value survives into the breakdown

USAGE:
  eng := engine.New(engine.DefaultConfig())
  breakdown, err := eng.ComputePayment(snapshot)

SEE ALSO:
  - formula.go: Category ladders and payment parameter tables
  - engine.go: The ComputePayment / DetermineCategory operations
  - config.go: Explicit defaults (retention, penalty rules, bonus rates)
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - All currency math goes through decimal
// =============================================================================

// moneyScale is the number of decimal places reported amounts are rounded to.
const moneyScale = 2

// Money builds a decimal amount from a float literal. Test and config
// convenience only; stored amounts arrive as decimals already.
func Money(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// MoneyFromInt builds a decimal amount from an integer count of currency units.
func MoneyFromInt(value int) decimal.Decimal {
	return decimal.NewFromInt(int64(value))
}

var hundred = decimal.NewFromInt(100)

// percentOf returns percent% of amount. Percentages are expressed as
// whole numbers (8 means 8%), matching how they are stored.
func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// round normalizes an amount to reporting scale (half-up).
func round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyScale)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type InstructorID string
type DisciplineID string
type PeriodID string
type VenueID string

// CategoryName identifies a tariff tier within a discipline's ladder,
// e.g. "SENIOR_AMBASSADOR", "AMBASSADOR", "INSTRUCTOR".
type CategoryName string

// =============================================================================
// TIME POINT - Day or slot granularity
// =============================================================================

type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityMinute
)

// NewDate creates a day-granularity time point (period boundaries, record dates).
func NewDate(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

// NewSlot creates a minute-granularity time point (class start slots).
func NewSlot(year int, month time.Month, day, hour, minute int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, hour, minute, 0, 0, time.UTC), Granularity: GranularityMinute}
}

func (tp TimePoint) Before(other TimePoint) bool { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) IsZero() bool                { return tp.Time.IsZero() }

// Sub returns the duration between two time points (tp - other).
func (tp TimePoint) Sub(other TimePoint) time.Duration {
	return tp.normalize().Sub(other.normalize())
}

func (tp TimePoint) Hour() int             { return tp.Time.Hour() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }

func (tp TimePoint) normalize() time.Time {
	switch tp.Granularity {
	case GranularityDay:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), tp.Time.Hour(), tp.Time.Minute(), 0, 0, time.UTC)
	}
}

func (tp TimePoint) String() string {
	switch tp.Granularity {
	case GranularityDay:
		return tp.Time.Format("2006-01-02")
	default:
		return tp.Time.Format("2006-01-02 15:04")
	}
}

// =============================================================================
// PERIOD - The payroll cycle a computation is scoped to
// =============================================================================

// DiscountRules govern how accumulated penalty points become a discount.
// A Period may override the engine defaults.
type DiscountRules struct {
	// Points an instructor may accumulate before any discount applies.
	AllowedPoints int

	// Discount percentage added per excess point (2 means 2%).
	PerPointPercent decimal.Decimal

	// Ceiling for the total discount percentage (10 means 10%).
	MaxPercent decimal.Decimal
}

// Period is one payroll cycle. Immutable during a computation.
type Period struct {
	ID          PeriodID
	Number      int
	Year        int
	Start       TimePoint
	End         TimePoint
	PaymentDate TimePoint

	// Optional per-period override of the penalty discount rules.
	DiscountRules *DiscountRules
}

// =============================================================================
// CLASS - One taught class with its occupancy numbers
// =============================================================================

// Class is a single taught class. TotalReservations >= Spots is treated
// as a full house; the engine does not enforce capacity semantics.
type Class struct {
	ID           string
	InstructorID InstructorID
	DisciplineID DisciplineID
	PeriodID     PeriodID
	VenueID      VenueID

	StartsAt   TimePoint
	WeekNumber int

	Spots              int
	TotalReservations  int
	PaidReservations   int
	WaitlistCount      int
	ComplimentaryCount int

	// Versus classes are co-taught; VersusNumber is the count of
	// co-instructors sharing the slot (including this one).
	IsVersus     bool
	VersusNumber int

	// Compliance flag from the class review workflow.
	GuidelineCompliant bool
}

// =============================================================================
// PENALTY AND BONUS-BEARING RECORDS
// =============================================================================

// Penalty is a demerit record. Only active penalties count.
type Penalty struct {
	ID           string
	InstructorID InstructorID
	PeriodID     PeriodID
	DisciplineID DisciplineID // empty = period-wide
	Points       int
	Active       bool
	AppliedAt    TimePoint
}

// Cover is a class covered for another instructor. The bonus only
// applies when the operations team flags it.
type Cover struct {
	ID           string
	InstructorID InstructorID
	PeriodID     PeriodID
	Date         TimePoint
	BonusApplies bool
}

// Branding is a counted brand-content occurrence (shoots, campaigns).
type Branding struct {
	ID           string
	InstructorID InstructorID
	PeriodID     PeriodID
	Date         TimePoint
}

// ThemeRide is a counted themed-class occurrence.
type ThemeRide struct {
	ID           string
	InstructorID InstructorID
	PeriodID     PeriodID
	Date         TimePoint
	Theme        string
}

// Workshop carries an explicit negotiated payment amount.
type Workshop struct {
	ID           string
	InstructorID InstructorID
	PeriodID     PeriodID
	Date         TimePoint
	Payment      decimal.Decimal
}

// EventParticipation links an instructor to a studio event in a period.
type EventParticipation struct {
	ID           string
	InstructorID InstructorID
	PeriodID     PeriodID
	Name         string
	Date         TimePoint
}

// =============================================================================
// ADJUSTMENT - Manual correction applied to the base amount
// =============================================================================

type AdjustmentType string

const (
	AdjustmentFixed   AdjustmentType = "fixed"      // Value is a currency amount
	AdjustmentPercent AdjustmentType = "percentage" // Value is a percentage of base
)

type Adjustment struct {
	Type  AdjustmentType
	Value decimal.Decimal
}

// =============================================================================
// INSTRUCTOR PROFILE - Slow-moving attributes used by category ladders
// =============================================================================

type InstructorProfile struct {
	InstructorID      InstructorID
	SeniorityMonths   int
	EvaluationScore   decimal.Decimal
	TrainingCompleted bool
}

// =============================================================================
// SNAPSHOT - The complete immutable input for one computation
// =============================================================================

// Snapshot bundles every record the engine needs for one instructor in
// one period. The caller assembles it (typically from the store) and the
// engine never mutates it. Identical snapshots yield identical breakdowns.
type Snapshot struct {
	InstructorID InstructorID
	Period       Period
	Profile      InstructorProfile

	// One formula per discipline the instructor taught in the period.
	Formulas map[DisciplineID]*Formula

	// Manually assigned categories bypass automatic evaluation.
	ManualCategories map[DisciplineID]CategoryName

	Classes    []Class
	Penalties  []Penalty
	Covers     []Cover
	Brandings  []Branding
	ThemeRides []ThemeRide
	Workshops  []Workshop
	Events     []EventParticipation

	// Optional manual adjustment to the base amount.
	Adjustment *Adjustment
}

// =============================================================================
// OUTPUTS
// =============================================================================

// ClassPayment is the per-class line of a breakdown.
type ClassPayment struct {
	ClassID      string
	DisciplineID DisciplineID
	Category     CategoryName

	Tariff    decimal.Decimal
	FullHouse bool

	RawAmount  decimal.Decimal // tariff x total reservations
	FixedQuota decimal.Decimal

	AppliedMinimum bool
	AppliedMaximum bool

	// Undivided is the amount before the versus split. For non-versus
	// classes Undivided == Amount.
	Undivided decimal.Decimal
	Amount    decimal.Decimal
}

type PaymentStatus string

const (
	PaymentComputed PaymentStatus = "computed"
	PaymentApproved PaymentStatus = "approved"
	PaymentPaid     PaymentStatus = "paid"
)

// PaymentBreakdown retains every intermediate value, not just the final
// figure. The audit/detail view depends on this shape.
type PaymentBreakdown struct {
	InstructorID InstructorID
	PeriodID     PeriodID

	Categories map[DisciplineID]CategoryName
	Classes    []ClassPayment

	Base         decimal.Decimal
	Adjustment   Adjustment
	AdjustedBase decimal.Decimal

	CoverBonus     decimal.Decimal
	BrandingBonus  decimal.Decimal
	ThemeRideBonus decimal.Decimal
	WorkshopBonus  decimal.Decimal
	BonusTotal     decimal.Decimal

	PenaltyPoints   int
	ExcessPoints    int
	DiscountPercent decimal.Decimal
	PenaltyAmount   decimal.Decimal

	PreRetention     decimal.Decimal
	RetentionPercent decimal.Decimal
	Retention        decimal.Decimal
	FinalPayment     decimal.Decimal

	Status PaymentStatus
}
