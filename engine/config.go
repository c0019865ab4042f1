/*
config.go - Explicit engine configuration with documented defaults

PURPOSE:
  The original console buried several pay-affecting constants in ambient
  state (a hard-coded retention percentage, a fixed penalty allowance, an
  implied back-to-back window). Here they live in one explicit structure
  threaded into the engine as a parameter, so tests can vary them per case
  and operators can see every default in one place.

DEFAULTS:
  RetentionPercent:   8%   (withheld from the pre-retention total)
  DiscountRules:      10 allowed points, 2% per excess point, 10% cap
  CoverRate:          30 currency units per flagged cover
  BrandingRate:       50 currency units per branding occurrence
  ThemeRideRate:      40 currency units per theme ride
  BackToBackWindow:   1 hour between class starts
  OffPeak:            before 09:00 or from 21:00

SEE ALSO:
  - engine.go: Threads Config through the computation
  - metrics.go: Uses BackToBackWindow and the OffPeak classifier
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SLOT CLASSIFICATION - Which slots count as off-peak
// =============================================================================

// SlotClassifier decides whether a class sits in an off-peak slot.
// The studio's scheduling system supplies the real classification; the
// default below is an hour-window approximation.
type SlotClassifier interface {
	IsOffPeak(c Class) bool
}

// HourWindowClassifier marks slots outside [MorningStart, EveningStart)
// hours as off-peak.
type HourWindowClassifier struct {
	MorningStart int // first peak hour, inclusive
	EveningStart int // first off-peak evening hour, inclusive
}

func (h HourWindowClassifier) IsOffPeak(c Class) bool {
	hour := c.StartsAt.Hour()
	return hour < h.MorningStart || hour >= h.EveningStart
}

// =============================================================================
// CONFIG
// =============================================================================

// Config carries every engine-level default. A zero Config is not usable;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// Withheld percentage applied when no payment-parameter row overrides it.
	RetentionPercent decimal.Decimal

	// Penalty discount rules applied when the Period does not override them.
	DiscountRules DiscountRules

	// Per-unit bonus credit rates.
	CoverRate     decimal.Decimal
	BrandingRate  decimal.Decimal
	ThemeRideRate decimal.Decimal

	// Two classes starting within this window form a back-to-back pair.
	BackToBackWindow time.Duration

	// Off-peak slot classification for the metrics aggregator.
	OffPeak SlotClassifier
}

// DefaultConfig returns the documented system defaults.
func DefaultConfig() Config {
	return Config{
		RetentionPercent: decimal.NewFromInt(8),
		DiscountRules: DiscountRules{
			AllowedPoints:   10,
			PerPointPercent: decimal.NewFromInt(2),
			MaxPercent:      decimal.NewFromInt(10),
		},
		CoverRate:        decimal.NewFromInt(30),
		BrandingRate:     decimal.NewFromInt(50),
		ThemeRideRate:    decimal.NewFromInt(40),
		BackToBackWindow: time.Hour,
		OffPeak:          HourWindowClassifier{MorningStart: 9, EveningStart: 21},
	}
}

// discountRulesFor resolves the rules for a period: per-period override
// first, then the engine defaults.
func (c Config) discountRulesFor(p Period) DiscountRules {
	if p.DiscountRules != nil {
		return *p.DiscountRules
	}
	return c.DiscountRules
}
