/*
metrics.go - Performance metrics derived from an instructor's classes

PURPOSE:
  Computes the per-discipline performance metrics that feed category
  evaluation: occupancy, teaching cadence, venue spread, back-to-back
  ("dobleteo") pairs, off-peak coverage, event participation, and
  guideline compliance.

DERIVED, READ-ONLY DATA:
  Metrics are recomputed fresh from the raw class list on every request;
  there is no caching invariant. Within one computation the engine
  aggregates once per discipline and reuses the result.

BACK-TO-BACK PAIRS:
  Classes sorted by start slot; each adjacent pair whose starts are
  within the configured window counts as one pair. Three classes in a
  row therefore count as two pairs.

SEE ALSO:
  - category.go: Evaluates the requirement ladder against these metrics
  - config.go: BackToBackWindow and the off-peak classifier
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Metrics is the aggregated performance picture for one instructor in
// one discipline and period.
type Metrics struct {
	ClassCount int

	// Sum of reservations over sum of spots; 0 when no spots.
	AverageOccupancy decimal.Decimal

	// Class count over distinct week count; 0 when no classes.
	ClassesPerWeek decimal.Decimal

	DistinctVenues  int
	BackToBackCount int
	OffPeakCount    int

	EventParticipation  bool
	GuidelineCompliance bool

	// From the instructor profile, for ladders that gate on them.
	SeniorityMonths   int
	EvaluationScore   decimal.Decimal
	TrainingCompleted bool
}

// AggregateMetrics derives the metrics from the raw class list for one
// discipline. Events are period-wide for the instructor.
func AggregateMetrics(classes []Class, events []EventParticipation, profile InstructorProfile, cfg Config) Metrics {
	m := Metrics{
		ClassCount:          len(classes),
		AverageOccupancy:    decimal.Zero,
		ClassesPerWeek:      decimal.Zero,
		EventParticipation:  len(events) > 0,
		GuidelineCompliance: true,
		SeniorityMonths:     profile.SeniorityMonths,
		EvaluationScore:     profile.EvaluationScore,
		TrainingCompleted:   profile.TrainingCompleted,
	}
	if len(classes) == 0 {
		return m
	}

	totalReservations := 0
	totalSpots := 0
	weeks := make(map[int]bool)
	venues := make(map[VenueID]bool)

	for _, c := range classes {
		totalReservations += c.TotalReservations
		totalSpots += c.Spots
		weeks[c.WeekNumber] = true
		if c.VenueID != "" {
			venues[c.VenueID] = true
		}
		if cfg.OffPeak != nil && cfg.OffPeak.IsOffPeak(c) {
			m.OffPeakCount++
		}
		if !c.GuidelineCompliant {
			m.GuidelineCompliance = false
		}
	}

	if totalSpots > 0 {
		m.AverageOccupancy = decimal.NewFromInt(int64(totalReservations)).
			Div(decimal.NewFromInt(int64(totalSpots)))
	}
	if len(weeks) > 0 {
		m.ClassesPerWeek = decimal.NewFromInt(int64(len(classes))).
			Div(decimal.NewFromInt(int64(len(weeks))))
	}
	m.DistinctVenues = len(venues)
	m.BackToBackCount = countBackToBack(classes, cfg)

	return m
}

// countBackToBack counts adjacent start-slot pairs within the window.
func countBackToBack(classes []Class, cfg Config) int {
	if len(classes) < 2 || cfg.BackToBackWindow <= 0 {
		return 0
	}

	sorted := make([]Class, len(classes))
	copy(sorted, classes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartsAt.Before(sorted[j].StartsAt)
	})

	count := 0
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].StartsAt.Sub(sorted[i-1].StartsAt)
		if gap <= cfg.BackToBackWindow {
			count++
		}
	}
	return count
}
