package engine_test

import (
	"testing"

	"github.com/ridepulse/payroll-engine/engine"
)

func metricsConfig() engine.Config { return engine.DefaultConfig() }

// =============================================================================
// OCCUPANCY AND CADENCE
// =============================================================================

func TestAggregateMetrics_AverageOccupancy(t *testing.T) {
	// GIVEN: 45/50 and 30/50 classes
	// THEN: Occupancy = 75/100 = 0.75

	classes := []engine.Class{
		{ID: "a", Spots: 50, TotalReservations: 45, WeekNumber: 1, StartsAt: slot(3, 10, 0)},
		{ID: "b", Spots: 50, TotalReservations: 30, WeekNumber: 1, StartsAt: slot(4, 10, 0)},
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if !m.AverageOccupancy.Equal(dec(0.75)) {
		t.Errorf("expected occupancy 0.75, got %v", m.AverageOccupancy)
	}
}

func TestAggregateMetrics_NoClassesIsZero(t *testing.T) {
	m := engine.AggregateMetrics(nil, nil, engine.InstructorProfile{}, metricsConfig())

	if !m.AverageOccupancy.IsZero() || !m.ClassesPerWeek.IsZero() {
		t.Errorf("expected zero metrics for empty class list, got %+v", m)
	}
	if !m.GuidelineCompliance {
		t.Error("compliance is vacuously true with no classes")
	}
}

func TestAggregateMetrics_ClassesPerWeek(t *testing.T) {
	// GIVEN: 6 classes over 2 distinct weeks
	// THEN: 3 classes/week

	var classes []engine.Class
	for i := 0; i < 6; i++ {
		classes = append(classes, engine.Class{
			ID: string(rune('a' + i)), Spots: 20, TotalReservations: 10,
			WeekNumber: 1 + i%2, StartsAt: slot(1+i, 10, 0),
		})
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if !m.ClassesPerWeek.Equal(dec(3)) {
		t.Errorf("expected 3 classes/week, got %v", m.ClassesPerWeek)
	}
}

// =============================================================================
// VENUES, BACK-TO-BACK, OFF-PEAK
// =============================================================================

func TestAggregateMetrics_DistinctVenues(t *testing.T) {
	classes := []engine.Class{
		{ID: "a", VenueID: "polanco", WeekNumber: 1, StartsAt: slot(3, 10, 0)},
		{ID: "b", VenueID: "condesa", WeekNumber: 1, StartsAt: slot(4, 10, 0)},
		{ID: "c", VenueID: "polanco", WeekNumber: 1, StartsAt: slot(5, 10, 0)},
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if m.DistinctVenues != 2 {
		t.Errorf("expected 2 distinct venues, got %d", m.DistinctVenues)
	}
}

func TestAggregateMetrics_BackToBackWithinWindow(t *testing.T) {
	// GIVEN: Classes at 18:00, 19:00, and 21:30 the same day
	// THEN: One pair within the 1h default window; 21:30 is too far

	classes := []engine.Class{
		{ID: "a", WeekNumber: 1, StartsAt: slot(3, 18, 0)},
		{ID: "b", WeekNumber: 1, StartsAt: slot(3, 19, 0)},
		{ID: "c", WeekNumber: 1, StartsAt: slot(3, 21, 30)},
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if m.BackToBackCount != 1 {
		t.Errorf("expected 1 back-to-back pair, got %d", m.BackToBackCount)
	}
}

func TestAggregateMetrics_TripleRowCountsTwoPairs(t *testing.T) {
	classes := []engine.Class{
		{ID: "a", WeekNumber: 1, StartsAt: slot(3, 17, 0)},
		{ID: "b", WeekNumber: 1, StartsAt: slot(3, 18, 0)},
		{ID: "c", WeekNumber: 1, StartsAt: slot(3, 19, 0)},
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if m.BackToBackCount != 2 {
		t.Errorf("expected 2 pairs for three consecutive classes, got %d", m.BackToBackCount)
	}
}

func TestAggregateMetrics_OffPeakClassification(t *testing.T) {
	// Default classifier: before 09:00 or from 21:00.

	classes := []engine.Class{
		{ID: "a", WeekNumber: 1, StartsAt: slot(3, 7, 0)},  // off-peak
		{ID: "b", WeekNumber: 1, StartsAt: slot(3, 12, 0)}, // peak
		{ID: "c", WeekNumber: 1, StartsAt: slot(3, 21, 0)}, // off-peak
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if m.OffPeakCount != 2 {
		t.Errorf("expected 2 off-peak classes, got %d", m.OffPeakCount)
	}
}

// =============================================================================
// EVENTS AND COMPLIANCE
// =============================================================================

func TestAggregateMetrics_EventParticipation(t *testing.T) {
	events := []engine.EventParticipation{{ID: "ev-1", Name: "anniversary ride"}}

	m := engine.AggregateMetrics(nil, events, engine.InstructorProfile{}, metricsConfig())

	if !m.EventParticipation {
		t.Error("expected event participation with a linked event")
	}
}

func TestAggregateMetrics_ComplianceRequiresAllFlags(t *testing.T) {
	classes := []engine.Class{
		{ID: "a", WeekNumber: 1, GuidelineCompliant: true, StartsAt: slot(3, 10, 0)},
		{ID: "b", WeekNumber: 1, GuidelineCompliant: false, StartsAt: slot(4, 10, 0)},
	}

	m := engine.AggregateMetrics(classes, nil, engine.InstructorProfile{}, metricsConfig())

	if m.GuidelineCompliance {
		t.Error("one non-compliant class must fail overall compliance")
	}
}
