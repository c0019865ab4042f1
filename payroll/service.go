/*
Package payroll connects the pure engine to persistence.

PURPOSE:
  The engine computes from immutable snapshots; the API speaks in IDs.
  This service sits between them: it loads every record for an
  instructor and period from the store, builds the snapshot, runs the
  engine, and persists the resulting breakdown.

COMPUTATION FLOW:
  1. Load the period (fails if unknown)
  2. Load classes, penalties, bonus records, overrides, adjustment
  3. Load every formula stored for the period
  4. Run the engine on the assembled snapshot
  5. Persist the breakdown; a paid payment is never overwritten

SEE ALSO:
  - engine/engine.go: The computation itself
  - store/store.go: The persistence surface this builds on
*/
package payroll

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ridepulse/payroll-engine/engine"
	"github.com/ridepulse/payroll-engine/store"
)

// Service exposes the console's ID-based operations.
type Service struct {
	store  store.Store
	engine *engine.Engine
	log    *zap.Logger
}

// NewService wires a store and an engine together. A nil logger is
// replaced with a no-op one.
func NewService(st store.Store, eng *engine.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, engine: eng, log: log}
}

// Snapshot loads everything the engine needs for one instructor and
// period. A missing profile is not an error; the instructor simply has
// no seniority or evaluation data yet.
func (s *Service) Snapshot(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (engine.Snapshot, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load period %s: %w", periodID, err)
	}

	snap := engine.Snapshot{
		InstructorID: instructorID,
		Period:       period,
	}

	profile, err := s.store.GetProfile(ctx, instructorID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return engine.Snapshot{}, fmt.Errorf("failed to load profile: %w", err)
	}
	profile.InstructorID = instructorID
	snap.Profile = profile

	formulas, err := s.store.ListFormulas(ctx, periodID)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load formulas: %w", err)
	}
	snap.Formulas = make(map[engine.DisciplineID]*engine.Formula, len(formulas))
	for _, f := range formulas {
		snap.Formulas[f.DisciplineID] = f
	}

	if snap.Classes, err = s.store.ListClasses(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load classes: %w", err)
	}
	if snap.Penalties, err = s.store.ListPenalties(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load penalties: %w", err)
	}
	if snap.Covers, err = s.store.ListCovers(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load covers: %w", err)
	}
	if snap.Brandings, err = s.store.ListBrandings(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load brandings: %w", err)
	}
	if snap.ThemeRides, err = s.store.ListThemeRides(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load theme rides: %w", err)
	}
	if snap.Workshops, err = s.store.ListWorkshops(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load workshops: %w", err)
	}
	if snap.Events, err = s.store.ListEvents(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load events: %w", err)
	}
	if snap.ManualCategories, err = s.store.ManualCategories(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load manual categories: %w", err)
	}
	if snap.Adjustment, err = s.store.GetAdjustment(ctx, instructorID, periodID); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to load adjustment: %w", err)
	}

	return snap, nil
}

// DetermineCategory resolves the category an instructor holds for one
// discipline in a period, honoring any manual override.
func (s *Service) DetermineCategory(ctx context.Context, instructorID engine.InstructorID, disciplineID engine.DisciplineID, periodID engine.PeriodID) (engine.CategoryName, error) {
	snap, err := s.Snapshot(ctx, instructorID, periodID)
	if err != nil {
		return "", err
	}
	return s.engine.DetermineCategory(snap, disciplineID)
}

// ComputePayment runs the full computation for an instructor and period
// and persists the breakdown. Recomputing replaces the stored breakdown
// unless the existing one is already marked paid.
func (s *Service) ComputePayment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.PaymentBreakdown, error) {
	snap, err := s.Snapshot(ctx, instructorID, periodID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.engine.ComputePayment(snap)
	if err != nil {
		s.log.Warn("payment computation failed",
			zap.String("instructor_id", string(instructorID)),
			zap.String("period_id", string(periodID)),
			zap.Error(err))
		return nil, err
	}

	if err := s.store.SavePayment(ctx, breakdown); err != nil {
		return nil, err
	}

	s.log.Info("payment computed",
		zap.String("instructor_id", string(instructorID)),
		zap.String("period_id", string(periodID)),
		zap.String("final_payment", breakdown.FinalPayment.String()))
	return breakdown, nil
}

// GetPayment returns the stored breakdown for an instructor and period.
func (s *Service) GetPayment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.PaymentBreakdown, error) {
	return s.store.GetPayment(ctx, instructorID, periodID)
}

// MarkPaymentPaid freezes the stored breakdown; later recomputations
// are rejected.
func (s *Service) MarkPaymentPaid(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) error {
	if err := s.store.MarkPaymentPaid(ctx, instructorID, periodID); err != nil {
		return err
	}
	s.log.Info("payment marked paid",
		zap.String("instructor_id", string(instructorID)),
		zap.String("period_id", string(periodID)))
	return nil
}
