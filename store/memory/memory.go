/*
Package memory provides an in-memory implementation of store.Store.

PURPOSE:
  Backs service and handler tests without touching disk. Behaves like
  the SQLite store for everything the tests observe: not-found errors,
  paid-payment protection, list ordering by start time then ID.

NOT FOR PRODUCTION:
  Everything is lost on process exit. Use store/sqlite for real
  deployments.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ridepulse/payroll-engine/engine"
	"github.com/ridepulse/payroll-engine/store"
)

type instructorPeriod struct {
	instructorID engine.InstructorID
	periodID     engine.PeriodID
}

type disciplinePeriod struct {
	disciplineID engine.DisciplineID
	periodID     engine.PeriodID
}

type categoryKey struct {
	instructorID engine.InstructorID
	disciplineID engine.DisciplineID
	periodID     engine.PeriodID
}

// Store implements store.Store with plain maps guarded by a mutex.
type Store struct {
	mu sync.RWMutex

	periods          map[engine.PeriodID]engine.Period
	formulas         map[disciplinePeriod]*engine.Formula
	profiles         map[engine.InstructorID]engine.InstructorProfile
	classes          map[string]engine.Class
	penalties        map[string]engine.Penalty
	covers           map[string]engine.Cover
	brandings        map[string]engine.Branding
	themeRides       map[string]engine.ThemeRide
	workshops        map[string]engine.Workshop
	events           map[string]engine.EventParticipation
	manualCategories map[categoryKey]engine.CategoryName
	adjustments      map[instructorPeriod]engine.Adjustment
	payments         map[instructorPeriod]*engine.PaymentBreakdown
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		periods:          make(map[engine.PeriodID]engine.Period),
		formulas:         make(map[disciplinePeriod]*engine.Formula),
		profiles:         make(map[engine.InstructorID]engine.InstructorProfile),
		classes:          make(map[string]engine.Class),
		penalties:        make(map[string]engine.Penalty),
		covers:           make(map[string]engine.Cover),
		brandings:        make(map[string]engine.Branding),
		themeRides:       make(map[string]engine.ThemeRide),
		workshops:        make(map[string]engine.Workshop),
		events:           make(map[string]engine.EventParticipation),
		manualCategories: make(map[categoryKey]engine.CategoryName),
		adjustments:      make(map[instructorPeriod]engine.Adjustment),
		payments:         make(map[instructorPeriod]*engine.PaymentBreakdown),
	}
}

func (s *Store) Close() error { return nil }

// =============================================================================
// PERIODS
// =============================================================================

func (s *Store) SavePeriod(_ context.Context, p engine.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[p.ID] = p
	return nil
}

func (s *Store) GetPeriod(_ context.Context, id engine.PeriodID) (engine.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[id]
	if !ok {
		return engine.Period{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPeriods(_ context.Context) ([]engine.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	periods := make([]engine.Period, 0, len(s.periods))
	for _, p := range s.periods {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Number < periods[j].Number
	})
	return periods, nil
}

// =============================================================================
// FORMULAS
// =============================================================================

func (s *Store) SaveFormula(_ context.Context, f *engine.Formula) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formulas[disciplinePeriod{f.DisciplineID, f.PeriodID}] = f
	return nil
}

func (s *Store) GetFormula(_ context.Context, disciplineID engine.DisciplineID, periodID engine.PeriodID) (*engine.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.formulas[disciplinePeriod{disciplineID, periodID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f, nil
}

func (s *Store) ListFormulas(_ context.Context, periodID engine.PeriodID) ([]*engine.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var formulas []*engine.Formula
	for key, f := range s.formulas {
		if key.periodID == periodID {
			formulas = append(formulas, f)
		}
	}
	sort.Slice(formulas, func(i, j int) bool {
		return formulas[i].DisciplineID < formulas[j].DisciplineID
	})
	return formulas, nil
}

// =============================================================================
// PROFILES
// =============================================================================

func (s *Store) SaveProfile(_ context.Context, p engine.InstructorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.InstructorID] = p
	return nil
}

func (s *Store) GetProfile(_ context.Context, id engine.InstructorID) (engine.InstructorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return engine.InstructorProfile{}, store.ErrNotFound
	}
	return p, nil
}

// =============================================================================
// RAW RECORDS
// =============================================================================

func (s *Store) SaveClass(_ context.Context, c engine.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[c.ID] = c
	return nil
}

func (s *Store) ListClasses(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var classes []engine.Class
	for _, c := range s.classes {
		if c.InstructorID == instructorID && c.PeriodID == periodID {
			classes = append(classes, c)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		if !classes[i].StartsAt.Equal(classes[j].StartsAt) {
			return classes[i].StartsAt.Before(classes[j].StartsAt)
		}
		return classes[i].ID < classes[j].ID
	})
	return classes, nil
}

func (s *Store) SavePenalty(_ context.Context, p engine.Penalty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.penalties[p.ID] = p
	return nil
}

func (s *Store) ListPenalties(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Penalty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var penalties []engine.Penalty
	for _, p := range s.penalties {
		if p.InstructorID == instructorID && p.PeriodID == periodID {
			penalties = append(penalties, p)
		}
	}
	sort.Slice(penalties, func(i, j int) bool { return penalties[i].ID < penalties[j].ID })
	return penalties, nil
}

func (s *Store) SaveCover(_ context.Context, c engine.Cover) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.covers[c.ID] = c
	return nil
}

func (s *Store) ListCovers(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Cover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var covers []engine.Cover
	for _, c := range s.covers {
		if c.InstructorID == instructorID && c.PeriodID == periodID {
			covers = append(covers, c)
		}
	}
	sort.Slice(covers, func(i, j int) bool { return covers[i].ID < covers[j].ID })
	return covers, nil
}

func (s *Store) SaveBranding(_ context.Context, b engine.Branding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brandings[b.ID] = b
	return nil
}

func (s *Store) ListBrandings(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var brandings []engine.Branding
	for _, b := range s.brandings {
		if b.InstructorID == instructorID && b.PeriodID == periodID {
			brandings = append(brandings, b)
		}
	}
	sort.Slice(brandings, func(i, j int) bool { return brandings[i].ID < brandings[j].ID })
	return brandings, nil
}

func (s *Store) SaveThemeRide(_ context.Context, tr engine.ThemeRide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themeRides[tr.ID] = tr
	return nil
}

func (s *Store) ListThemeRides(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.ThemeRide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rides []engine.ThemeRide
	for _, tr := range s.themeRides {
		if tr.InstructorID == instructorID && tr.PeriodID == periodID {
			rides = append(rides, tr)
		}
	}
	sort.Slice(rides, func(i, j int) bool { return rides[i].ID < rides[j].ID })
	return rides, nil
}

func (s *Store) SaveWorkshop(_ context.Context, w engine.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workshops[w.ID] = w
	return nil
}

func (s *Store) ListWorkshops(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var workshops []engine.Workshop
	for _, w := range s.workshops {
		if w.InstructorID == instructorID && w.PeriodID == periodID {
			workshops = append(workshops, w)
		}
	}
	sort.Slice(workshops, func(i, j int) bool { return workshops[i].ID < workshops[j].ID })
	return workshops, nil
}

func (s *Store) SaveEvent(_ context.Context, e engine.EventParticipation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return nil
}

func (s *Store) ListEvents(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.EventParticipation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []engine.EventParticipation
	for _, e := range s.events {
		if e.InstructorID == instructorID && e.PeriodID == periodID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

// =============================================================================
// MANUAL CATEGORIES AND ADJUSTMENTS
// =============================================================================

func (s *Store) SetManualCategory(_ context.Context, instructorID engine.InstructorID, disciplineID engine.DisciplineID, periodID engine.PeriodID, category engine.CategoryName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := categoryKey{instructorID, disciplineID, periodID}
	if category == "" {
		delete(s.manualCategories, key)
		return nil
	}
	s.manualCategories[key] = category
	return nil
}

func (s *Store) ManualCategories(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (map[engine.DisciplineID]engine.CategoryName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make(map[engine.DisciplineID]engine.CategoryName)
	for key, category := range s.manualCategories {
		if key.instructorID == instructorID && key.periodID == periodID {
			categories[key.disciplineID] = category
		}
	}
	return categories, nil
}

func (s *Store) SaveAdjustment(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID, a engine.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustments[instructorPeriod{instructorID, periodID}] = a
	return nil
}

func (s *Store) GetAdjustment(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.adjustments[instructorPeriod{instructorID, periodID}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) SavePayment(_ context.Context, b *engine.PaymentBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := instructorPeriod{b.InstructorID, b.PeriodID}
	if existing, ok := s.payments[key]; ok && existing.Status == engine.PaymentPaid {
		return store.ErrPaymentPaid
	}
	clone := *b
	s.payments[key] = &clone
	return nil
}

func (s *Store) GetPayment(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.PaymentBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.payments[instructorPeriod{instructorID, periodID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *Store) MarkPaymentPaid(_ context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.payments[instructorPeriod{instructorID, periodID}]
	if !ok {
		return store.ErrNotFound
	}
	b.Status = engine.PaymentPaid
	return nil
}
