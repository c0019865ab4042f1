/*
Package store defines the persistence interface for the payroll console.

PURPOSE:
  The engine is pure and never touches a database; this package is the
  external collaborator that owns record storage. The payroll service
  assembles engine snapshots from a Store, and the API writes records
  through it.

KEY DESIGN POINTS:
  - Formulas are stored as their JSON document and hydrated through the
    factory, so every formula read from the store is already validated.
  - Computed payments are overwritten on recomputation until marked
    paid; the new breakdown simply supersedes the old one.
  - Reads used for a computation happen before the engine runs; the
    engine itself only ever sees the immutable snapshot.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - store/memory: In-memory store for tests

SEE ALSO:
  - payroll/service.go: Snapshot assembly on top of this interface
  - store/sqlite/sqlite.go: Concrete implementation
*/
package store

import (
	"context"
	"errors"

	"github.com/ridepulse/payroll-engine/engine"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrPaymentPaid is returned when trying to overwrite a payment that has
// already been marked paid.
var ErrPaymentPaid = errors.New("payment already marked paid")

// Store is the console's persistence surface.
type Store interface {
	// Periods
	SavePeriod(ctx context.Context, p engine.Period) error
	GetPeriod(ctx context.Context, id engine.PeriodID) (engine.Period, error)
	ListPeriods(ctx context.Context) ([]engine.Period, error)

	// Formulas, keyed by (discipline, period)
	SaveFormula(ctx context.Context, f *engine.Formula) error
	GetFormula(ctx context.Context, disciplineID engine.DisciplineID, periodID engine.PeriodID) (*engine.Formula, error)
	ListFormulas(ctx context.Context, periodID engine.PeriodID) ([]*engine.Formula, error)

	// Instructor profiles
	SaveProfile(ctx context.Context, p engine.InstructorProfile) error
	GetProfile(ctx context.Context, id engine.InstructorID) (engine.InstructorProfile, error)

	// Raw records for the engine
	SaveClass(ctx context.Context, c engine.Class) error
	ListClasses(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Class, error)

	SavePenalty(ctx context.Context, p engine.Penalty) error
	ListPenalties(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Penalty, error)

	SaveCover(ctx context.Context, c engine.Cover) error
	ListCovers(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Cover, error)

	SaveBranding(ctx context.Context, b engine.Branding) error
	ListBrandings(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Branding, error)

	SaveThemeRide(ctx context.Context, tr engine.ThemeRide) error
	ListThemeRides(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.ThemeRide, error)

	SaveWorkshop(ctx context.Context, w engine.Workshop) error
	ListWorkshops(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Workshop, error)

	SaveEvent(ctx context.Context, e engine.EventParticipation) error
	ListEvents(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.EventParticipation, error)

	// Manual category assignments (override automatic evaluation)
	SetManualCategory(ctx context.Context, instructorID engine.InstructorID, disciplineID engine.DisciplineID, periodID engine.PeriodID, category engine.CategoryName) error
	ManualCategories(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (map[engine.DisciplineID]engine.CategoryName, error)

	// Manual adjustments, one per instructor+period
	SaveAdjustment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID, a engine.Adjustment) error
	GetAdjustment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.Adjustment, error)

	// Computed payments; SavePayment overwrites until the stored payment
	// is marked paid, then returns ErrPaymentPaid.
	SavePayment(ctx context.Context, b *engine.PaymentBreakdown) error
	GetPayment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.PaymentBreakdown, error)
	MarkPaymentPaid(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) error

	Close() error
}
