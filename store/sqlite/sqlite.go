/*
Package sqlite provides the SQLite-backed implementation of store.Store.

PURPOSE:
  Persists the console's records (periods, formulas, classes, penalties,
  bonus records, computed payments) in a single SQLite file. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  periods:           Payroll cycles with optional discount-rule overrides
  formulas:          One JSON config per (discipline, period), hydrated
                     through the factory so reads are always validated
  classes:           Raw class records with occupancy numbers
  penalties/covers/brandings/theme_rides/workshops/events:
                     Per-instructor period records feeding the engine
  manual_categories: Operations-team category overrides
  adjustments:       One manual adjustment per instructor+period
  payments:          Computed breakdowns (JSON), overwritten on
                     recomputation until marked paid

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer and crash recovery is cleaner.

USAGE:
  st, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ridepulse/payroll-engine/engine"
	"github.com/ridepulse/payroll-engine/factory"
	"github.com/ridepulse/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS periods (
		id TEXT PRIMARY KEY,
		number INTEGER NOT NULL,
		year INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		payment_date TEXT,
		allowed_points INTEGER,
		per_point_percent TEXT,
		max_percent TEXT
	);

	CREATE TABLE IF NOT EXISTS formulas (
		discipline_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		config_json TEXT NOT NULL,
		PRIMARY KEY (discipline_id, period_id)
	);

	CREATE TABLE IF NOT EXISTS profiles (
		instructor_id TEXT PRIMARY KEY,
		seniority_months INTEGER NOT NULL,
		evaluation_score TEXT NOT NULL,
		training_completed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		discipline_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		venue_id TEXT,
		starts_at TEXT NOT NULL,
		week_number INTEGER NOT NULL,
		spots INTEGER NOT NULL,
		total_reservations INTEGER NOT NULL,
		paid_reservations INTEGER NOT NULL,
		waitlist_count INTEGER NOT NULL,
		complimentary_count INTEGER NOT NULL,
		is_versus INTEGER NOT NULL,
		versus_number INTEGER NOT NULL,
		guideline_compliant INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_classes_instructor_period
		ON classes(instructor_id, period_id);

	CREATE TABLE IF NOT EXISTS penalties (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		discipline_id TEXT,
		points INTEGER NOT NULL,
		active INTEGER NOT NULL,
		applied_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_penalties_instructor_period
		ON penalties(instructor_id, period_id);

	CREATE TABLE IF NOT EXISTS covers (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		date TEXT,
		bonus_applies INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS brandings (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		date TEXT
	);

	CREATE TABLE IF NOT EXISTS theme_rides (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		date TEXT,
		theme TEXT
	);

	CREATE TABLE IF NOT EXISTS workshops (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		date TEXT,
		payment TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		name TEXT,
		date TEXT
	);

	CREATE TABLE IF NOT EXISTS manual_categories (
		instructor_id TEXT NOT NULL,
		discipline_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		category TEXT NOT NULL,
		PRIMARY KEY (instructor_id, discipline_id, period_id)
	);

	CREATE TABLE IF NOT EXISTS adjustments (
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		adj_type TEXT NOT NULL,
		adj_value TEXT NOT NULL,
		PRIMARY KEY (instructor_id, period_id)
	);

	CREATE TABLE IF NOT EXISTS payments (
		instructor_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		breakdown_json TEXT NOT NULL,
		status TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (instructor_id, period_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TIME AND DECIMAL ENCODING
// =============================================================================

const (
	dayLayout  = "2006-01-02"
	slotLayout = "2006-01-02 15:04"
)

func encodeDay(tp engine.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(dayLayout)
}

func decodeDay(s string) engine.TimePoint {
	if s == "" {
		return engine.TimePoint{}
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return engine.TimePoint{}
	}
	return engine.TimePoint{Time: t, Granularity: engine.GranularityDay}
}

func encodeSlot(tp engine.TimePoint) string {
	return tp.Time.Format(slotLayout)
}

func decodeSlot(s string) engine.TimePoint {
	t, err := time.Parse(slotLayout, s)
	if err != nil {
		return engine.TimePoint{}
	}
	return engine.TimePoint{Time: t, Granularity: engine.GranularityMinute}
}

func decodeDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// PERIODS
// =============================================================================

func (s *Store) SavePeriod(ctx context.Context, p engine.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var allowed sql.NullInt64
	var perPoint, maxPct sql.NullString
	if p.DiscountRules != nil {
		allowed = sql.NullInt64{Int64: int64(p.DiscountRules.AllowedPoints), Valid: true}
		perPoint = sql.NullString{String: p.DiscountRules.PerPointPercent.String(), Valid: true}
		maxPct = sql.NullString{String: p.DiscountRules.MaxPercent.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO periods
			(id, number, year, start_date, end_date, payment_date, allowed_points, per_point_percent, max_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.Number, p.Year,
		encodeDay(p.Start), encodeDay(p.End), encodeDay(p.PaymentDate),
		allowed, perPoint, maxPct,
	)
	return err
}

func (s *Store) GetPeriod(ctx context.Context, id engine.PeriodID) (engine.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, number, year, start_date, end_date, payment_date, allowed_points, per_point_percent, max_percent
		FROM periods WHERE id = ?`, string(id))
	return scanPeriod(row)
}

func (s *Store) ListPeriods(ctx context.Context) ([]engine.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, year, start_date, end_date, payment_date, allowed_points, per_point_percent, max_percent
		FROM periods ORDER BY year, number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []engine.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (engine.Period, error) {
	var p engine.Period
	var id, start, end, payment string
	var allowed sql.NullInt64
	var perPoint, maxPct sql.NullString

	err := row.Scan(&id, &p.Number, &p.Year, &start, &end, &payment, &allowed, &perPoint, &maxPct)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Period{}, store.ErrNotFound
	}
	if err != nil {
		return engine.Period{}, err
	}

	p.ID = engine.PeriodID(id)
	p.Start = decodeDay(start)
	p.End = decodeDay(end)
	p.PaymentDate = decodeDay(payment)
	if allowed.Valid {
		p.DiscountRules = &engine.DiscountRules{
			AllowedPoints:   int(allowed.Int64),
			PerPointPercent: decodeDecimal(perPoint.String),
			MaxPercent:      decodeDecimal(maxPct.String),
		}
	}
	return p, nil
}

// =============================================================================
// FORMULAS
// =============================================================================

func (s *Store) SaveFormula(ctx context.Context, f *engine.Formula) error {
	if err := f.Validate(); err != nil {
		return err
	}

	config, err := json.Marshal(factory.ToJSON(f))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO formulas (discipline_id, period_id, config_json)
		VALUES (?, ?, ?)`,
		string(f.DisciplineID), string(f.PeriodID), string(config),
	)
	return err
}

func (s *Store) GetFormula(ctx context.Context, disciplineID engine.DisciplineID, periodID engine.PeriodID) (*engine.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var config string
	err := s.db.QueryRowContext(ctx, `
		SELECT config_json FROM formulas WHERE discipline_id = ? AND period_id = ?`,
		string(disciplineID), string(periodID)).Scan(&config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return factory.ParseFormula([]byte(config))
}

func (s *Store) ListFormulas(ctx context.Context, periodID engine.PeriodID) ([]*engine.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT config_json FROM formulas WHERE period_id = ? ORDER BY discipline_id`,
		string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formulas []*engine.Formula
	for rows.Next() {
		var config string
		if err := rows.Scan(&config); err != nil {
			return nil, err
		}
		f, err := factory.ParseFormula([]byte(config))
		if err != nil {
			return nil, err
		}
		formulas = append(formulas, f)
	}
	return formulas, rows.Err()
}

// =============================================================================
// PROFILES
// =============================================================================

func (s *Store) SaveProfile(ctx context.Context, p engine.InstructorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (instructor_id, seniority_months, evaluation_score, training_completed)
		VALUES (?, ?, ?, ?)`,
		string(p.InstructorID), p.SeniorityMonths, p.EvaluationScore.String(), boolToInt(p.TrainingCompleted),
	)
	return err
}

func (s *Store) GetProfile(ctx context.Context, id engine.InstructorID) (engine.InstructorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p engine.InstructorProfile
	var instructorID, score string
	var training int
	err := s.db.QueryRowContext(ctx, `
		SELECT instructor_id, seniority_months, evaluation_score, training_completed
		FROM profiles WHERE instructor_id = ?`, string(id)).
		Scan(&instructorID, &p.SeniorityMonths, &score, &training)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.InstructorProfile{}, store.ErrNotFound
	}
	if err != nil {
		return engine.InstructorProfile{}, err
	}

	p.InstructorID = engine.InstructorID(instructorID)
	p.EvaluationScore = decodeDecimal(score)
	p.TrainingCompleted = training != 0
	return p, nil
}

// =============================================================================
// CLASSES
// =============================================================================

func (s *Store) SaveClass(ctx context.Context, c engine.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO classes
			(id, instructor_id, discipline_id, period_id, venue_id, starts_at, week_number,
			 spots, total_reservations, paid_reservations, waitlist_count, complimentary_count,
			 is_versus, versus_number, guideline_compliant)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, string(c.InstructorID), string(c.DisciplineID), string(c.PeriodID), string(c.VenueID),
		encodeSlot(c.StartsAt), c.WeekNumber,
		c.Spots, c.TotalReservations, c.PaidReservations, c.WaitlistCount, c.ComplimentaryCount,
		boolToInt(c.IsVersus), c.VersusNumber, boolToInt(c.GuidelineCompliant),
	)
	return err
}

func (s *Store) ListClasses(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, discipline_id, period_id, venue_id, starts_at, week_number,
		       spots, total_reservations, paid_reservations, waitlist_count, complimentary_count,
		       is_versus, versus_number, guideline_compliant
		FROM classes WHERE instructor_id = ? AND period_id = ?
		ORDER BY starts_at, id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []engine.Class
	for rows.Next() {
		var c engine.Class
		var insID, discID, perID, venueID, startsAt string
		var isVersus, compliant int
		if err := rows.Scan(&c.ID, &insID, &discID, &perID, &venueID, &startsAt, &c.WeekNumber,
			&c.Spots, &c.TotalReservations, &c.PaidReservations, &c.WaitlistCount, &c.ComplimentaryCount,
			&isVersus, &c.VersusNumber, &compliant); err != nil {
			return nil, err
		}
		c.InstructorID = engine.InstructorID(insID)
		c.DisciplineID = engine.DisciplineID(discID)
		c.PeriodID = engine.PeriodID(perID)
		c.VenueID = engine.VenueID(venueID)
		c.StartsAt = decodeSlot(startsAt)
		c.IsVersus = isVersus != 0
		c.GuidelineCompliant = compliant != 0
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// =============================================================================
// PENALTIES AND BONUS RECORDS
// =============================================================================

func (s *Store) SavePenalty(ctx context.Context, p engine.Penalty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO penalties (id, instructor_id, period_id, discipline_id, points, active, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.InstructorID), string(p.PeriodID), string(p.DisciplineID),
		p.Points, boolToInt(p.Active), encodeDay(p.AppliedAt),
	)
	return err
}

func (s *Store) ListPenalties(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Penalty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, period_id, discipline_id, points, active, applied_at
		FROM penalties WHERE instructor_id = ? AND period_id = ? ORDER BY id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []engine.Penalty
	for rows.Next() {
		var p engine.Penalty
		var insID, perID, discID, appliedAt string
		var active int
		if err := rows.Scan(&p.ID, &insID, &perID, &discID, &p.Points, &active, &appliedAt); err != nil {
			return nil, err
		}
		p.InstructorID = engine.InstructorID(insID)
		p.PeriodID = engine.PeriodID(perID)
		p.DisciplineID = engine.DisciplineID(discID)
		p.Active = active != 0
		p.AppliedAt = decodeDay(appliedAt)
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

func (s *Store) SaveCover(ctx context.Context, c engine.Cover) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO covers (id, instructor_id, period_id, date, bonus_applies)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, string(c.InstructorID), string(c.PeriodID), encodeDay(c.Date), boolToInt(c.BonusApplies),
	)
	return err
}

func (s *Store) ListCovers(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Cover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, period_id, date, bonus_applies
		FROM covers WHERE instructor_id = ? AND period_id = ? ORDER BY id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var covers []engine.Cover
	for rows.Next() {
		var c engine.Cover
		var insID, perID, date string
		var bonus int
		if err := rows.Scan(&c.ID, &insID, &perID, &date, &bonus); err != nil {
			return nil, err
		}
		c.InstructorID = engine.InstructorID(insID)
		c.PeriodID = engine.PeriodID(perID)
		c.Date = decodeDay(date)
		c.BonusApplies = bonus != 0
		covers = append(covers, c)
	}
	return covers, rows.Err()
}

func (s *Store) SaveBranding(ctx context.Context, b engine.Branding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO brandings (id, instructor_id, period_id, date)
		VALUES (?, ?, ?, ?)`,
		b.ID, string(b.InstructorID), string(b.PeriodID), encodeDay(b.Date),
	)
	return err
}

func (s *Store) ListBrandings(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, period_id, date
		FROM brandings WHERE instructor_id = ? AND period_id = ? ORDER BY id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brandings []engine.Branding
	for rows.Next() {
		var b engine.Branding
		var insID, perID, date string
		if err := rows.Scan(&b.ID, &insID, &perID, &date); err != nil {
			return nil, err
		}
		b.InstructorID = engine.InstructorID(insID)
		b.PeriodID = engine.PeriodID(perID)
		b.Date = decodeDay(date)
		brandings = append(brandings, b)
	}
	return brandings, rows.Err()
}

func (s *Store) SaveThemeRide(ctx context.Context, tr engine.ThemeRide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO theme_rides (id, instructor_id, period_id, date, theme)
		VALUES (?, ?, ?, ?, ?)`,
		tr.ID, string(tr.InstructorID), string(tr.PeriodID), encodeDay(tr.Date), tr.Theme,
	)
	return err
}

func (s *Store) ListThemeRides(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.ThemeRide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, period_id, date, theme
		FROM theme_rides WHERE instructor_id = ? AND period_id = ? ORDER BY id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []engine.ThemeRide
	for rows.Next() {
		var tr engine.ThemeRide
		var insID, perID, date string
		if err := rows.Scan(&tr.ID, &insID, &perID, &date, &tr.Theme); err != nil {
			return nil, err
		}
		tr.InstructorID = engine.InstructorID(insID)
		tr.PeriodID = engine.PeriodID(perID)
		tr.Date = decodeDay(date)
		rides = append(rides, tr)
	}
	return rides, rows.Err()
}

func (s *Store) SaveWorkshop(ctx context.Context, w engine.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO workshops (id, instructor_id, period_id, date, payment)
		VALUES (?, ?, ?, ?, ?)`,
		w.ID, string(w.InstructorID), string(w.PeriodID), encodeDay(w.Date), w.Payment.String(),
	)
	return err
}

func (s *Store) ListWorkshops(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, period_id, date, payment
		FROM workshops WHERE instructor_id = ? AND period_id = ? ORDER BY id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workshops []engine.Workshop
	for rows.Next() {
		var w engine.Workshop
		var insID, perID, date, payment string
		if err := rows.Scan(&w.ID, &insID, &perID, &date, &payment); err != nil {
			return nil, err
		}
		w.InstructorID = engine.InstructorID(insID)
		w.PeriodID = engine.PeriodID(perID)
		w.Date = decodeDay(date)
		w.Payment = decodeDecimal(payment)
		workshops = append(workshops, w)
	}
	return workshops, rows.Err()
}

func (s *Store) SaveEvent(ctx context.Context, e engine.EventParticipation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events (id, instructor_id, period_id, name, date)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.InstructorID), string(e.PeriodID), e.Name, encodeDay(e.Date),
	)
	return err
}

func (s *Store) ListEvents(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) ([]engine.EventParticipation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instructor_id, period_id, name, date
		FROM events WHERE instructor_id = ? AND period_id = ? ORDER BY id`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engine.EventParticipation
	for rows.Next() {
		var e engine.EventParticipation
		var insID, perID, date string
		if err := rows.Scan(&e.ID, &insID, &perID, &e.Name, &date); err != nil {
			return nil, err
		}
		e.InstructorID = engine.InstructorID(insID)
		e.PeriodID = engine.PeriodID(perID)
		e.Date = decodeDay(date)
		events = append(events, e)
	}
	return events, rows.Err()
}

// =============================================================================
// MANUAL CATEGORIES AND ADJUSTMENTS
// =============================================================================

func (s *Store) SetManualCategory(ctx context.Context, instructorID engine.InstructorID, disciplineID engine.DisciplineID, periodID engine.PeriodID, category engine.CategoryName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category == "" {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM manual_categories WHERE instructor_id = ? AND discipline_id = ? AND period_id = ?`,
			string(instructorID), string(disciplineID), string(periodID))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO manual_categories (instructor_id, discipline_id, period_id, category)
		VALUES (?, ?, ?, ?)`,
		string(instructorID), string(disciplineID), string(periodID), string(category),
	)
	return err
}

func (s *Store) ManualCategories(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (map[engine.DisciplineID]engine.CategoryName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT discipline_id, category FROM manual_categories
		WHERE instructor_id = ? AND period_id = ?`,
		string(instructorID), string(periodID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make(map[engine.DisciplineID]engine.CategoryName)
	for rows.Next() {
		var discID, category string
		if err := rows.Scan(&discID, &category); err != nil {
			return nil, err
		}
		categories[engine.DisciplineID(discID)] = engine.CategoryName(category)
	}
	return categories, rows.Err()
}

func (s *Store) SaveAdjustment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID, a engine.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO adjustments (instructor_id, period_id, adj_type, adj_value)
		VALUES (?, ?, ?, ?)`,
		string(instructorID), string(periodID), string(a.Type), a.Value.String(),
	)
	return err
}

func (s *Store) GetAdjustment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var adjType, adjValue string
	err := s.db.QueryRowContext(ctx, `
		SELECT adj_type, adj_value FROM adjustments WHERE instructor_id = ? AND period_id = ?`,
		string(instructorID), string(periodID)).Scan(&adjType, &adjValue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &engine.Adjustment{Type: engine.AdjustmentType(adjType), Value: decodeDecimal(adjValue)}, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) SavePayment(ctx context.Context, b *engine.PaymentBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM payments WHERE instructor_id = ? AND period_id = ?`,
		string(b.InstructorID), string(b.PeriodID)).Scan(&status)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if status == string(engine.PaymentPaid) {
		return store.ErrPaymentPaid
	}

	payload, err := json.Marshal(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO payments (instructor_id, period_id, breakdown_json, status, computed_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(b.InstructorID), string(b.PeriodID), string(payload), string(b.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetPayment(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) (*engine.PaymentBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload, status string
	err := s.db.QueryRowContext(ctx, `
		SELECT breakdown_json, status FROM payments WHERE instructor_id = ? AND period_id = ?`,
		string(instructorID), string(periodID)).Scan(&payload, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var b engine.PaymentBreakdown
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return nil, err
	}
	b.Status = engine.PaymentStatus(status)
	return &b, nil
}

func (s *Store) MarkPaymentPaid(ctx context.Context, instructorID engine.InstructorID, periodID engine.PeriodID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE payments SET status = ? WHERE instructor_id = ? AND period_id = ?`,
		string(engine.PaymentPaid), string(instructorID), string(periodID))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
