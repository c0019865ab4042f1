/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: dates travel
  as strings, money travels as decimal strings, and the engine's types
  never leak their internals to clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FORMAT:
  All amounts are serialized as decimal strings ("123.45") so clients
  never see float artifacts. Percentages are whole numbers (8 = 8%).

DATE FORMATS:
  - Day-granular fields: "2006-01-02"
  - Class start slots:   "2006-01-02 15:04"

SEE ALSO:
  - handlers.go: Uses these types
  - factory/formula.go: FormulaJSON, reused verbatim for formula bodies
*/
package api

import (
	"github.com/ridepulse/payroll-engine/engine"
)

// =============================================================================
// PERIODS
// =============================================================================

// PeriodDTO represents a payroll period in API responses.
type PeriodDTO struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Year        int    `json:"year"`
	Start       string `json:"start"`
	End         string `json:"end"`
	PaymentDate string `json:"payment_date,omitempty"`

	AllowedPoints   *int    `json:"allowed_points,omitempty"`
	PerPointPercent *string `json:"per_point_percent,omitempty"`
	MaxPercent      *string `json:"max_percent,omitempty"`
}

// CreatePeriodRequest is the request to create or replace a period.
type CreatePeriodRequest struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Year        int    `json:"year"`
	Start       string `json:"start"`
	End         string `json:"end"`
	PaymentDate string `json:"payment_date,omitempty"`

	// Optional discount-rule overrides; all three must be set together.
	AllowedPoints   *int     `json:"allowed_points,omitempty"`
	PerPointPercent *float64 `json:"per_point_percent,omitempty"`
	MaxPercent      *float64 `json:"max_percent,omitempty"`
}

// =============================================================================
// RECORDS
// =============================================================================

// CreateClassRequest is the request to record a taught class.
type CreateClassRequest struct {
	ID                 string `json:"id"`
	InstructorID       string `json:"instructor_id"`
	DisciplineID       string `json:"discipline_id"`
	PeriodID           string `json:"period_id"`
	VenueID            string `json:"venue_id,omitempty"`
	StartsAt           string `json:"starts_at"`
	WeekNumber         int    `json:"week_number"`
	Spots              int    `json:"spots"`
	TotalReservations  int    `json:"total_reservations"`
	PaidReservations   int    `json:"paid_reservations"`
	WaitlistCount      int    `json:"waitlist_count"`
	ComplimentaryCount int    `json:"complimentary_count"`
	IsVersus           bool   `json:"is_versus"`
	VersusNumber       int    `json:"versus_number,omitempty"`
	GuidelineCompliant bool   `json:"guideline_compliant"`
}

// ClassDTO represents a stored class in API responses.
type ClassDTO struct {
	ID                 string `json:"id"`
	InstructorID       string `json:"instructor_id"`
	DisciplineID       string `json:"discipline_id"`
	PeriodID           string `json:"period_id"`
	VenueID            string `json:"venue_id,omitempty"`
	StartsAt           string `json:"starts_at"`
	WeekNumber         int    `json:"week_number"`
	Spots              int    `json:"spots"`
	TotalReservations  int    `json:"total_reservations"`
	IsVersus           bool   `json:"is_versus"`
	VersusNumber       int    `json:"versus_number,omitempty"`
	GuidelineCompliant bool   `json:"guideline_compliant"`
}

// CreatePenaltyRequest records a penalty against an instructor.
type CreatePenaltyRequest struct {
	ID           string `json:"id"`
	InstructorID string `json:"instructor_id"`
	PeriodID     string `json:"period_id"`
	DisciplineID string `json:"discipline_id,omitempty"`
	Points       int    `json:"points"`
	Active       bool   `json:"active"`
	AppliedAt    string `json:"applied_at,omitempty"`
}

// CreateCoverRequest records a covered class.
type CreateCoverRequest struct {
	ID           string `json:"id"`
	InstructorID string `json:"instructor_id"`
	PeriodID     string `json:"period_id"`
	Date         string `json:"date,omitempty"`
	BonusApplies bool   `json:"bonus_applies"`
}

// CreateBrandingRequest records a brand-content occurrence.
type CreateBrandingRequest struct {
	ID           string `json:"id"`
	InstructorID string `json:"instructor_id"`
	PeriodID     string `json:"period_id"`
	Date         string `json:"date,omitempty"`
}

// CreateThemeRideRequest records a themed class occurrence.
type CreateThemeRideRequest struct {
	ID           string `json:"id"`
	InstructorID string `json:"instructor_id"`
	PeriodID     string `json:"period_id"`
	Date         string `json:"date,omitempty"`
	Theme        string `json:"theme,omitempty"`
}

// CreateWorkshopRequest records a workshop with its negotiated payment.
type CreateWorkshopRequest struct {
	ID           string  `json:"id"`
	InstructorID string  `json:"instructor_id"`
	PeriodID     string  `json:"period_id"`
	Date         string  `json:"date,omitempty"`
	Payment      float64 `json:"payment"`
}

// CreateEventRequest records event participation.
type CreateEventRequest struct {
	ID           string `json:"id"`
	InstructorID string `json:"instructor_id"`
	PeriodID     string `json:"period_id"`
	Name         string `json:"name,omitempty"`
	Date         string `json:"date,omitempty"`
}

// =============================================================================
// PROFILES, CATEGORIES AND ADJUSTMENTS
// =============================================================================

// ProfileRequest sets an instructor's evaluation data.
type ProfileRequest struct {
	SeniorityMonths   int     `json:"seniority_months"`
	EvaluationScore   float64 `json:"evaluation_score"`
	TrainingCompleted bool    `json:"training_completed"`
}

// CategoryDTO is the response to a category lookup.
type CategoryDTO struct {
	InstructorID string `json:"instructor_id"`
	DisciplineID string `json:"discipline_id"`
	PeriodID     string `json:"period_id"`
	Category     string `json:"category"`
}

// SetCategoryRequest manually assigns a category. An empty category
// clears the override.
type SetCategoryRequest struct {
	Category string `json:"category"`
}

// AdjustmentRequest sets a manual base adjustment for one
// instructor+period. Type is "fixed" or "percentage".
type AdjustmentRequest struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// ClassPaymentDTO itemizes one class within a breakdown.
type ClassPaymentDTO struct {
	ClassID        string `json:"class_id"`
	DisciplineID   string `json:"discipline_id"`
	Category       string `json:"category"`
	Tariff         string `json:"tariff"`
	FullHouse      bool   `json:"full_house"`
	AppliedMinimum bool   `json:"applied_minimum,omitempty"`
	AppliedMaximum bool   `json:"applied_maximum,omitempty"`
	Undivided      string `json:"undivided,omitempty"`
	Amount         string `json:"amount"`
}

// PaymentDTO is the itemized payment breakdown returned to clients.
type PaymentDTO struct {
	InstructorID string            `json:"instructor_id"`
	PeriodID     string            `json:"period_id"`
	Categories   map[string]string `json:"categories"`
	Classes      []ClassPaymentDTO `json:"classes"`

	Base         string `json:"base"`
	AdjustedBase string `json:"adjusted_base"`

	CoverBonus     string `json:"cover_bonus"`
	BrandingBonus  string `json:"branding_bonus"`
	ThemeRideBonus string `json:"theme_ride_bonus"`
	WorkshopBonus  string `json:"workshop_bonus"`
	BonusTotal     string `json:"bonus_total"`

	PenaltyPoints   int    `json:"penalty_points"`
	ExcessPoints    int    `json:"excess_points"`
	DiscountPercent string `json:"discount_percent"`
	PenaltyAmount   string `json:"penalty_amount"`

	PreRetention     string `json:"pre_retention"`
	RetentionPercent string `json:"retention_percent"`
	Retention        string `json:"retention"`
	FinalPayment     string `json:"final_payment"`
	Status           string `json:"status"`
}

// ErrorResponse is the JSON shape of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

func toPaymentDTO(b *engine.PaymentBreakdown) PaymentDTO {
	dto := PaymentDTO{
		InstructorID: string(b.InstructorID),
		PeriodID:     string(b.PeriodID),
		Categories:   make(map[string]string, len(b.Categories)),

		Base:         b.Base.StringFixed(2),
		AdjustedBase: b.AdjustedBase.StringFixed(2),

		CoverBonus:     b.CoverBonus.StringFixed(2),
		BrandingBonus:  b.BrandingBonus.StringFixed(2),
		ThemeRideBonus: b.ThemeRideBonus.StringFixed(2),
		WorkshopBonus:  b.WorkshopBonus.StringFixed(2),
		BonusTotal:     b.BonusTotal.StringFixed(2),

		PenaltyPoints:   b.PenaltyPoints,
		ExcessPoints:    b.ExcessPoints,
		DiscountPercent: b.DiscountPercent.String(),
		PenaltyAmount:   b.PenaltyAmount.StringFixed(2),

		PreRetention:     b.PreRetention.StringFixed(2),
		RetentionPercent: b.RetentionPercent.String(),
		Retention:        b.Retention.StringFixed(2),
		FinalPayment:     b.FinalPayment.StringFixed(2),
		Status:           string(b.Status),
	}
	for disciplineID, category := range b.Categories {
		dto.Categories[string(disciplineID)] = string(category)
	}
	for _, cp := range b.Classes {
		item := ClassPaymentDTO{
			ClassID:        cp.ClassID,
			DisciplineID:   string(cp.DisciplineID),
			Category:       string(cp.Category),
			Tariff:         cp.Tariff.StringFixed(2),
			FullHouse:      cp.FullHouse,
			AppliedMinimum: cp.AppliedMinimum,
			AppliedMaximum: cp.AppliedMaximum,
			Amount:         cp.Amount.StringFixed(2),
		}
		if !cp.Undivided.Equal(cp.Amount) {
			item.Undivided = cp.Undivided.StringFixed(2)
		}
		dto.Classes = append(dto.Classes, item)
	}
	return dto
}

func toPeriodDTO(p engine.Period) PeriodDTO {
	dto := PeriodDTO{
		ID:     string(p.ID),
		Number: p.Number,
		Year:   p.Year,
		Start:  p.Start.String(),
		End:    p.End.String(),
	}
	if !p.PaymentDate.IsZero() {
		dto.PaymentDate = p.PaymentDate.String()
	}
	if p.DiscountRules != nil {
		allowed := p.DiscountRules.AllowedPoints
		perPoint := p.DiscountRules.PerPointPercent.String()
		maxPct := p.DiscountRules.MaxPercent.String()
		dto.AllowedPoints = &allowed
		dto.PerPointPercent = &perPoint
		dto.MaxPercent = &maxPct
	}
	return dto
}

func toClassDTO(c engine.Class) ClassDTO {
	return ClassDTO{
		ID:                 c.ID,
		InstructorID:       string(c.InstructorID),
		DisciplineID:       string(c.DisciplineID),
		PeriodID:           string(c.PeriodID),
		VenueID:            string(c.VenueID),
		StartsAt:           c.StartsAt.String(),
		WeekNumber:         c.WeekNumber,
		Spots:              c.Spots,
		TotalReservations:  c.TotalReservations,
		IsVersus:           c.IsVersus,
		VersusNumber:       c.VersusNumber,
		GuidelineCompliant: c.GuidelineCompliant,
	}
}
