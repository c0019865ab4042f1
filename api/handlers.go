/*
handlers.go - HTTP API handlers for the instructor payroll console

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the payroll service.

ENDPOINTS:
  Periods:
    GET    /api/periods                         List periods
    POST   /api/periods                         Create/replace a period
    GET    /api/periods/{id}                    Get one period

  Formulas:
    GET    /api/periods/{id}/formulas           List a period's formulas
    POST   /api/formulas                        Store a formula document
    GET    /api/formulas/{discipline}/{period}  Get one formula

  Records:
    POST   /api/classes                         Record a taught class
    GET    /api/instructors/{id}/periods/{pid}/classes
    POST   /api/penalties                       Record a penalty
    POST   /api/covers                          Record a cover
    POST   /api/brandings                       Record branding content
    POST   /api/theme-rides                     Record a themed class
    POST   /api/workshops                       Record a workshop
    POST   /api/events                          Record event participation
    PUT    /api/instructors/{id}/profile        Set evaluation data

  Payroll:
    GET    /api/instructors/{id}/periods/{pid}/categories/{discipline}
    PUT    /api/instructors/{id}/periods/{pid}/categories/{discipline}
    PUT    /api/instructors/{id}/periods/{pid}/adjustment
    POST   /api/instructors/{id}/periods/{pid}/payment   Compute
    GET    /api/instructors/{id}/periods/{pid}/payment   Read stored
    POST   /api/instructors/{id}/periods/{pid}/payment/paid

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, broken records
  - 404: Record not found
  - 409: Payment already marked paid
  - 422: Formula/configuration problems surfaced by the engine
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - payroll/service.go: The operations these handlers call
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ridepulse/payroll-engine/engine"
	"github.com/ridepulse/payroll-engine/factory"
	"github.com/ridepulse/payroll-engine/metrics"
	"github.com/ridepulse/payroll-engine/payroll"
	"github.com/ridepulse/payroll-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   store.Store
	Service *payroll.Service
}

// NewHandler creates a new handler over the given store and service.
func NewHandler(st store.Store, svc *payroll.Service) *Handler {
	return &Handler{Store: st, Service: svc}
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// ListPeriods returns all periods.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePeriod creates or replaces a period.
func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Period id is required", nil)
		return
	}

	start, err := parseDay(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := parseDay(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}

	period := engine.Period{
		ID:     engine.PeriodID(req.ID),
		Number: req.Number,
		Year:   req.Year,
		Start:  start,
		End:    end,
	}
	if req.PaymentDate != "" {
		period.PaymentDate, err = parseDay(req.PaymentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment_date (use YYYY-MM-DD)", err)
			return
		}
	}
	if req.AllowedPoints != nil || req.PerPointPercent != nil || req.MaxPercent != nil {
		if req.AllowedPoints == nil || req.PerPointPercent == nil || req.MaxPercent == nil {
			writeError(w, http.StatusBadRequest, "Discount overrides require allowed_points, per_point_percent and max_percent together", nil)
			return
		}
		period.DiscountRules = &engine.DiscountRules{
			AllowedPoints:   *req.AllowedPoints,
			PerPointPercent: decimal.NewFromFloat(*req.PerPointPercent),
			MaxPercent:      decimal.NewFromFloat(*req.MaxPercent),
		}
	}

	if err := h.Store.SavePeriod(r.Context(), period); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPeriodDTO(period))
}

// GetPeriod returns one period.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := h.Store.GetPeriod(r.Context(), engine.PeriodID(id))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Period not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get period", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// =============================================================================
// FORMULA HANDLERS
// =============================================================================

// CreateFormula stores a formula document after factory validation.
func (h *Handler) CreateFormula(w http.ResponseWriter, r *http.Request) {
	var doc factory.FormulaJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	formula, err := factory.FromJSON(doc)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid formula", err)
		return
	}

	if err := h.Store.SaveFormula(r.Context(), formula); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save formula", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.ToJSON(formula))
}

// GetFormula returns one formula document.
func (h *Handler) GetFormula(w http.ResponseWriter, r *http.Request) {
	disciplineID := chi.URLParam(r, "discipline")
	periodID := chi.URLParam(r, "period")

	formula, err := h.Store.GetFormula(r.Context(), engine.DisciplineID(disciplineID), engine.PeriodID(periodID))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Formula not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get formula", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(formula))
}

// ListFormulas returns all formula documents stored for a period.
func (h *Handler) ListFormulas(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")

	formulas, err := h.Store.ListFormulas(r.Context(), engine.PeriodID(periodID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list formulas", err)
		return
	}

	docs := make([]factory.FormulaJSON, len(formulas))
	for i, f := range formulas {
		docs[i] = factory.ToJSON(f)
	}
	writeJSON(w, http.StatusOK, docs)
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// CreateClass records a taught class.
func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.DisciplineID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id, discipline_id and period_id are required", nil)
		return
	}

	startsAt, err := parseSlot(req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid starts_at (use YYYY-MM-DD HH:MM)", err)
		return
	}

	class := engine.Class{
		ID:                 orNewID(req.ID),
		InstructorID:       engine.InstructorID(req.InstructorID),
		DisciplineID:       engine.DisciplineID(req.DisciplineID),
		PeriodID:           engine.PeriodID(req.PeriodID),
		VenueID:            engine.VenueID(req.VenueID),
		StartsAt:           startsAt,
		WeekNumber:         req.WeekNumber,
		Spots:              req.Spots,
		TotalReservations:  req.TotalReservations,
		PaidReservations:   req.PaidReservations,
		WaitlistCount:      req.WaitlistCount,
		ComplimentaryCount: req.ComplimentaryCount,
		IsVersus:           req.IsVersus,
		VersusNumber:       req.VersusNumber,
		GuidelineCompliant: req.GuidelineCompliant,
	}

	if err := h.Store.SaveClass(r.Context(), class); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save class", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClassDTO(class))
}

// ListClasses returns an instructor's classes for a period.
func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	classes, err := h.Store.ListClasses(r.Context(), engine.InstructorID(instructorID), engine.PeriodID(periodID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list classes", err)
		return
	}

	dtos := make([]ClassDTO, len(classes))
	for i, c := range classes {
		dtos[i] = toClassDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePenalty records a penalty.
func (h *Handler) CreatePenalty(w http.ResponseWriter, r *http.Request) {
	var req CreatePenaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id and period_id are required", nil)
		return
	}
	if req.Points < 0 {
		writeError(w, http.StatusBadRequest, "points must not be negative", nil)
		return
	}

	penalty := engine.Penalty{
		ID:           orNewID(req.ID),
		InstructorID: engine.InstructorID(req.InstructorID),
		PeriodID:     engine.PeriodID(req.PeriodID),
		DisciplineID: engine.DisciplineID(req.DisciplineID),
		Points:       req.Points,
		Active:       req.Active,
	}
	if req.AppliedAt != "" {
		appliedAt, err := parseDay(req.AppliedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid applied_at (use YYYY-MM-DD)", err)
			return
		}
		penalty.AppliedAt = appliedAt
	}

	if err := h.Store.SavePenalty(r.Context(), penalty); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save penalty", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": penalty.ID})
}

// CreateCover records a covered class.
func (h *Handler) CreateCover(w http.ResponseWriter, r *http.Request) {
	var req CreateCoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id and period_id are required", nil)
		return
	}

	cover := engine.Cover{
		ID:           orNewID(req.ID),
		InstructorID: engine.InstructorID(req.InstructorID),
		PeriodID:     engine.PeriodID(req.PeriodID),
		BonusApplies: req.BonusApplies,
	}
	if date, err := parseOptionalDay(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	} else {
		cover.Date = date
	}

	if err := h.Store.SaveCover(r.Context(), cover); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save cover", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": cover.ID})
}

// CreateBranding records a brand-content occurrence.
func (h *Handler) CreateBranding(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id and period_id are required", nil)
		return
	}

	branding := engine.Branding{
		ID:           orNewID(req.ID),
		InstructorID: engine.InstructorID(req.InstructorID),
		PeriodID:     engine.PeriodID(req.PeriodID),
	}
	if date, err := parseOptionalDay(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	} else {
		branding.Date = date
	}

	if err := h.Store.SaveBranding(r.Context(), branding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save branding", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": branding.ID})
}

// CreateThemeRide records a themed class occurrence.
func (h *Handler) CreateThemeRide(w http.ResponseWriter, r *http.Request) {
	var req CreateThemeRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id and period_id are required", nil)
		return
	}

	ride := engine.ThemeRide{
		ID:           orNewID(req.ID),
		InstructorID: engine.InstructorID(req.InstructorID),
		PeriodID:     engine.PeriodID(req.PeriodID),
		Theme:        req.Theme,
	}
	if date, err := parseOptionalDay(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	} else {
		ride.Date = date
	}

	if err := h.Store.SaveThemeRide(r.Context(), ride); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save theme ride", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": ride.ID})
}

// CreateWorkshop records a workshop with its negotiated payment.
func (h *Handler) CreateWorkshop(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id and period_id are required", nil)
		return
	}
	if req.Payment < 0 {
		writeError(w, http.StatusBadRequest, "payment must not be negative", nil)
		return
	}

	workshop := engine.Workshop{
		ID:           orNewID(req.ID),
		InstructorID: engine.InstructorID(req.InstructorID),
		PeriodID:     engine.PeriodID(req.PeriodID),
		Payment:      decimal.NewFromFloat(req.Payment),
	}
	if date, err := parseOptionalDay(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	} else {
		workshop.Date = date
	}

	if err := h.Store.SaveWorkshop(r.Context(), workshop); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save workshop", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": workshop.ID})
}

// CreateEvent records event participation.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InstructorID == "" || req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "instructor_id and period_id are required", nil)
		return
	}

	event := engine.EventParticipation{
		ID:           orNewID(req.ID),
		InstructorID: engine.InstructorID(req.InstructorID),
		PeriodID:     engine.PeriodID(req.PeriodID),
		Name:         req.Name,
	}
	if date, err := parseOptionalDay(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	} else {
		event.Date = date
	}

	if err := h.Store.SaveEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save event", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": event.ID})
}

// SetProfile stores an instructor's evaluation data.
func (h *Handler) SetProfile(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile := engine.InstructorProfile{
		InstructorID:      engine.InstructorID(instructorID),
		SeniorityMonths:   req.SeniorityMonths,
		EvaluationScore:   decimal.NewFromFloat(req.EvaluationScore),
		TrainingCompleted: req.TrainingCompleted,
	}
	if err := h.Store.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instructor_id": instructorID})
}

// =============================================================================
// CATEGORY AND ADJUSTMENT HANDLERS
// =============================================================================

// GetCategory resolves the category an instructor holds for a discipline.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")
	disciplineID := chi.URLParam(r, "discipline")

	category, err := h.Service.DetermineCategory(r.Context(),
		engine.InstructorID(instructorID), engine.DisciplineID(disciplineID), engine.PeriodID(periodID))
	if err != nil {
		writeDomainError(w, "Failed to determine category", err)
		return
	}

	writeJSON(w, http.StatusOK, CategoryDTO{
		InstructorID: instructorID,
		DisciplineID: disciplineID,
		PeriodID:     periodID,
		Category:     string(category),
	})
}

// SetCategory manually assigns (or clears) a category override.
func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")
	disciplineID := chi.URLParam(r, "discipline")

	var req SetCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Store.SetManualCategory(r.Context(),
		engine.InstructorID(instructorID), engine.DisciplineID(disciplineID),
		engine.PeriodID(periodID), engine.CategoryName(req.Category))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set category", err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryDTO{
		InstructorID: instructorID,
		DisciplineID: disciplineID,
		PeriodID:     periodID,
		Category:     req.Category,
	})
}

// SetAdjustment stores a manual base adjustment.
func (h *Handler) SetAdjustment(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	adjType := engine.AdjustmentType(req.Type)
	if adjType != engine.AdjustmentFixed && adjType != engine.AdjustmentPercent {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown adjustment type %q", req.Type), nil)
		return
	}

	adjustment := engine.Adjustment{Type: adjType, Value: decimal.NewFromFloat(req.Value)}
	err := h.Store.SaveAdjustment(r.Context(), engine.InstructorID(instructorID), engine.PeriodID(periodID), adjustment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save adjustment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": req.Type, "value": req.Value})
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ComputePayment runs the full computation and persists the breakdown.
func (h *Handler) ComputePayment(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	started := time.Now()
	breakdown, err := h.Service.ComputePayment(r.Context(),
		engine.InstructorID(instructorID), engine.PeriodID(periodID))
	metrics.ObserveComputation(time.Since(started))
	if err != nil {
		metrics.ComputationFailures.Inc()
		writeDomainError(w, "Failed to compute payment", err)
		return
	}
	metrics.PaymentComputations.Inc()

	writeJSON(w, http.StatusOK, toPaymentDTO(breakdown))
}

// GetPayment returns the stored breakdown.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	breakdown, err := h.Service.GetPayment(r.Context(),
		engine.InstructorID(instructorID), engine.PeriodID(periodID))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(breakdown))
}

// MarkPaymentPaid freezes the stored breakdown.
func (h *Handler) MarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	err := h.Service.MarkPaymentPaid(r.Context(),
		engine.InstructorID(instructorID), engine.PeriodID(periodID))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark payment paid", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(engine.PaymentPaid)})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and store failures to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, store.ErrPaymentPaid):
		writeError(w, http.StatusConflict, "Payment already marked paid", nil)
	case engine.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, message, err)
	case engine.IsConfiguration(err):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func parseDay(s string) (engine.TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return engine.TimePoint{}, err
	}
	return engine.TimePoint{Time: t, Granularity: engine.GranularityDay}, nil
}

func parseOptionalDay(s string) (engine.TimePoint, error) {
	if s == "" {
		return engine.TimePoint{}, nil
	}
	return parseDay(s)
}

func parseSlot(s string) (engine.TimePoint, error) {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		return engine.TimePoint{}, err
	}
	return engine.TimePoint{Time: t, Granularity: engine.GranularityMinute}, nil
}
