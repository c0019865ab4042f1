package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ridepulse/payroll-engine/api"
	"github.com/ridepulse/payroll-engine/engine"
	"github.com/ridepulse/payroll-engine/payroll"
	"github.com/ridepulse/payroll-engine/store"
	"github.com/ridepulse/payroll-engine/store/memory"
)

// newTestServer wires a memory store, the default engine, and the full
// router behind an httptest server.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := memory.New()
	svc := payroll.NewService(st, engine.New(engine.DefaultConfig()), nil)
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(st, svc)))
	t.Cleanup(srv.Close)
	return srv, st
}

func seedMarch(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	period := engine.Period{
		ID: "2025-03", Number: 3, Year: 2025,
		Start: engine.NewDate(2025, 3, 1),
		End:   engine.NewDate(2025, 3, 31),
	}
	if err := st.SavePeriod(ctx, period); err != nil {
		t.Fatalf("failed to seed period: %v", err)
	}

	formula := &engine.Formula{
		DisciplineID: "cycling",
		PeriodID:     "2025-03",
		Ladder:       []engine.CategoryRequirement{{Name: "INSTRUCTOR"}},
		Params: map[engine.CategoryName]engine.PaymentParams{
			"INSTRUCTOR": {Category: "INSTRUCTOR", FullHouseTariff: decimal.NewFromInt(100)},
		},
	}
	if err := st.SaveFormula(ctx, formula); err != nil {
		t.Fatalf("failed to seed formula: %v", err)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// =============================================================================
// PERIOD AND FORMULA ENDPOINTS
// =============================================================================

func TestCreateAndGetPeriod(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/periods", map[string]any{
		"id": "2025-03", "number": 3, "year": 2025,
		"start": "2025-03-01", "end": "2025-03-31",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/api/periods/2025-03")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var dto api.PeriodDTO
	decodeBody(t, getResp, &dto)
	if dto.Number != 3 || dto.Start != "2025-03-01" {
		t.Errorf("unexpected period: %+v", dto)
	}
}

func TestCreatePeriodRejectsBadDate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/periods", map[string]any{
		"id": "2025-03", "start": "March 1st", "end": "2025-03-31",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateFormulaValidatesDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	// Ladder names a category with no params row.
	resp := postJSON(t, srv.URL+"/api/formulas", map[string]any{
		"discipline_id": "cycling",
		"period_id":     "2025-03",
		"ladder":        []map[string]any{{"name": "AMBASSADOR"}},
		"params":        []map[string]any{},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestGetFormulaNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/formulas/cycling/2025-03")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

// =============================================================================
// PAYMENT FLOW
// =============================================================================

func TestComputePaymentEndToEnd(t *testing.T) {
	// GIVEN: A seeded period, a flat formula, and one full-house class
	// THEN: POST payment returns the itemized breakdown with 8% retention

	srv, st := newTestServer(t)
	seedMarch(t, st)

	resp := postJSON(t, srv.URL+"/api/classes", map[string]any{
		"instructor_id": "ins-1", "discipline_id": "cycling", "period_id": "2025-03",
		"starts_at": "2025-03-03 18:00", "week_number": 1,
		"spots": 10, "total_reservations": 10, "guideline_compliant": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating class, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/payment", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 computing payment, got %d", resp.StatusCode)
	}
	var payment api.PaymentDTO
	decodeBody(t, resp, &payment)

	if payment.Base != "1000.00" {
		t.Errorf("expected base 1000.00, got %s", payment.Base)
	}
	if payment.Retention != "80.00" {
		t.Errorf("expected retention 80.00, got %s", payment.Retention)
	}
	if payment.FinalPayment != "920.00" {
		t.Errorf("expected final 920.00, got %s", payment.FinalPayment)
	}
	if len(payment.Classes) != 1 || payment.Classes[0].Category != "INSTRUCTOR" {
		t.Errorf("unexpected class items: %+v", payment.Classes)
	}

	// Stored breakdown is retrievable.
	getResp, err := http.Get(srv.URL + "/api/instructors/ins-1/periods/2025-03/payment")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var stored api.PaymentDTO
	decodeBody(t, getResp, &stored)
	if stored.FinalPayment != payment.FinalPayment {
		t.Errorf("stored payment differs: %s vs %s", stored.FinalPayment, payment.FinalPayment)
	}
}

func TestComputePaymentMissingFormulaIs422(t *testing.T) {
	srv, st := newTestServer(t)
	seedMarch(t, st)

	resp := postJSON(t, srv.URL+"/api/classes", map[string]any{
		"instructor_id": "ins-1", "discipline_id": "yoga", "period_id": "2025-03",
		"starts_at": "2025-03-03 18:00", "week_number": 1,
		"spots": 10, "total_reservations": 5,
	})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/payment", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing formula, got %d", resp.StatusCode)
	}
}

func TestRecomputeAfterPaidIs409(t *testing.T) {
	srv, st := newTestServer(t)
	seedMarch(t, st)

	resp := postJSON(t, srv.URL+"/api/classes", map[string]any{
		"instructor_id": "ins-1", "discipline_id": "cycling", "period_id": "2025-03",
		"starts_at": "2025-03-03 18:00", "week_number": 1,
		"spots": 10, "total_reservations": 10,
	})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/payment", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/payment/paid", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 marking paid, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/payment", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 recomputing a paid payment, got %d", resp.StatusCode)
	}
}

func TestPaymentNotFoundIs404(t *testing.T) {
	srv, st := newTestServer(t)
	seedMarch(t, st)

	resp, err := http.Get(srv.URL + "/api/instructors/ins-1/periods/2025-03/payment")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

// =============================================================================
// CATEGORIES AND ADJUSTMENTS
// =============================================================================

func TestCategoryLookupAndOverride(t *testing.T) {
	srv, st := newTestServer(t)
	seedMarch(t, st)

	resp, err := http.Get(srv.URL + "/api/instructors/ins-1/periods/2025-03/categories/cycling")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var dto api.CategoryDTO
	decodeBody(t, resp, &dto)
	if dto.Category != "INSTRUCTOR" {
		t.Errorf("expected base INSTRUCTOR, got %s", dto.Category)
	}

	resp = putJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/categories/cycling",
		map[string]any{"category": "AMBASSADOR"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 setting override, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/instructors/ins-1/periods/2025-03/categories/cycling")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	decodeBody(t, resp, &dto)
	if dto.Category != "AMBASSADOR" {
		t.Errorf("expected override AMBASSADOR, got %s", dto.Category)
	}
}

func TestSetAdjustmentRejectsUnknownType(t *testing.T) {
	srv, st := newTestServer(t)
	seedMarch(t, st)

	resp := putJSON(t, srv.URL+"/api/instructors/ins-1/periods/2025-03/adjustment",
		map[string]any{"type": "bonus", "value": 100})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
