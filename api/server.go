/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the admin frontend

ROUTE GROUPS:
  /api/periods/*       Period and formula management
  /api/formulas/*      Formula documents
  /api/classes, /api/penalties, ...   Record ingestion
  /api/instructors/*   Per-instructor payroll operations
  /healthz             Liveness probe
  /metrics             Prometheus metrics

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ridepulse/payroll-engine/metrics"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", h.ListPeriods)
			r.Post("/", h.CreatePeriod)
			r.Get("/{id}", h.GetPeriod)
			r.Get("/{id}/formulas", h.ListFormulas)
		})

		// Formula routes
		r.Route("/formulas", func(r chi.Router) {
			r.Post("/", h.CreateFormula)
			r.Get("/{discipline}/{period}", h.GetFormula)
		})

		// Record ingestion routes
		r.Post("/classes", h.CreateClass)
		r.Post("/penalties", h.CreatePenalty)
		r.Post("/covers", h.CreateCover)
		r.Post("/brandings", h.CreateBranding)
		r.Post("/theme-rides", h.CreateThemeRide)
		r.Post("/workshops", h.CreateWorkshop)
		r.Post("/events", h.CreateEvent)

		// Instructor routes
		r.Route("/instructors/{id}", func(r chi.Router) {
			r.Put("/profile", h.SetProfile)

			r.Route("/periods/{periodID}", func(r chi.Router) {
				r.Get("/classes", h.ListClasses)
				r.Get("/categories/{discipline}", h.GetCategory)
				r.Put("/categories/{discipline}", h.SetCategory)
				r.Put("/adjustment", h.SetAdjustment)
				r.Post("/payment", h.ComputePayment)
				r.Get("/payment", h.GetPayment)
				r.Post("/payment/paid", h.MarkPaymentPaid)
			})
		})
	})

	// Operational endpoints
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
