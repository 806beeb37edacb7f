/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*   Employees, their trips and compliance computations
  /api/trips/*       Trip edits and deletes
  /api/dashboard     Company-wide standing
  /api/reports/*     Exportable reports
  /api/config/*      Per-company thresholds
  /api/scenarios/*   Demo scenarios
  /metrics           Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware; auth/session enforcement lives in the
  surrounding product, not in this computation service.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)

			r.Get("/{id}/trips", h.ListTrips)
			r.Post("/{id}/trips", h.CreateTrip)
			r.Post("/{id}/trips/check", h.CheckOverlap)

			r.Get("/{id}/window", h.GetWindow)
			r.Get("/{id}/timeline", h.GetTimeline)
			r.Post("/{id}/forecast", h.Forecast)
		})

		// Trip routes
		r.Route("/trips", func(r chi.Router) {
			r.Put("/{id}", h.UpdateTrip)
			r.Delete("/{id}", h.DeleteTrip)
		})

		// Company-wide routes
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/reports/compliance", h.GetComplianceReport)

		// Config routes
		r.Route("/config", func(r chi.Router) {
			r.Get("/{companyID}", h.GetRuleConfig)
			r.Put("/{companyID}", h.PutRuleConfig)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
