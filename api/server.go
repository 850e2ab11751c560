/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/people/*          Punches, attendance days, shifts, status
  /api/status-periods/*  Period deletion by id
  /api/settings          Organization settings

SECURITY NOTE:
  No authentication middleware. Expected to run behind the main app's
  reverse proxy, which owns sessions.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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

	r.Route("/api", func(r chi.Router) {
		r.Route("/people/{id}", func(r chi.Router) {
			r.Post("/check-in", h.CheckIn)
			r.Post("/check-out", h.CheckOut)

			r.Get("/attendance/{date}", h.GetAttendanceDay)
			r.Post("/attendance/{date}/recompute", h.RecomputeAttendanceDay)
			r.Put("/shifts/{date}", h.SetShift)

			r.Get("/status-periods", h.ListStatusPeriods)
			r.Post("/status-periods", h.AddStatusPeriod)
			r.Get("/status", h.GetCurrentStatus)
		})

		r.Delete("/status-periods/{id}", h.DeleteStatusPeriod)

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
	})

	return r
}
