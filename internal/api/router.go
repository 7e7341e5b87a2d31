package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Panel endpoints
		r.Route("/panels", func(r chi.Router) {
			r.Get("/", s.handleListPanels)
			r.Post("/", s.handleCreatePanel)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetPanel)
				r.Patch("/", s.handleUpdatePanel)
				r.Delete("/", s.handleDeletePanel)

				// Device registry scoped to a panel
				r.Route("/devices", func(r chi.Router) {
					r.Get("/", s.handleListDevices)
					r.Post("/", s.handleCreateDevice)
					r.Put("/", s.handleBulkUpsertDevices)
					r.Post("/bulk", s.handleBulkCreateDevices)
					r.Post("/replace", s.handleReplaceAllDevices)

					r.Route("/{deviceId}", func(r chi.Router) {
						r.Get("/", s.handleGetDevice)
						r.Patch("/", s.handleUpdateDevice)
						r.Delete("/", s.handleDeleteDevice)
					})
				})

				// Inspections scoped to a panel
				r.Get("/inspections", s.handleListInspections)
				r.Post("/inspections", s.handleStartInspection)
			})
		})

		// Inspection endpoints
		r.Route("/inspections/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetInspection)
			r.Delete("/", s.handleDeleteInspection)
			r.Get("/checklist", s.handleGetChecklist)
			r.Post("/finalize", s.handleFinalizeInspection)
			r.Put("/results/{deviceId}", s.handleRecordResult)
			r.Put("/results", s.handleRecordResultsBulk)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := s.db.HealthCheck(r.Context()); err != nil {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": s.version,
	})
}
