/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
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
  /api/role-types/*     Role type catalog
  /api/people/*         People, utilization, leave
  /api/leave/*          Leave period updates
  /api/projects/*       Projects, per-project gaps and requirements
  /api/requirements/*   Requirement lifecycle
  /api/allocations/*    Allocation lifecycle
  /api/gaps/*           Organization-wide gap reports

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - sweeper.go: Background gap summary refresh
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. The
// sweeper serves the cached organization gap summary; pass the one
// started in main.
func NewRouter(h *Handler, sweeper *GapSweeper, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Role type routes
		r.Route("/role-types", func(r chi.Router) {
			r.Get("/", h.ListRoleTypes)
			r.Post("/", h.SaveRoleType)
			r.Delete("/{id}", h.DeleteRoleType)
		})

		// People routes
		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.SavePerson)
			r.Get("/overallocated", h.GetOverAllocated)
			r.Get("/{id}", h.GetPerson)
			r.Delete("/{id}", h.DeletePerson)
			r.Get("/{id}/utilization", h.GetUtilization)
			r.Get("/{id}/leave", h.ListLeave)
			r.Post("/{id}/leave", h.CreateLeave)
		})

		// Leave routes (updates address the leave period directly)
		r.Route("/leave", func(r chi.Router) {
			r.Put("/{id}", h.UpdateLeave)
			r.Delete("/{id}", h.DeleteLeave)
		})

		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.SaveProject)
			r.Get("/{id}", h.GetProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Get("/{id}/gaps", h.GetProjectGaps)
			r.Get("/{id}/requirements", h.ListProjectRequirements)
			r.Get("/{id}/requirements/tree", h.GetRequirementTree)
		})

		// Requirement routes
		r.Route("/requirements", func(r chi.Router) {
			r.Post("/", h.SaveRequirement)
			r.Get("/{id}", h.GetRequirement)
			r.Delete("/{id}", h.DeleteRequirement)
			r.Post("/{id}/ignore", h.IgnoreRequirement)
			r.Post("/{id}/restore", h.RestoreRequirement)
		})

		// Allocation routes
		r.Route("/allocations", func(r chi.Router) {
			r.Post("/", h.SaveAllocation)
			r.Get("/{id}", h.GetAllocation)
			r.Put("/{id}", h.SaveAllocation)
			r.Delete("/{id}", h.DeleteAllocation)
		})

		// Organization gap routes
		r.Route("/gaps", func(r chi.Router) {
			r.Get("/", h.GetOrganizationGaps)
			r.Get("/summary", sweeper.ServeSummary)
		})
	})

	return r
}
