package registrations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the review API (typically at /api/organization-registrations).
// guard wraps every route with the configured authorization policy.
func Routes(h *Handler, guard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(guard)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Detail)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/request_info", h.RequestInfo)
	return r
}

// SignupRoutes mounts the public signup (typically at /api/organization-signup).
// limit throttles submissions per client.
func SignupRoutes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(limit).Post("/", h.Signup)
	r.Get("/", h.SignupStatistics)
	return r
}
