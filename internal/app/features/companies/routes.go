package companies

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the company endpoints (typically at /api/companies). writes
// wraps the mutating routes with the configured authorization policy.
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/statistics", h.Statistics)
	r.Get("/{key}", h.Detail)

	r.Group(func(w chi.Router) {
		w.Use(writes)
		w.Post("/", h.Create)
		w.Put("/{id}", h.Update)
		w.Patch("/{id}", h.Update)
		w.Delete("/{id}", h.Delete)
	})
	return r
}
