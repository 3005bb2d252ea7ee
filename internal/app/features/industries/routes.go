package industries

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the industry endpoints (typically at /api/industries).
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/sectors", h.Sectors)
	r.Get("/{id}", h.Detail)
	r.Get("/{id}/companies", h.Companies)

	r.Group(func(w chi.Router) {
		w.Use(writes)
		w.Post("/", h.Create)
		w.Put("/{id}", h.Update)
		w.Patch("/{id}", h.Update)
		w.Delete("/{id}", h.Delete)
	})
	return r
}
