package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the curated content endpoints (typically at
// /api/curated-content). Items are addressed by slug.
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/featured", h.Featured)
	r.Get("/by_type", h.ByType)
	r.Get("/{slug}", h.Detail)

	r.Group(func(w chi.Router) {
		w.Use(writes)
		w.Post("/", h.Create)
		w.Put("/{slug}", h.Update)
		w.Patch("/{slug}", h.Update)
		w.Delete("/{slug}", h.Delete)
	})
	return r
}
