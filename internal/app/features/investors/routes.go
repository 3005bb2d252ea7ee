package investors

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the investor endpoints (typically at /api/investors).
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Detail)
	r.Get("/{id}/portfolio", h.Portfolio)

	r.Group(func(w chi.Router) {
		w.Use(writes)
		w.Post("/", h.Create)
		w.Put("/{id}", h.Update)
		w.Patch("/{id}", h.Update)
		w.Delete("/{id}", h.Delete)
	})
	return r
}
