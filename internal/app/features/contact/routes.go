package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the public form (typically at /api/contact). limit throttles
// submissions per client.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(limit).Post("/", h.Submit)
	return r
}

// AdminRoutes mounts the staff inbox (typically at /api/contacts).
func AdminRoutes(h *Handler, staff func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(staff)
	r.Get("/", h.List)
	r.Post("/", h.Submit)
	r.Get("/{id}", h.Detail)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/mark_resolved", h.MarkResolved)
	r.Post("/{id}/add_notes", h.AddNotes)
	return r
}
