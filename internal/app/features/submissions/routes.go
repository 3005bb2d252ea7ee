package submissions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts company submissions (typically at /api/company-submissions).
// Anyone may submit; review actions and edits go through guard.
func Routes(h *Handler, guard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Detail)
	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
		r.Post("/{id}/request_revision", h.RequestRevision)
	})
	return r
}
