package fundingrounds

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the funding round endpoints (typically at /api/funding-rounds).
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/recent", h.Recent)
	r.Get("/transactions", h.Transactions)
	r.Get("/{id}", h.Detail)

	r.Group(func(w chi.Router) {
		w.Use(writes)
		w.Post("/", h.Create)
		w.Put("/{id}", h.Update)
		w.Patch("/{id}", h.Update)
		w.Delete("/{id}", h.Delete)
		w.Post("/{id}/participants", h.AddParticipant)
	})
	return r
}
