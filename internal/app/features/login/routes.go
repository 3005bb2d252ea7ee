package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the token endpoints (typically at /api/auth). limit throttles
// login attempts per client.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.With(limit).Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	return r
}
