package health

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the health endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve) // mounted under /health
	return r
}

// ProbeRoutes is mounted under /api/test.
func ProbeRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Probe)
	return r
}
