package dashboard

import "github.com/go-chi/chi/v5"

// DashboardRoutes is mounted at /api/dashboard.
func DashboardRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Dashboard)
	return r
}

// EcosystemRoutes is mounted at /api/ecosystem.
func EcosystemRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Ecosystem)
	return r
}
