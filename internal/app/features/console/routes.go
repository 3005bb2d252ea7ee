package console

import (
	"net/http"
	"net/url"

	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the console under /admin. The session middleware of
// h.Sessions must run before this router; limit throttles sign-in attempts.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.ServeLogin)
	r.With(limit).Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(RequireStaff)

		pr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/registrations", http.StatusSeeOther)
		})
		pr.Get("/registrations", h.ServeRegistrations)
		pr.Post("/registrations/{id}/{action}", h.HandleReview)
		pr.Get("/moderation", h.ServeModeration)
		pr.Post("/moderation/{collection}/{id}", h.HandleModerate)
		pr.Get("/audit", h.ServeAudit)
	})

	return r
}

// RequireStaff sends anonymous visitors to the sign-in page and refuses
// signed-in users without staff rights.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.CurrentPrincipal(r)
		if !ok {
			http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		if !p.IsStaff {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
