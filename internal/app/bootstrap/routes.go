// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	companiesfeature "github.com/dealroom-et/dealroom/internal/app/features/companies"
	consolefeature "github.com/dealroom-et/dealroom/internal/app/features/console"
	contactfeature "github.com/dealroom-et/dealroom/internal/app/features/contact"
	contentfeature "github.com/dealroom-et/dealroom/internal/app/features/content"
	dashboardfeature "github.com/dealroom-et/dealroom/internal/app/features/dashboard"
	ecobuildersfeature "github.com/dealroom-et/dealroom/internal/app/features/ecobuilders"
	fundingroundsfeature "github.com/dealroom-et/dealroom/internal/app/features/fundingrounds"
	healthfeature "github.com/dealroom-et/dealroom/internal/app/features/health"
	industriesfeature "github.com/dealroom-et/dealroom/internal/app/features/industries"
	investorsfeature "github.com/dealroom-et/dealroom/internal/app/features/investors"
	loginfeature "github.com/dealroom-et/dealroom/internal/app/features/login"
	peoplefeature "github.com/dealroom-et/dealroom/internal/app/features/people"
	registrationsfeature "github.com/dealroom-et/dealroom/internal/app/features/registrations"
	submissionsfeature "github.com/dealroom-et/dealroom/internal/app/features/submissions"
	supportorgsfeature "github.com/dealroom-et/dealroom/internal/app/features/supportorgs"
	userinfofeature "github.com/dealroom-et/dealroom/internal/app/features/userinfo"
	"github.com/dealroom-et/dealroom/internal/app/registration"
	"github.com/dealroom-et/dealroom/internal/app/store/audit"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/ratelimit"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. Every route is mounted here explicitly: the JSON
// API under /api, the health check and the admin console under /admin.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:          []byte(appCfg.JWTSecret),
		Issuer:          "dealroom",
		AccessTTL:       appCfg.AccessTokenTTL,
		RefreshTTL:      appCfg.RefreshTokenTTL,
		RefreshHashKey:  []byte(appCfg.RefreshHashKey),
		RefreshBlockKey: []byte(appCfg.RefreshBlockKey),
	})
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Boot the template engine once. Dev mode reloads templates on change.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	audits := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	reviewer := registration.NewMongoReviewer(db, deps.Tx, deps.Events, logger)
	pol := policyFor(appCfg.EnforceStaffWrites)
	limit := func(n int) func(http.Handler) http.Handler {
		return ratelimit.Middleware(ratelimit.New(n, appCfg.RateLimitWindow), logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Bearer tokens are optional; an invalid one is rejected.
		api.Use(auth.Authenticate(tokens))

		api.Mount("/test", healthfeature.ProbeRoutes(healthHandler))

		api.Mount("/companies", companiesfeature.Routes(companiesfeature.NewHandler(db, audits, logger), pol.writes))
		api.Mount("/industries", industriesfeature.Routes(industriesfeature.NewHandler(db, audits, logger), pol.writes))
		api.Mount("/people", peoplefeature.Routes(peoplefeature.NewHandler(db, audits, logger), pol.writes))
		api.Mount("/investors", investorsfeature.Routes(investorsfeature.NewHandler(db, audits, logger), pol.writes))
		api.Mount("/funding-rounds", fundingroundsfeature.Routes(fundingroundsfeature.NewHandler(db, audits, logger), pol.writes))
		api.Mount("/curated-content", contentfeature.Routes(contentfeature.NewHandler(db, audits, logger), pol.writes))

		for _, kind := range models.SupportOrgKinds {
			api.Mount("/"+kind.Collection(), supportorgsfeature.Routes(supportorgsfeature.NewHandler(db, kind, logger), pol.writes))
		}
		api.Mount("/ecosystem-builder-registrations", ecobuildersfeature.Routes(ecobuildersfeature.NewHandler(db, logger), pol.writes))

		regHandler := registrationsfeature.NewHandler(db, reviewer, audits, logger)
		api.Mount("/organization-registrations", registrationsfeature.Routes(regHandler, pol.review))
		api.Mount("/organization-signup", registrationsfeature.SignupRoutes(regHandler, limit(appCfg.SignupRateLimit)))

		subHandler := submissionsfeature.NewHandler(db, deps.Events, audits, logger)
		api.Mount("/company-submissions", submissionsfeature.Routes(subHandler, pol.review))

		contactHandler := contactfeature.NewHandler(db, deps.Events, audits, logger)
		api.Mount("/contact", contactfeature.Routes(contactHandler, limit(appCfg.ContactRateLimit)))
		api.Mount("/contacts", contactfeature.AdminRoutes(contactHandler, pol.staff))

		loginHandler := loginfeature.NewHandler(db, tokens, audits, logger)
		api.Mount("/auth", loginfeature.Routes(loginHandler, limit(appCfg.LoginRateLimit)))
		api.Mount("/userinfo", userinfofeature.Routes(userinfofeature.NewHandler()))

		dashHandler := dashboardfeature.NewHandler(db, logger)
		api.Mount("/dashboard", dashboardfeature.DashboardRoutes(dashHandler))
		api.Mount("/ecosystem", dashboardfeature.EcosystemRoutes(dashHandler))
	})

	consoleHandler := consolefeature.NewHandler(db, sessionMgr, reviewer, audits, logger)
	protect := csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/admin"),
		csrf.CookieName("dealroom_csrf"),
	)
	r.Route("/admin", func(ar chi.Router) {
		if !secure {
			ar.Use(plaintextCSRF)
		}
		ar.Use(protect)
		ar.Use(sessionMgr.Load)
		ar.Mount("/", consolefeature.Routes(consoleHandler, limit(appCfg.LoginRateLimit)))
	})

	return r, nil
}

// plaintextCSRF marks console requests as plain HTTP so the CSRF check
// skips its HTTPS-only Referer validation outside production.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
