// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Principal is the authenticated caller, from a bearer token or an admin
// console session.
type Principal struct {
	UserID   string
	Username string
	Email    string
	IsStaff  bool
}

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal and whether one is present.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// CurrentPrincipal is FromContext for a request.
func CurrentPrincipal(r *http.Request) (Principal, bool) {
	return FromContext(r.Context())
}

// IsStaff reports whether the request is made by a staff user.
func IsStaff(r *http.Request) bool {
	p, ok := CurrentPrincipal(r)
	return ok && p.IsStaff
}

// SystemReviewer is stamped on transitions made without an authenticated caller.
const SystemReviewer = "system"

// ReviewerName is the identity stamped on review transitions.
func ReviewerName(r *http.Request) string {
	if p, ok := CurrentPrincipal(r); ok && p.Username != "" {
		return p.Username
	}
	return SystemReviewer
}

// Authenticate resolves an optional "Authorization: Bearer" header. Requests
// without the header pass through anonymously; an invalid token is rejected.
func Authenticate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				next.ServeHTTP(w, r)
				return
			}
			scheme, tok, found := strings.Cut(h, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
				deny(w, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
				return
			}
			p, err := tokens.ParseAccess(strings.TrimSpace(tok))
			if err != nil {
				deny(w, http.StatusUnauthorized, "Given token not valid for any token type")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentPrincipal(r); !ok {
			deny(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects anonymous callers with 401 and non-staff with 403.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := CurrentPrincipal(r)
		if !ok {
			deny(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !p.IsStaff {
			deny(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StaffIf applies RequireStaff only when enforce is set.
func StaffIf(enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		return RequireStaff(next)
	}
}

// StaffWritesIf gates unsafe methods behind RequireStaff when enforce is set.
// GET, HEAD and OPTIONS always pass.
func StaffWritesIf(enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		gated := RequireStaff(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				gated.ServeHTTP(w, r)
			}
		})
	}
}

func deny(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
