package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/auth"
)

func validConfig() AppConfig {
	return AppConfig{
		JWTSecret:       strings.Repeat("j", 32),
		SessionKey:      strings.Repeat("s", 32),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		RefreshHashKey:  strings.Repeat("h", 32),
		RefreshBlockKey: strings.Repeat("b", 16),
		AuditLogAuth:    "all",
		AuditLogAdmin:   "db",
	}
}

func TestValidateApp(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid prod", "prod", func(*AppConfig) {}, ""},
		{"refresh not longer than access", "dev", func(c *AppConfig) { c.RefreshTokenTTL = c.AccessTokenTTL }, "refresh_token_ttl"},
		{"zero access ttl", "dev", func(c *AppConfig) { c.AccessTokenTTL = 0 }, "access_token_ttl"},
		{"bad hash key", "dev", func(c *AppConfig) { c.RefreshHashKey = "short" }, "refresh_hash_key"},
		{"bad block key", "dev", func(c *AppConfig) { c.RefreshBlockKey = strings.Repeat("b", 20) }, "refresh_block_key"},
		{"unknown audit destination", "dev", func(c *AppConfig) { c.AuditLogAdmin = "kafka" }, "audit log destination"},
		{"short jwt secret in prod", "prod", func(c *AppConfig) { c.JWTSecret = "tiny" }, "jwt_secret"},
		{"short jwt secret in dev", "dev", func(c *AppConfig) { c.JWTSecret = "tiny" }, ""},
		{"short session key in prod", "prod", func(c *AppConfig) { c.SessionKey = "tiny" }, "session_key"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := validateApp(tc.env, cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestPolicyFor(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	member := auth.Principal{UserID: "1", Username: "member"}

	call := func(gate func(http.Handler) http.Handler, method string, p *auth.Principal) int {
		r := httptest.NewRequest(method, "/", nil)
		if p != nil {
			r = r.WithContext(auth.WithPrincipal(r.Context(), *p))
		}
		rec := httptest.NewRecorder()
		gate(ok).ServeHTTP(rec, r)
		return rec.Code
	}

	open := policyFor(false)
	if got := call(open.writes, http.MethodPost, nil); got != http.StatusOK {
		t.Errorf("open writes = %d, want 200", got)
	}
	if got := call(open.review, http.MethodPost, nil); got != http.StatusOK {
		t.Errorf("open review = %d, want 200", got)
	}
	if got := call(open.staff, http.MethodGet, nil); got != http.StatusUnauthorized {
		t.Errorf("contacts admin without auth = %d, want 401", got)
	}

	strict := policyFor(true)
	if got := call(strict.writes, http.MethodGet, nil); got != http.StatusOK {
		t.Errorf("strict reads = %d, want 200", got)
	}
	if got := call(strict.writes, http.MethodPatch, &member); got != http.StatusForbidden {
		t.Errorf("strict member write = %d, want 403", got)
	}
	if got := call(strict.review, http.MethodGet, nil); got != http.StatusUnauthorized {
		t.Errorf("strict review list = %d, want 401", got)
	}
}
