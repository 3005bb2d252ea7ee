package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(auth.TokenConfig{
		Secret:          []byte("test-secret-that-is-long-enough-for-hs256"),
		Issuer:          "dealroom-test",
		AccessTTL:       5 * time.Minute,
		RefreshTTL:      24 * time.Hour,
		RefreshHashKey:  []byte("0123456789abcdef0123456789abcdef"),
		RefreshBlockKey: []byte("fedcba9876543210fedcba9876543210"),
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func testUser(staff bool) models.User {
	return models.User{ID: primitive.NewObjectID(), Username: "abebe", Email: "abebe@example.et", IsStaff: staff}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ts := newTokens(t)
	u := testUser(true)

	tok, err := ts.IssueAccess(u)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	p, err := ts.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if p.UserID != u.ID.Hex() || p.Username != "abebe" || p.Email != "abebe@example.et" || !p.IsStaff {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestParseAccess_RejectsTamperedAndRefresh(t *testing.T) {
	ts := newTokens(t)
	u := testUser(false)

	tok, _ := ts.IssueAccess(u)
	if _, err := ts.ParseAccess(tok + "x"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("tampered token error = %v, want ErrInvalidToken", err)
	}

	refresh, _ := ts.IssueRefresh(u)
	if _, err := ts.ParseAccess(refresh); err == nil {
		t.Error("refresh token must not be accepted as access token")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	ts := newTokens(t)
	u := testUser(false)

	pair, err := ts.IssuePair(u)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	id, err := ts.ParseRefresh(pair.Refresh)
	if err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
	if id != u.ID.Hex() {
		t.Errorf("user id = %q, want %q", id, u.ID.Hex())
	}
	if _, err := ts.ParseRefresh(pair.Access); err == nil {
		t.Error("access token must not decode as refresh token")
	}
}

func TestAuthenticate(t *testing.T) {
	ts := newTokens(t)
	tok, _ := ts.IssueAccess(testUser(false))

	var seen auth.Principal
	var had bool
	h := auth.Authenticate(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, had = auth.CurrentPrincipal(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantAuth bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"valid bearer", "Bearer " + tok, http.StatusOK, true},
		{"bad scheme", "Basic abc", http.StatusUnauthorized, false},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			had = false
			r := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if had != tc.wantAuth {
				t.Fatalf("principal present = %v, want %v", had, tc.wantAuth)
			}
			if tc.wantAuth && seen.Username != "abebe" {
				t.Errorf("username = %q", seen.Username)
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := auth.RequireStaff(ok)

	tests := []struct {
		name string
		p    *auth.Principal
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &auth.Principal{UserID: "1", Username: "m"}, http.StatusForbidden},
		{"staff", &auth.Principal{UserID: "2", Username: "s", IsStaff: true}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.p != nil {
				r = r.WithContext(auth.WithPrincipal(r.Context(), *tc.p))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestStaffWritesIf(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	open := auth.StaffWritesIf(false)(ok)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("unenforced POST = %d, want 200", rec.Code)
	}

	gated := auth.StaffWritesIf(true)(ok)
	rec = httptest.NewRecorder()
	gated.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("enforced GET = %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	gated.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("enforced anonymous POST = %d, want 401", rec.Code)
	}
}

func TestSessionManager_LoginThenLoad(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "admin", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	if err := sm.Login(rec, r, auth.Principal{UserID: "u1", Username: "staffer", IsStaff: true}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got auth.Principal
	h := sm.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentPrincipal(r)
	}))
	r2 := httptest.NewRequest(http.MethodGet, "/admin/registrations", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), r2)

	if got.Username != "staffer" || !got.IsStaff {
		t.Errorf("loaded principal = %+v", got)
	}
}

func TestReviewerName(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	if got := auth.ReviewerName(r); got != auth.SystemReviewer {
		t.Errorf("anonymous reviewer = %q, want %q", got, auth.SystemReviewer)
	}
	r = r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{Username: "meseret", IsStaff: true}))
	if got := auth.ReviewerName(r); got != "meseret" {
		t.Errorf("reviewer = %q", got)
	}
}
