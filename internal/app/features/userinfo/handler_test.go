package userinfo_test

import (
	"net/http"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/features/userinfo"
	"github.com/dealroom-et/dealroom/internal/testutil"
)

type body struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsStaff         bool   `json:"is_staff"`
}

func TestServeUserInfo(t *testing.T) {
	router := userinfo.Routes(userinfo.NewHandler())

	tests := []struct {
		name string
		req  *http.Request
		want body
	}{
		{"anonymous", testutil.NewRequest(t, http.MethodGet, "/", nil), body{}},
		{"member", testutil.WithPrincipal(testutil.NewRequest(t, http.MethodGet, "/", nil), testutil.RegularUser()),
			body{IsAuthenticated: true, Username: "member", Email: "member@test.et"}},
		{"staff", testutil.WithPrincipal(testutil.NewRequest(t, http.MethodGet, "/", nil), testutil.StaffUser()),
			body{IsAuthenticated: true, Username: "reviewer", Email: "reviewer@test.et", IsStaff: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, tc.req)
			rec.AssertStatus(t, http.StatusOK)
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var got body
			rec.DecodeJSON(t, &got)
			if got != tc.want {
				t.Errorf("body = %+v, want %+v", got, tc.want)
			}
		})
	}
}
