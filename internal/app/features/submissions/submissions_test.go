package submissions_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/features/submissions"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupIndexedDB(t)
	h := submissions.NewHandler(db, nil, nil, zap.NewNop())
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Mount("/api/company-submissions", submissions.Routes(h, open))
	return r, testutil.NewFixtures(t, db)
}

func serve(h http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func submit(t *testing.T, router http.Handler, body map[string]any) submissions.View {
	t.Helper()
	rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/company-submissions/", body))
	rec.AssertStatus(t, http.StatusCreated)
	var v submissions.View
	rec.DecodeJSON(t, &v)
	return v
}

func validBody() map[string]any {
	return map[string]any{
		"name":              "Chapa Financial",
		"short_description": "Payment gateway",
		"hq_country":        "Ethiopia",
		"hq_city":           "Addis Ababa",
		"contact_email":     "hi@chapa.co",
		"tags":              "payments, fintech, ,api",
		"employee_count":    "11-50",
	}
}

func TestCreate_DefaultsAndSlug(t *testing.T) {
	router, _ := newRouter(t)

	v := submit(t, router, validBody())
	if v.ModerationStatus != models.SubmissionPending || v.Status != "Operating" {
		t.Errorf("status = %s/%s", v.ModerationStatus, v.Status)
	}
	if !strings.HasPrefix(v.Slug, "chapa-financial-") || len(v.Slug) != len("chapa-financial-")+8 {
		t.Errorf("slug = %q", v.Slug)
	}
	if strings.Join(v.TagList, "|") != "payments|fintech|api" {
		t.Errorf("tag list = %v", v.TagList)
	}

	other := submit(t, router, validBody())
	if other.Slug == v.Slug {
		t.Error("same name must still get a distinct slug")
	}
}

func TestCreate_Validation(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name  string
		edit  func(map[string]any)
		field string
	}{
		{"missing email", func(b map[string]any) { delete(b, "contact_email") }, "contact_email"},
		{"blank city", func(b map[string]any) { b["hq_city"] = " " }, "hq_city"},
		{"bad company type", func(b map[string]any) { b["company_type"] = "Coop" }, "company_type"},
		{"bad employee count", func(b map[string]any) { b["employee_count"] = "12" }, "employee_count"},
		{"bad website", func(b map[string]any) { b["website"] = "chapa" }, "website"},
		{"unknown industry", func(b map[string]any) { b["industry_ids"] = []string{"nope"} }, "industry_ids"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := validBody()
			tc.edit(body)
			rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/company-submissions/", body))
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, tc.field)
		})
	}
}

func TestReviewActions(t *testing.T) {
	router, _ := newRouter(t)
	v := submit(t, router, validBody())
	base := "/api/company-submissions/" + v.ID.Hex()

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodPost, base+"/request_revision", map[string]string{"reason": "Add a logo"}), testutil.StaffUser())
	rec := serve(router, req)
	rec.AssertStatus(t, http.StatusOK)
	var got submissions.View
	rec.DecodeJSON(t, &got)
	if got.ModerationStatus != models.SubmissionNeedsRevision || got.RejectionReason != "Add a logo" || got.ReviewedBy != "reviewer" || got.ReviewedAt == nil {
		t.Errorf("after request_revision: %+v", got.CompanySubmission)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, base+"/approve", nil))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.ModerationStatus != models.SubmissionApproved || got.RejectionReason != "Add a logo" {
		t.Errorf("after approve: %+v", got.CompanySubmission)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/company-submissions/?moderation_status=approved", nil))
	var page apiutil.Page[submissions.View]
	rec.DecodeJSON(t, &page)
	if page.Count != 1 {
		t.Errorf("approved count = %d", page.Count)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodDelete, base, nil))
	rec.AssertStatus(t, http.StatusNoContent)
	rec = serve(router, testutil.NewRequest(t, http.MethodPost, base+"/reject", nil))
	rec.AssertStatus(t, http.StatusNotFound)
}
