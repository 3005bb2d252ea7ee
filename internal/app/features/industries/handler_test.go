package industries_test

import (
	"net/http"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/features/industries"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupIndexedDB(t)
	h := industries.NewHandler(db, nil, zap.NewNop())
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Mount("/api/industries", industries.Routes(h, open))
	return r, testutil.NewFixtures(t, db)
}

func serve(h http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestList_AcceptedOnlyWithCounts(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fin := fx.CreateIndustry(ctx, "Fintech", models.ModerationAccepted, nil)
	fx.CreateIndustry(ctx, "Agritech", models.ModerationAccepted, nil)
	fx.CreateIndustry(ctx, "Pending Sector", models.ModerationPending, nil)
	fx.CreateCompany(ctx, "Pay One", models.ModerationAccepted, fin.ID)
	fx.CreateCompany(ctx, "Pay Two", models.ModerationPending, fin.ID)

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/industries/?moderation_status=all", nil))
	rec.AssertStatus(t, http.StatusOK)
	var page apiutil.Page[shared.IndustryView]
	rec.DecodeJSON(t, &page)
	if page.Count != 2 {
		t.Fatalf("count = %d, want 2 (moderation parameter must be ignored)", page.Count)
	}
	if page.Results[0].Name != "Agritech" || page.Results[1].Name != "Fintech" {
		t.Errorf("order = %s, %s", page.Results[0].Name, page.Results[1].Name)
	}
	if page.Results[1].CompanyCount != 1 {
		t.Errorf("fintech company_count = %d, want 1", page.Results[1].CompanyCount)
	}
}

func TestCompanies(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ind := fx.CreateIndustry(ctx, "Healthtech", models.ModerationAccepted, nil)
	fx.CreateCompany(ctx, "Clinic", models.ModerationAccepted, ind.ID)
	fx.CreateCompany(ctx, "Hidden Clinic", models.ModerationRejected, ind.ID)

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/industries/"+ind.ID.Hex()+"/companies", nil))
	rec.AssertStatus(t, http.StatusOK)
	var items []shared.CompanyListItem
	rec.DecodeJSON(t, &items)
	if len(items) != 1 || items[0].Name != "Clinic" {
		t.Errorf("companies = %+v", items)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/industries/000000000000000000000000/companies", nil))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestSectors(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tech := fx.CreateIndustry(ctx, "Technology", models.ModerationAccepted, nil)
	fin := fx.CreateIndustry(ctx, "Fintech", models.ModerationAccepted, &tech.ID)
	fx.CreateIndustry(ctx, "Draft Child", models.ModerationPending, &tech.ID)
	agri := fx.CreateIndustry(ctx, "Agriculture", models.ModerationAccepted, nil)

	fx.CreateCompany(ctx, "Pay", models.ModerationAccepted, fin.ID)
	fx.CreateCompany(ctx, "Cloud", models.ModerationAccepted, tech.ID)
	fx.CreateCompany(ctx, "Both", models.ModerationAccepted, tech.ID, fin.ID)
	fx.CreateCompany(ctx, "Farm", models.ModerationAccepted, agri.ID)

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/industries/sectors", nil))
	rec.AssertStatus(t, http.StatusOK)
	var got []industries.Sector
	rec.DecodeJSON(t, &got)
	if len(got) != 2 {
		t.Fatalf("sectors = %d, want 2", len(got))
	}
	if got[0].Name != "Technology" || got[0].CompanyCount != 3 {
		t.Errorf("first sector = %s (%d), want Technology (3)", got[0].Name, got[0].CompanyCount)
	}
	if len(got[0].SubIndustries) != 1 || got[0].SubIndustries[0].CompanyCount != 2 {
		t.Errorf("sub industries = %+v", got[0].SubIndustries)
	}
	if got[1].Name != "Agriculture" || got[1].CompanyCount != 1 {
		t.Errorf("second sector = %s (%d)", got[1].Name, got[1].CompanyCount)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	parent := fx.CreateIndustry(ctx, "Technology", models.ModerationAccepted, nil)

	rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/industries/", map[string]any{
		"name":            "Edtech",
		"parent_industry": parent.ID.Hex(),
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var created shared.IndustryView
	rec.DecodeJSON(t, &created)
	if created.Slug != "edtech" || created.ParentID == nil || *created.ParentID != parent.ID {
		t.Fatalf("created = %+v", created)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, "/api/industries/", map[string]any{"name": "Edtech"}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "industry with this name already exists.")

	rec = serve(router, testutil.NewRequest(t, http.MethodPatch, "/api/industries/"+created.ID.Hex(), map[string]any{
		"parent_industry":   "",
		"moderation_status": "accepted",
	}))
	rec.AssertStatus(t, http.StatusOK)
	var updated shared.IndustryView
	rec.DecodeJSON(t, &updated)
	if updated.ParentID != nil || updated.ModerationStatus != models.ModerationAccepted || updated.Name != "Edtech" {
		t.Errorf("updated = %+v", updated)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPatch, "/api/industries/"+created.ID.Hex(), map[string]any{
		"parent_industry": created.ID.Hex(),
	}))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, testutil.NewRequest(t, http.MethodDelete, "/api/industries/"+created.ID.Hex(), nil))
	rec.AssertStatus(t, http.StatusNoContent)
	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/industries/"+created.ID.Hex(), nil))
	rec.AssertStatus(t, http.StatusNotFound)
}
