package investors_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/features/investors"
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
	h := investors.NewHandler(db, nil, zap.NewNop())
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Mount("/api/investors", investors.Routes(h, open))
	return r, testutil.NewFixtures(t, db)
}

func serve(h http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestList_Filters(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateInvestor(ctx, "Blue Nile Ventures")
	fx.CreateInvestor(ctx, "Abyssinia Capital")

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/investors/?investor_type=VC&hq_country=Ethiopia", nil))
	rec.AssertStatus(t, http.StatusOK)
	var page apiutil.Page[shared.InvestorView]
	rec.DecodeJSON(t, &page)
	if page.Count != 2 || page.Results[0].Name != "Abyssinia Capital" {
		t.Fatalf("page = %+v", page.Results)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/investors/?investor_type=Angel", nil))
	rec.DecodeJSON(t, &page)
	if page.Count != 0 {
		t.Errorf("angel count = %d, want 0", page.Count)
	}
}

func TestPortfolio(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inv := fx.CreateInvestor(ctx, "Blue Nile Ventures")
	visible := fx.CreateCompany(ctx, "Visible Co", models.ModerationAccepted)
	hidden := fx.CreateCompany(ctx, "Hidden Co", models.ModerationPending)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r1 := fx.CreateRound(ctx, visible.ID, models.RoundType("Seed"), day, 100000)
	r2 := fx.CreateRound(ctx, visible.ID, models.RoundType("Series A"), day.AddDate(0, 6, 0), 500000)
	r3 := fx.CreateRound(ctx, hidden.ID, models.RoundType("Seed"), day, 50000)
	fx.CreateParticipation(ctx, r1.ID, inv.ID, true)
	fx.CreateParticipation(ctx, r2.ID, inv.ID, false)
	fx.CreateParticipation(ctx, r3.ID, inv.ID, false)

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/investors/"+inv.ID.Hex()+"/portfolio", nil))
	rec.AssertStatus(t, http.StatusOK)
	var items []shared.CompanyListItem
	rec.DecodeJSON(t, &items)
	if len(items) != 1 || items[0].ID != visible.ID {
		t.Errorf("portfolio = %+v", items)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/investors/"+inv.ID.Hex(), nil))
	rec.AssertStatus(t, http.StatusOK)
	var view shared.InvestorView
	rec.DecodeJSON(t, &view)
	if view.PortfolioCount != 1 || view.TotalInvestments != 3 {
		t.Errorf("portfolio_count = %d total_investments = %d, want 1 and 3", view.PortfolioCount, view.TotalInvestments)
	}
}

func TestCreate(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ind := fx.CreateIndustry(ctx, "Fintech", models.ModerationAccepted, nil)

	rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/investors/", map[string]any{
		"name":               "Lucy Angels",
		"investor_type":      "Angel",
		"industry_focus_ids": []string{ind.ID.Hex()},
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var view shared.InvestorView
	rec.DecodeJSON(t, &view)
	if view.Slug != "lucy-angels" || len(view.IndustriesFocus) != 1 || view.IndustriesFocus[0].Name != "Fintech" {
		t.Errorf("created = %+v", view)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, "/api/investors/", map[string]any{
		"name":          "Lucy Angels",
		"investor_type": "Angel",
	}))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, "/api/investors/", map[string]any{
		"name":          "Bad Type",
		"investor_type": "Pirate",
	}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "investor_type")
}
