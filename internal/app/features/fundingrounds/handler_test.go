package fundingrounds_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/features/fundingrounds"
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
	h := fundingrounds.NewHandler(db, nil, zap.NewNop())
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Mount("/api/funding-rounds", fundingrounds.Routes(h, open))
	return r, testutil.NewFixtures(t, db)
}

func serve(h http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func day(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }

func TestList_NewestFirstWithExpansion(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCompany(ctx, "Kazana", models.ModerationAccepted)
	inv := fx.CreateInvestor(ctx, "Blue Nile Ventures")
	old := fx.CreateRound(ctx, c.ID, "Seed", day(2022, time.May), 250000)
	fx.CreateRound(ctx, c.ID, "Series A", day(2024, time.January), 2500000)
	fx.CreateParticipation(ctx, old.ID, inv.ID, true)

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/funding-rounds/", nil))
	rec.AssertStatus(t, http.StatusOK)
	var page apiutil.Page[shared.RoundView]
	rec.DecodeJSON(t, &page)
	if page.Count != 2 || page.Results[0].RoundType != "Series A" {
		t.Fatalf("page = %+v", page.Results)
	}
	seed := page.Results[1]
	if seed.Company == nil || seed.Company.Name != "Kazana" {
		t.Errorf("company = %+v", seed.Company)
	}
	if len(seed.Investors) != 1 || !seed.Investors[0].IsLeadInvestor || seed.Investors[0].Investor.Name != "Blue Nile Ventures" {
		t.Errorf("investors = %+v", seed.Investors)
	}
	if seed.MoneyRaisedDisplay != "$250.0K" {
		t.Errorf("money_raised_display = %q", seed.MoneyRaisedDisplay)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/funding-rounds/?round_type=Seed", nil))
	rec.DecodeJSON(t, &page)
	if page.Count != 1 {
		t.Errorf("round_type filter count = %d", page.Count)
	}
}

func TestRecentAndTransactions_AcceptedCompaniesOnly(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ok := fx.CreateCompany(ctx, "Visible", models.ModerationAccepted)
	hidden := fx.CreateCompany(ctx, "Hidden", models.ModerationPending)
	fx.CreateRound(ctx, ok.ID, "Seed", day(2023, time.March), 1000)
	fx.CreateRound(ctx, ok.ID, "Series A", day(2024, time.March), 2000)
	fx.CreateRound(ctx, hidden.ID, "Seed", day(2024, time.June), 3000)

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/funding-rounds/recent", nil))
	rec.AssertStatus(t, http.StatusOK)
	var recent []shared.RoundView
	rec.DecodeJSON(t, &recent)
	if len(recent) != 2 {
		t.Fatalf("recent = %d rounds, want 2", len(recent))
	}

	tests := []struct {
		query string
		want  int64
	}{
		{"", 2},
		{"?year=2024", 1},
		{"?round_type=Seed", 1},
		{"?round_type=Seed&year=2024", 0},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/funding-rounds/transactions"+tc.query, nil))
			rec.AssertStatus(t, http.StatusOK)
			var page apiutil.Page[shared.RoundView]
			rec.DecodeJSON(t, &page)
			if page.Count != tc.want {
				t.Errorf("count = %d, want %d", page.Count, tc.want)
			}
		})
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/funding-rounds/transactions?year=abc", nil))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestCreateAndParticipants(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCompany(ctx, "Kazana", models.ModerationAccepted)
	inv := fx.CreateInvestor(ctx, "Blue Nile Ventures")

	rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/funding-rounds/", map[string]any{
		"company":        c.ID.Hex(),
		"round_type":     "Seed",
		"announced_date": "2024-02-01",
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var created shared.RoundView
	rec.DecodeJSON(t, &created)

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, "/api/funding-rounds/", map[string]any{
		"round_type": "Moonshot",
	}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "company")
	rec.AssertContains(t, "announced_date")

	path := "/api/funding-rounds/" + created.ID.Hex() + "/participants"
	rec = serve(router, testutil.NewRequest(t, http.MethodPost, path, map[string]any{
		"investor":            inv.ID.Hex(),
		"is_lead_investor":    true,
		"amount_invested_usd": 50000,
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var withInvestor shared.RoundView
	rec.DecodeJSON(t, &withInvestor)
	if len(withInvestor.Investors) != 1 {
		t.Fatalf("investors = %+v", withInvestor.Investors)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, path, map[string]any{"investor": inv.ID.Hex()}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "unique set")
}
