package fundingroundstore_test

import (
	"errors"
	"testing"
	"time"

	fundingroundstore "github.com/dealroom-et/dealroom/internal/app/store/fundingrounds"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAddParticipation_UniquePair(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := fundingroundstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := fixtures.CreateCompany(ctx, "Gebeya", models.ModerationAccepted)
	inv := fixtures.CreateInvestor(ctx, "Partech")
	round := fixtures.CreateRound(ctx, co.ID, "Series A", time.Now(), 2e6)

	p := models.FundingRoundParticipation{FundingRoundID: round.ID, InvestorID: inv.ID, IsLeadInvestor: true}
	if _, err := store.AddParticipation(ctx, p); err != nil {
		t.Fatalf("AddParticipation: %v", err)
	}
	if _, err := store.AddParticipation(ctx, p); !errors.Is(err, fundingroundstore.ErrDuplicateParticipation) {
		t.Errorf("second AddParticipation = %v", err)
	}
}

func TestListForAccepted(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := fundingroundstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pub := fixtures.CreateCompany(ctx, "Public Co", models.ModerationAccepted)
	hidden := fixtures.CreateCompany(ctx, "Hidden Co", models.ModerationPending)
	fixtures.CreateRound(ctx, pub.ID, "Seed", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), 1e5)
	newest := fixtures.CreateRound(ctx, pub.ID, "Series A", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 1e6)
	fixtures.CreateRound(ctx, hidden.ID, "Seed", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 1e5)

	rows, total, err := store.ListForAccepted(ctx, nil, 0, 20)
	if err != nil {
		t.Fatalf("ListForAccepted: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", total, len(rows))
	}
	if rows[0].ID != newest.ID {
		t.Errorf("first row = %v, want newest %v", rows[0].ID, newest.ID)
	}

	rows, total, err = store.ListForAccepted(ctx, bson.M{"announced_date": fundingroundstore.YearRange(2023)}, 0, 20)
	if err != nil {
		t.Fatalf("ListForAccepted year: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].RoundType != "Seed" {
		t.Errorf("2023 rows = %d %+v", total, rows)
	}
}

func TestPortfolio(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := fundingroundstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateCompany(ctx, "A", models.ModerationAccepted)
	b := fixtures.CreateCompany(ctx, "B", models.ModerationAccepted)
	inv := fixtures.CreateInvestor(ctx, "Fund")
	r1 := fixtures.CreateRound(ctx, a.ID, "Seed", time.Now(), 1)
	r2 := fixtures.CreateRound(ctx, a.ID, "Series A", time.Now(), 2)
	r3 := fixtures.CreateRound(ctx, b.ID, "Seed", time.Now(), 3)
	for _, r := range []models.FundingRound{r1, r2, r3} {
		fixtures.CreateParticipation(ctx, r.ID, inv.ID, false)
	}

	ids, err := store.PortfolioCompanyIDs(ctx, inv.ID)
	if err != nil {
		t.Fatalf("PortfolioCompanyIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("portfolio = %v, want 2 distinct companies", ids)
	}
	n, err := store.CountForInvestor(ctx, inv.ID)
	if err != nil || n != 3 {
		t.Errorf("CountForInvestor = %d, %v; want 3", n, err)
	}
}
