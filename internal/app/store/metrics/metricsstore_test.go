package metricsstore_test

import (
	"context"
	"testing"
	"time"

	metricsstore "github.com/dealroom-et/dealroom/internal/app/store/metrics"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDashboard_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d, err := metricsstore.New(db).Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.Overview != (metricsstore.DashboardOverview{}) {
		t.Errorf("overview = %+v, want zeros", d.Overview)
	}
	if d.RecentCompanies == nil || d.RecentFunding == nil || d.IndustryStats == nil || d.MonthlyFunding == nil {
		t.Error("lists must be empty, not nil")
	}
}

func TestEcosystem_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, err := metricsstore.New(db).Ecosystem(ctx, time.Now())
	if err != nil {
		t.Fatalf("Ecosystem: %v", err)
	}
	if e.Overview != (metricsstore.EcosystemOverview{}) {
		t.Errorf("overview = %+v, want zeros", e.Overview)
	}
	if e.TopIndustries == nil || e.GeographicDistribution == nil {
		t.Error("lists must be empty, not nil")
	}
}

func TestDashboard_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fin := fixtures.CreateIndustry(ctx, "Fintech", models.ModerationAccepted, nil)
	a := fixtures.CreateCompany(ctx, "Chapa", models.ModerationAccepted, fin.ID)
	fixtures.CreateCompany(ctx, "Telebirr", models.ModerationAccepted, fin.ID)
	hidden := fixtures.CreateCompany(ctx, "Hidden", models.ModerationPending, fin.ID)
	setFunding(ctx, t, db.Collection("companies"), a.ID, 1_500_000)
	setFunding(ctx, t, db.Collection("companies"), hidden.ID, 9_000_000)
	fixtures.CreateRound(ctx, a.ID, "Seed", time.Now(), 250_000)
	fixtures.CreateRound(ctx, hidden.ID, "Seed", time.Now(), 1)
	fixtures.CreateInvestor(ctx, "Renew")

	d, err := metricsstore.New(db).Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	o := d.Overview
	if o.TotalCompanies != 2 || o.ActiveCompanies != 2 || o.TotalInvestors != 1 || o.TotalRounds != 1 {
		t.Errorf("overview = %+v", o)
	}
	if o.TotalFunding != 1_500_000 {
		t.Errorf("total funding = %v, want only accepted companies with absent values as zero", o.TotalFunding)
	}
	if len(d.RecentFunding) != 1 || d.RecentFunding[0].CompanyName != "Chapa" {
		t.Errorf("recent funding = %+v", d.RecentFunding)
	}
	if len(d.IndustryStats) != 1 || d.IndustryStats[0].CompanyCount != 2 {
		t.Errorf("industry stats = %+v", d.IndustryStats)
	}
}

func TestCompanyStatistics_UnknownBuckets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fixtures.CreateCompany(ctx, "NoCountry", models.ModerationAccepted)
	fixtures.CreateCompany(ctx, "Addis Co", models.ModerationAccepted)
	if _, err := db.Collection("companies").UpdateByID(ctx, c.ID, bson.M{"$unset": bson.M{"hq_country": ""}}); err != nil {
		t.Fatalf("unset: %v", err)
	}

	st, err := metricsstore.New(db).CompanyStatistics(ctx)
	if err != nil {
		t.Fatalf("CompanyStatistics: %v", err)
	}
	if st.TotalCompanies != 2 {
		t.Errorf("total = %d", st.TotalCompanies)
	}
	found := false
	for _, b := range st.ByCountry {
		if b.HQCountry == "Unknown" && b.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("by_country = %+v, want an Unknown bucket", st.ByCountry)
	}
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		this, last int64
		want       float64
	}{
		{5, 0, 0},
		{10, 5, 100},
		{5, 10, -50},
		{0, 0, 0},
	}
	for _, tc := range tests {
		if got := metricsstore.GrowthRate(tc.this, tc.last); got != tc.want {
			t.Errorf("GrowthRate(%d, %d) = %v, want %v", tc.this, tc.last, got, tc.want)
		}
	}
}

func setFunding(ctx context.Context, t *testing.T, c *mongo.Collection, id primitive.ObjectID, amount float64) {
	t.Helper()
	if _, err := c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"total_funding_raised_usd": amount}}); err != nil {
		t.Fatalf("set funding: %v", err)
	}
}
