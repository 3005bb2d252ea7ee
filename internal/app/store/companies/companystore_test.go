package companystore_test

import (
	"errors"
	"testing"
	"time"

	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_DefaultsAndSlug(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := companystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Company{Name: "  Ride Ethiopia "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Ride Ethiopia" || c.Slug != "ride-ethiopia" {
		t.Errorf("name/slug = %q/%q", c.Name, c.Slug)
	}
	if c.Status != models.CompanyOperating || c.ModerationStatus != models.ModerationPending {
		t.Errorf("defaults: status=%q moderation=%q", c.Status, c.ModerationStatus)
	}

	if _, err := store.Create(ctx, models.Company{Name: "Ride Ethiopia"}); !errors.Is(err, companystore.ErrDuplicateName) {
		t.Errorf("duplicate name error = %v", err)
	}

	other, err := store.Create(ctx, models.Company{Name: "Ride-Ethiopia"})
	if err != nil {
		t.Fatalf("Create other: %v", err)
	}
	if other.Slug != "ride-ethiopia-1" {
		t.Errorf("colliding slug = %q, want ride-ethiopia-1", other.Slug)
	}
}

func TestList_ModerationFilter(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := companystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCompany(ctx, "Alpha", models.ModerationAccepted)
	fixtures.CreateCompany(ctx, "Beta", models.ModerationPending)
	fixtures.CreateCompany(ctx, "Gamma", models.ModerationRejected)

	accepted := bson.M{}
	listfilter.Fixed(string(models.ModerationAccepted)).Apply(accepted)
	got, total, err := store.List(ctx, listfilter.Query{Filter: accepted, Sort: bson.D{{Key: "name", Value: 1}}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Name != "Alpha" {
		t.Errorf("accepted list = %d %+v", total, got)
	}

	got, total, err = store.List(ctx, listfilter.Query{Sort: bson.D{{Key: "name", Value: 1}}, Limit: 2})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if total != 3 || len(got) != 2 {
		t.Errorf("all list total=%d len=%d, want 3/2", total, len(got))
	}
}

func TestCountByIndustry(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := companystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fin := fixtures.CreateIndustry(ctx, "Fintech", models.ModerationAccepted, nil)
	agr := fixtures.CreateIndustry(ctx, "Agritech", models.ModerationAccepted, nil)
	fixtures.CreateCompany(ctx, "A", models.ModerationAccepted, fin.ID, agr.ID)
	fixtures.CreateCompany(ctx, "B", models.ModerationAccepted, fin.ID)
	fixtures.CreateCompany(ctx, "C", models.ModerationPending, fin.ID)

	counts, err := store.CountByIndustry(ctx, []primitive.ObjectID{fin.ID, agr.ID}, models.ModerationAccepted)
	if err != nil {
		t.Fatalf("CountByIndustry: %v", err)
	}
	if counts[fin.ID] != 2 || counts[agr.ID] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestDelete_CascadesRounds(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := companystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := fixtures.CreateCompany(ctx, "Kubik", models.ModerationAccepted)
	inv := fixtures.CreateInvestor(ctx, "Renew Capital")
	round := fixtures.CreateRound(ctx, co.ID, "Seed", time.Now(), 500000)
	fixtures.CreateParticipation(ctx, round.ID, inv.ID, true)

	if err := store.Delete(ctx, co.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, co.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID after delete = %v", err)
	}
	for _, coll := range []string{"funding_rounds", "funding_round_participations"} {
		n, _ := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if n != 0 {
			t.Errorf("%s count = %d, want 0", coll, n)
		}
	}
	if err := store.Delete(ctx, co.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Delete = %v, want ErrNoDocuments", err)
	}
}
