package supportorgstore_test

import (
	"testing"

	supportorgstore "github.com/dealroom-et/dealroom/internal/app/store/supportorgs"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestKindsAreSeparate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hubs := supportorgstore.New(db, models.KindHub)
	unis := supportorgstore.New(db, models.KindUniversity)

	if _, err := hubs.Create(ctx, models.SupportOrg{Name: "iceaddis", City: "Addis Ababa"}); err != nil {
		t.Fatalf("Create hub: %v", err)
	}
	u, err := unis.Create(ctx, models.SupportOrg{Name: "Addis Ababa University", ModerationStatus: models.ModerationAccepted})
	if err != nil {
		t.Fatalf("Create university: %v", err)
	}

	_, total, err := hubs.List(ctx, listfilter.Query{})
	if err != nil || total != 1 {
		t.Fatalf("hubs total = %d, %v", total, err)
	}
	accepted := bson.M{}
	listfilter.Fixed(string(models.ModerationAccepted)).Apply(accepted)
	got, total, err := unis.List(ctx, listfilter.Query{Filter: accepted})
	if err != nil || total != 1 || got[0].ID != u.ID {
		t.Fatalf("accepted universities = %d %+v, %v", total, got, err)
	}
	n, err := hubs.Count(ctx, models.ModerationPending)
	if err != nil || n != 1 {
		t.Errorf("pending hubs = %d, %v", n, err)
	}
}
