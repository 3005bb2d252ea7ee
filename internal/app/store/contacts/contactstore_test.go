package contactstore_test

import (
	"testing"

	contactstore "github.com/dealroom-et/dealroom/internal/app/store/contacts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
)

func TestLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Contact{Name: "Liya", Email: "liya@example.et", Message: "Please list our company.", Status: models.ContactClosed})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Status != models.ContactNew {
		t.Errorf("status = %q, want new", c.Status)
	}

	inProgress := models.ContactInProgress
	notes := "Called back"
	c, err = store.Update(ctx, c.ID, contactstore.Patch{Status: &inProgress, AdminNotes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.Status != models.ContactInProgress || c.AdminNotes != notes {
		t.Errorf("after update: %+v", c)
	}

	c, err = store.MarkResolved(ctx, c.ID, "reviewer")
	if err != nil {
		t.Fatalf("MarkResolved: %v", err)
	}
	if c.Status != models.ContactResolved || c.RespondedAt == nil || c.RespondedBy != "reviewer" {
		t.Errorf("after resolve: %+v", c)
	}
	if c.AdminNotes != notes {
		t.Errorf("resolve must keep notes, got %q", c.AdminNotes)
	}

	n, err := store.CountByStatus(ctx, models.ContactResolved)
	if err != nil || n != 1 {
		t.Errorf("resolved count = %d, %v", n, err)
	}
}
