package submissionstore_test

import (
	"regexp"
	"testing"

	submissionstore "github.com/dealroom-et/dealroom/internal/app/store/submissions"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
)

var suffixed = regexp.MustCompile(`^eth-agri-[0-9a-f]{8}$`)

func TestCreate_SlugAndStatus(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := submissionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.CompanySubmission{Name: "Eth Agri", Description: "d", HQCountry: "Ethiopia", ModerationStatus: models.SubmissionApproved})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !suffixed.MatchString(a.Slug) {
		t.Errorf("slug = %q", a.Slug)
	}
	if a.ModerationStatus != models.SubmissionPending {
		t.Errorf("status = %q, want pending", a.ModerationStatus)
	}
	b, err := store.Create(ctx, models.CompanySubmission{Name: "Eth Agri", Description: "d", HQCountry: "Ethiopia"})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if a.Slug == b.Slug {
		t.Error("same name must yield distinct slugs")
	}
}

func TestReview(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := submissionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cs, err := store.Create(ctx, models.CompanySubmission{Name: "Deliver Addis", Description: "d", HQCountry: "Ethiopia"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	reason := "Duplicate of an existing listing"
	got, err := store.Review(ctx, cs.ID, models.SubmissionRejected, "reviewer", &reason)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if got.ModerationStatus != models.SubmissionRejected || got.RejectionReason != reason || got.ReviewedBy != "reviewer" || got.ReviewedAt == nil {
		t.Errorf("after reject: %+v", got)
	}
}
