package registration_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/registration"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func intp(i int) *int         { return &i }
func f64p(f float64) *float64 { return &f }

func sampleReg(name string) models.OrganizationRegistration {
	return models.OrganizationRegistration{
		ID:               primitive.NewObjectID(),
		OrganizationType: models.OrgStartup,
		OrganizationName: name,
		Description:      "Mobile payments for Ethiopian merchants",
		Website:          "https://example.et",
		FoundedYear:      intp(2019),
		EmployeeCount:    "11-50",
		Headquarters:     "Addis Ababa",
		Country:          "Ethiopia",
		FirstName:        "Hanna",
		LastName:         "Tesfaye",
		Email:            "hanna@example.et",
		Phone:            "+251911000000",
		Position:         "CEO",
		LinkedInProfile:  "https://linkedin.com/in/hanna",
		Sectors:          []string{"Fintech"},
		FundingStage:     models.StageSeed,
		TotalFunding:     f64p(250000),
	}
}

type harness struct {
	companies  *fakeCompanies
	industries *fakeIndustries
	people     *fakePeople
	regs       *fakeRegistrations
	events     *events.Recorder
	promoter   *registration.Promoter
	reviewer   *registration.Reviewer
}

func newHarness(existingIndustries ...string) *harness {
	h := &harness{
		companies:  newFakeCompanies(),
		industries: newFakeIndustries(existingIndustries...),
		people:     newFakePeople(),
		regs:       newFakeRegistrations(),
		events:     &events.Recorder{},
	}
	h.promoter = registration.NewPromoter(h.companies, h.industries, h.people, nil, zap.NewNop())
	h.reviewer = registration.NewReviewer(h.regs, h.promoter, h.events, zap.NewNop())
	return h
}

func TestCompanyTypeFor(t *testing.T) {
	tests := []struct {
		in   models.OrganizationType
		want models.CompanyType
	}{
		{models.OrgStartup, models.CompanyStartup},
		{models.OrgScaleup, models.CompanyStartup},
		{models.OrgVC, models.CompanyCorporation},
		{models.OrgAngel, models.CompanyCorporation},
		{models.OrgAccelerator, models.CompanyCorporation},
		{models.OrgIncubator, models.CompanyCorporation},
		{models.OrgHub, models.CompanyCorporation},
		{models.OrgUniversity, models.CompanyCorporation},
		{models.OrgCorporate, models.CompanyCorporation},
		{models.OrgServiceProvider, models.CompanyCorporation},
		{models.OrgGovernment, models.CompanyGovernment},
		{models.OrgNGO, models.CompanyNonProfit},
		{models.OrganizationType("cooperative"), models.CompanyStartup},
		{models.OrganizationType(""), models.CompanyStartup},
	}
	for _, tt := range tests {
		if got := registration.CompanyTypeFor(tt.in); got != tt.want {
			t.Errorf("CompanyTypeFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLastFundingStageFor(t *testing.T) {
	tests := map[models.FundingStage]string{
		models.StagePreSeed:       "Pre-seed",
		models.StageSeed:          "Seed",
		models.StageSeriesA:       "Series A",
		models.StageSeriesB:       "Series B",
		models.StageSeriesCPlus:   "Series C+",
		models.StageGrowth:        "Growth",
		models.StageIPO:           "IPO",
		models.StageNotApplicable: "",
		"":                        "",
	}
	for in, want := range tests {
		if got := registration.LastFundingStageFor(in); got != want {
			t.Errorf("LastFundingStageFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFoundedDate(t *testing.T) {
	if registration.FoundedDate(nil) != nil {
		t.Error("nil year must give nil date")
	}
	d := registration.FoundedDate(intp(2015))
	if d == nil || d.Year() != 2015 || d.Month() != 1 || d.Day() != 1 {
		t.Errorf("FoundedDate(2015) = %v", d)
	}
}

func TestPromote_MapsFields(t *testing.T) {
	h := newHarness("Fintech")
	c, created, err := h.promoter.Promote(context.Background(), sampleReg("Chapa Pay"))
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if !created {
		t.Fatal("expected a new company")
	}
	if c.HQCity != "Addis Ababa" || c.HQCountry != "Ethiopia" || c.ContactEmail != "hanna@example.et" {
		t.Errorf("location/contact not mapped: %+v", c)
	}
	if c.CompanyType != models.CompanyStartup || c.Status != models.CompanyOperating {
		t.Errorf("type/status = %q/%q", c.CompanyType, c.Status)
	}
	if c.ModerationStatus != models.ModerationAccepted {
		t.Errorf("moderation = %q, want accepted", c.ModerationStatus)
	}
	if c.LastFundingStage != "Seed" || c.EmployeeCountRange != "11-50" {
		t.Errorf("stage/employees = %q/%q", c.LastFundingStage, c.EmployeeCountRange)
	}
	if c.FoundedDate == nil || c.FoundedDate.Year() != 2019 {
		t.Errorf("founded = %v", c.FoundedDate)
	}
	if c.TotalFundingRaisedUSD == nil || *c.TotalFundingRaisedUSD != 250000 {
		t.Errorf("total funding = %v", c.TotalFundingRaisedUSD)
	}
	if len(c.FounderIDs) != 1 || len(c.KeyPeopleIDs) != 1 || c.FounderIDs[0] != c.KeyPeopleIDs[0] {
		t.Errorf("founder links = %v / %v", c.FounderIDs, c.KeyPeopleIDs)
	}
	founder := h.people.byEmail["hanna@example.et"]
	if founder.FullName != "Hanna Tesfaye" || founder.Bio != "CEO at Chapa Pay" {
		t.Errorf("founder = %+v", founder)
	}
	if founder.ModerationStatus != models.ModerationAccepted {
		t.Errorf("founder moderation = %q", founder.ModerationStatus)
	}
}

func TestPromote_SameNameYieldsOneCompany(t *testing.T) {
	h := newHarness()
	first, created, err := h.promoter.Promote(context.Background(), sampleReg("Kifiya"))
	if err != nil || !created {
		t.Fatalf("first Promote: created=%v err=%v", created, err)
	}
	second, created, err := h.promoter.Promote(context.Background(), sampleReg("Kifiya"))
	if err != nil {
		t.Fatalf("second Promote: %v", err)
	}
	if created {
		t.Error("second promotion must reuse the existing company")
	}
	if second.ID != first.ID {
		t.Errorf("ids differ: %s vs %s", first.ID.Hex(), second.ID.Hex())
	}
	if h.companies.count() != 1 {
		t.Errorf("companies = %d, want 1", h.companies.count())
	}
}

func TestPromote_ConcurrentSameName(t *testing.T) {
	h := newHarness()
	const n = 8
	ids := make([]primitive.ObjectID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := h.promoter.Promote(context.Background(), sampleReg("Gebeya"))
			if err != nil {
				t.Errorf("Promote: %v", err)
				return
			}
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()
	if h.companies.count() != 1 {
		t.Fatalf("companies = %d, want 1", h.companies.count())
	}
	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("promotions returned different companies")
		}
	}
}

func TestPromote_LostRaceReturnsWinner(t *testing.T) {
	h := newHarness()
	winner := models.Company{ID: primitive.NewObjectID(), Name: "Hello Tractor", Slug: "hello-tractor"}
	h.companies.raceWith = &winner

	c, created, err := h.promoter.Promote(context.Background(), sampleReg("Hello Tractor"))
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if created || c.ID != winner.ID {
		t.Errorf("got %s created=%v, want winner %s", c.ID.Hex(), created, winner.ID.Hex())
	}
}

func TestPromote_SectorsResolveIndustries(t *testing.T) {
	h := newHarness("Fintech")
	reg := sampleReg("Arifpay")
	reg.Sectors = []string{"Fintech", "NewSector", "", "NewSector"}

	c, _, err := h.promoter.Promote(context.Background(), reg)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if len(c.IndustryIDs) != 2 {
		t.Fatalf("industry ids = %d, want 2", len(c.IndustryIDs))
	}
	if len(h.industries.byName) != 2 {
		t.Fatalf("industries = %d, want 2", len(h.industries.byName))
	}
	created := h.industries.byName["NewSector"]
	if created.ModerationStatus != models.ModerationPending || created.Description != "NewSector industry" {
		t.Errorf("new industry = %+v", created)
	}
}

func TestPromote_ReusesFounderByEmail(t *testing.T) {
	h := newHarness()
	a, _, _ := h.promoter.Promote(context.Background(), sampleReg("Alpha"))
	b, _, _ := h.promoter.Promote(context.Background(), sampleReg("Beta"))
	if a.FounderIDs[0] != b.FounderIDs[0] {
		t.Error("same submitter email must map to the same person")
	}
	if len(h.people.byEmail) != 1 {
		t.Errorf("people = %d, want 1", len(h.people.byEmail))
	}
}

func TestPromote_NoEmailNoFounder(t *testing.T) {
	h := newHarness()
	reg := sampleReg("Anonymous Co")
	reg.Email = "  "
	c, _, err := h.promoter.Promote(context.Background(), reg)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if len(c.FounderIDs) != 0 || len(h.people.byEmail) != 0 {
		t.Errorf("founders = %v", c.FounderIDs)
	}
}

func TestPromote_FailureWrapsErrPromotion(t *testing.T) {
	h := newHarness()
	h.companies.failErr = errors.New("disk full")
	_, _, err := h.promoter.Promote(context.Background(), sampleReg("Broken"))
	if !errors.Is(err, registration.ErrPromotion) {
		t.Fatalf("err = %v, want ErrPromotion", err)
	}
}

func TestApprove(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	reg, _ := h.regs.Create(ctx, sampleReg("Yenepay"))

	out, err := h.reviewer.Approve(ctx, reg.ID, "meseret")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if out.Registration.Status != models.RegistrationApproved || out.Registration.ReviewedBy != "meseret" {
		t.Errorf("registration = %+v", out.Registration)
	}
	if out.Registration.ReviewedAt == nil {
		t.Error("reviewed_at not set")
	}
	if !out.Created || out.Company.Name != "Yenepay" {
		t.Errorf("company = %+v created=%v", out.Company, out.Created)
	}
	subjects := h.events.Subjects()
	if len(subjects) != 2 || subjects[0] != events.CompanyPromoted || subjects[1] != events.RegistrationApproved {
		t.Errorf("events = %v", subjects)
	}
}

func TestApprove_FailureLeavesStatus(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	reg, _ := h.regs.Create(ctx, sampleReg("Failing"))
	h.regs.byID[reg.ID] = func() models.OrganizationRegistration {
		r := h.regs.byID[reg.ID]
		r.Status = models.RegistrationNeedsInfo
		return r
	}()
	h.companies.failErr = errors.New("boom")

	_, err := h.reviewer.Approve(ctx, reg.ID, "meseret")
	if !errors.Is(err, registration.ErrPromotion) {
		t.Fatalf("err = %v, want ErrPromotion", err)
	}
	got, _ := h.regs.GetByID(ctx, reg.ID)
	if got.Status != models.RegistrationNeedsInfo || got.ReviewedBy != "" {
		t.Errorf("registration changed on failure: %+v", got)
	}
}

func TestRejectAndRequestInfo(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	reg, _ := h.regs.Create(ctx, sampleReg("Rejectme"))

	got, err := h.reviewer.Reject(ctx, reg.ID, "meseret", "Duplicate of an existing listing")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != models.RegistrationRejected || got.AdminNotes != "Duplicate of an existing listing" {
		t.Errorf("after reject: %+v", got)
	}

	got, err = h.reviewer.RequestInfo(ctx, reg.ID, "meseret", "")
	if err != nil {
		t.Fatalf("RequestInfo: %v", err)
	}
	if got.Status != models.RegistrationNeedsInfo {
		t.Errorf("status = %q", got.Status)
	}
	if got.AdminNotes != "" {
		t.Errorf("empty message must clear notes, got %q", got.AdminNotes)
	}

	// A rejection without a reason must not carry an earlier info request.
	if _, err := h.reviewer.RequestInfo(ctx, reg.ID, "meseret", "Please send your trade license"); err != nil {
		t.Fatalf("RequestInfo: %v", err)
	}
	got, err = h.reviewer.Reject(ctx, reg.ID, "meseret", "")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != models.RegistrationRejected || got.AdminNotes != "" {
		t.Errorf("reject without reason: status %q notes %q", got.Status, got.AdminNotes)
	}
	if h.companies.count() != 0 {
		t.Error("reject/request_info must not create companies")
	}
}

func TestSubmit_PromotesImmediately(t *testing.T) {
	h := newHarness()
	res, err := h.reviewer.Submit(context.Background(), sampleReg("Santim"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Company == nil || res.Company.Name != "Santim" {
		t.Fatalf("company = %+v", res.Company)
	}
	if res.Registration.Status != models.RegistrationApproved || res.Registration.ReviewedBy != registration.SystemReviewer {
		t.Errorf("registration = %+v", res.Registration)
	}
	if res.PromotionErr != nil {
		t.Errorf("PromotionErr = %v", res.PromotionErr)
	}
	if s := h.events.Subjects(); len(s) == 0 || s[0] != events.RegistrationSubmitted {
		t.Errorf("events = %v", s)
	}
}

func TestSubmit_PromotionFailureKeepsPending(t *testing.T) {
	h := newHarness()
	h.companies.failErr = errors.New("boom")

	res, err := h.reviewer.Submit(context.Background(), sampleReg("Later Co"))
	if err != nil {
		t.Fatalf("Submit must not fail on promotion errors: %v", err)
	}
	if res.Company != nil {
		t.Errorf("company = %+v, want nil", res.Company)
	}
	if res.Registration.Status != models.RegistrationPending {
		t.Errorf("status = %q, want pending", res.Registration.Status)
	}
	if res.Registration.AdminNotes != registration.ManualReviewNote {
		t.Errorf("notes = %q", res.Registration.AdminNotes)
	}
	if !errors.Is(res.PromotionErr, registration.ErrPromotion) {
		t.Errorf("PromotionErr = %v", res.PromotionErr)
	}
}
