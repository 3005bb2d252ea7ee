package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dealroom-et/dealroom/internal/app/system/slug"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateIndustry inserts an industry. A nil parent makes it a root sector.
func (f *Fixtures) CreateIndustry(ctx context.Context, name string, mod models.ModerationStatus, parent *primitive.ObjectID) models.Industry {
	f.t.Helper()
	now := time.Now().UTC()
	ind := models.Industry{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Slug:             slug.Make(name),
		Description:      name + " industry",
		ParentID:         parent,
		ModerationStatus: mod,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(ctx, "industries", ind)
	return ind
}

// CreateCompany inserts a company with the given moderation status.
func (f *Fixtures) CreateCompany(ctx context.Context, name string, mod models.ModerationStatus, industries ...primitive.ObjectID) models.Company {
	f.t.Helper()
	now := time.Now().UTC()
	if industries == nil {
		industries = []primitive.ObjectID{}
	}
	c := models.Company{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           text.Fold(name),
		Slug:             slug.Make(name),
		ShortDescription: name + " short",
		HQCity:           "Addis Ababa",
		HQCountry:        "Ethiopia",
		CompanyType:      models.CompanyStartup,
		Status:           models.CompanyOperating,
		ModerationStatus: mod,
		IndustryIDs:      industries,
		FounderIDs:       []primitive.ObjectID{},
		KeyPeopleIDs:     []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(ctx, "companies", c)
	return c
}

// CreatePerson inserts an accepted person. An empty email leaves it unset.
func (f *Fixtures) CreatePerson(ctx context.Context, fullName, email string) models.Person {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Person{
		ID:               primitive.NewObjectID(),
		FullName:         fullName,
		FullNameCI:       text.Fold(fullName),
		Slug:             slug.Make(fullName),
		ModerationStatus: models.ModerationAccepted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if email != "" {
		p.Email = &email
	}
	f.insert(ctx, "people", p)
	return p
}

// CreateInvestor inserts an accepted investor.
func (f *Fixtures) CreateInvestor(ctx context.Context, name string) models.Investor {
	f.t.Helper()
	now := time.Now().UTC()
	inv := models.Investor{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           text.Fold(name),
		Slug:             slug.Make(name),
		InvestorType:     models.InvestorType("VC"),
		HQCountry:        "Ethiopia",
		IndustryFocusIDs: []primitive.ObjectID{},
		ModerationStatus: models.ModerationAccepted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(ctx, "investors", inv)
	return inv
}

// CreateRound inserts a funding round for company.
func (f *Fixtures) CreateRound(ctx context.Context, companyID primitive.ObjectID, roundType models.RoundType, announced time.Time, amount float64) models.FundingRound {
	f.t.Helper()
	now := time.Now().UTC()
	fr := models.FundingRound{
		ID:             primitive.NewObjectID(),
		CompanyID:      companyID,
		RoundType:      roundType,
		AnnouncedDate:  announced,
		MoneyRaisedUSD: &amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "funding_rounds", fr)
	return fr
}

// CreateParticipation links an investor to a round.
func (f *Fixtures) CreateParticipation(ctx context.Context, roundID, investorID primitive.ObjectID, lead bool) models.FundingRoundParticipation {
	f.t.Helper()
	p := models.FundingRoundParticipation{
		ID:             primitive.NewObjectID(),
		FundingRoundID: roundID,
		InvestorID:     investorID,
		IsLeadInvestor: lead,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "funding_round_participations", p)
	return p
}

// CreateRegistration inserts a pending organization registration.
func (f *Fixtures) CreateRegistration(ctx context.Context, orgName, email string, sectors ...string) models.OrganizationRegistration {
	f.t.Helper()
	now := time.Now().UTC()
	if sectors == nil {
		sectors = []string{}
	}
	reg := models.OrganizationRegistration{
		ID:                 primitive.NewObjectID(),
		OrganizationType:   models.OrgStartup,
		OrganizationName:   orgName,
		OrganizationNameCI: text.Fold(orgName),
		Description:        "A test organization based in Addis Ababa.",
		Headquarters:       "Addis Ababa",
		Country:            "Ethiopia",
		FirstName:          "Hanna",
		LastName:           "Tesfaye",
		Email:              email,
		Position:           "CEO",
		Sectors:            sectors,
		FundingStage:       models.StageSeed,
		Status:             models.RegistrationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	f.insert(ctx, "organization_registrations", reg)
	return reg
}

// CreateContact inserts a new contact message.
func (f *Fixtures) CreateContact(ctx context.Context, name, email, message string) models.Contact {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Contact{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Message:   message,
		Status:    models.ContactNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "contacts", c)
	return c
}
