// Package registration turns organization registrations into directory
// companies and drives their review state.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	industrystore "github.com/dealroom-et/dealroom/internal/app/store/industries"
	personstore "github.com/dealroom-et/dealroom/internal/app/store/people"
	"github.com/dealroom-et/dealroom/internal/app/system/txn"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrPromotion wraps any failure while materializing a company.
var ErrPromotion = errors.New("registration: company promotion failed")

type Companies interface {
	GetByName(ctx context.Context, name string) (models.Company, error)
	Create(ctx context.Context, c models.Company) (models.Company, error)
}

type Industries interface {
	FindOrCreateByName(ctx context.Context, name string) (models.Industry, bool, error)
}

type People interface {
	FindOrCreateByEmail(ctx context.Context, email string, proto models.Person) (models.Person, bool, error)
}

// Tx runs fn as one unit of work.
type Tx interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

type directTx struct{}

func (directTx) Run(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// Promoter materializes companies from registrations.
type Promoter struct {
	companies  Companies
	industries Industries
	people     People
	tx         Tx
	log        *zap.Logger
}

// NewPromoter wires a Promoter to its collaborators. A nil tx runs without a
// transaction.
func NewPromoter(companies Companies, industries Industries, people People, tx Tx, log *zap.Logger) *Promoter {
	if tx == nil {
		tx = directTx{}
	}
	return &Promoter{companies: companies, industries: industries, people: people, tx: tx, log: log}
}

// NewMongoPromoter wires a Promoter to the Mongo stores of db.
func NewMongoPromoter(db *mongo.Database, tx *txn.Runner, log *zap.Logger) *Promoter {
	return NewPromoter(companystore.New(db), industrystore.New(db), personstore.New(db), tx, log)
}

/*
Promote returns the company named like the registration's organization,
creating it when none exists. created reports whether this call inserted it.

An existing company wins and is returned unchanged. Otherwise sector
industries and the founder are resolved, then the company is inserted with
its links in one document write. The unique index on company names makes a
concurrent promotion of the same name fail with a duplicate key; that case
also returns the company that won.
*/
func (p *Promoter) Promote(ctx context.Context, reg models.OrganizationRegistration) (models.Company, bool, error) {
	name := reg.OrganizationName
	var out models.Company
	var created bool

	err := p.tx.Run(ctx, func(ctx context.Context) error {
		out, created = models.Company{}, false

		existing, err := p.companies.GetByName(ctx, name)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("lookup company: %w", err)
		}

		c := CompanyFrom(reg)

		industryIDs, err := p.resolveIndustries(ctx, reg.Sectors)
		if err != nil {
			return err
		}
		c.IndustryIDs = industryIDs

		c.FounderIDs = []primitive.ObjectID{}
		c.KeyPeopleIDs = []primitive.ObjectID{}
		if email := strings.TrimSpace(reg.Email); email != "" {
			founder, _, err := p.people.FindOrCreateByEmail(ctx, email, FounderFrom(reg))
			if err != nil {
				return fmt.Errorf("resolve founder: %w", err)
			}
			c.FounderIDs = []primitive.ObjectID{founder.ID}
			c.KeyPeopleIDs = []primitive.ObjectID{founder.ID}
		}

		out, err = p.companies.Create(ctx, c)
		if err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		created = true
		return nil
	})

	if errors.Is(err, companystore.ErrDuplicateName) {
		existing, gerr := p.companies.GetByName(ctx, name)
		if gerr == nil {
			p.log.Info("promotion lost race, using existing company",
				zap.String("registration_id", reg.ID.Hex()),
				zap.String("company_id", existing.ID.Hex()))
			return existing, false, nil
		}
		err = errors.Join(err, gerr)
	}
	if err != nil {
		return models.Company{}, false, fmt.Errorf("%w: %w", ErrPromotion, err)
	}
	return out, created, nil
}

func (p *Promoter) resolveIndustries(ctx context.Context, sectors []string) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, sector := range sectors {
		if strings.TrimSpace(sector) == "" {
			continue
		}
		ind, _, err := p.industries.FindOrCreateByName(ctx, sector)
		if err != nil {
			return nil, fmt.Errorf("resolve industry %q: %w", sector, err)
		}
		if !seen[ind.ID] {
			seen[ind.ID] = true
			ids = append(ids, ind.ID)
		}
	}
	return ids, nil
}
