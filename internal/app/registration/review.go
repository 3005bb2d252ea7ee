package registration

import (
	"context"
	"errors"
	"fmt"

	orgregstore "github.com/dealroom-et/dealroom/internal/app/store/orgregistrations"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/app/system/txn"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ManualReviewNote is recorded on a registration whose automatic promotion failed.
const ManualReviewNote = "Company creation will be completed during manual review"

type Registrations interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.OrganizationRegistration, error)
	Create(ctx context.Context, r models.OrganizationRegistration) (models.OrganizationRegistration, error)
	SetReview(ctx context.Context, id primitive.ObjectID, status models.RegistrationStatus, reviewer string, notes *string) (models.OrganizationRegistration, error)
	SetAdminNotes(ctx context.Context, id primitive.ObjectID, notes string) (models.OrganizationRegistration, error)
}

// CompanyPromoter is satisfied by *Promoter.
type CompanyPromoter interface {
	Promote(ctx context.Context, reg models.OrganizationRegistration) (models.Company, bool, error)
}

// Reviewer drives registrations through their review states.
type Reviewer struct {
	regs     Registrations
	promoter CompanyPromoter
	events   events.Publisher
	log      *zap.Logger
}

func NewReviewer(regs Registrations, promoter CompanyPromoter, pub events.Publisher, log *zap.Logger) *Reviewer {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Reviewer{regs: regs, promoter: promoter, events: pub, log: log}
}

// NewMongoReviewer wires a Reviewer to the Mongo stores of db.
func NewMongoReviewer(db *mongo.Database, tx *txn.Runner, pub events.Publisher, log *zap.Logger) *Reviewer {
	return NewReviewer(orgregstore.New(db), NewMongoPromoter(db, tx, log), pub, log)
}

// Outcome is the result of an approval.
type Outcome struct {
	Registration models.OrganizationRegistration
	Company      models.Company
	Created      bool
}

// Approve promotes the registration to a company and marks it approved.
// When promotion fails the registration keeps its status and the error wraps
// ErrPromotion.
func (rv *Reviewer) Approve(ctx context.Context, id primitive.ObjectID, reviewer string) (Outcome, error) {
	reg, err := rv.regs.GetByID(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	return rv.approve(ctx, reg, reviewer)
}

func (rv *Reviewer) approve(ctx context.Context, reg models.OrganizationRegistration, reviewer string) (Outcome, error) {
	company, created, err := rv.promoter.Promote(ctx, reg)
	if err != nil {
		return Outcome{Registration: reg}, err
	}
	if created {
		rv.events.Publish(ctx, events.CompanyPromoted, map[string]any{
			"registration_id": reg.ID.Hex(),
			"company_id":      company.ID.Hex(),
			"company_slug":    company.Slug,
		})
	}

	updated, err := rv.regs.SetReview(ctx, reg.ID, models.RegistrationApproved, reviewer, nil)
	if err != nil {
		return Outcome{Registration: reg, Company: company, Created: created}, fmt.Errorf("mark approved: %w", err)
	}
	rv.events.Publish(ctx, events.RegistrationApproved, map[string]any{
		"registration_id": reg.ID.Hex(),
		"company_id":      company.ID.Hex(),
		"reviewed_by":     reviewer,
	})
	rv.log.Info("registration approved",
		zap.String("registration_id", reg.ID.Hex()),
		zap.String("company_id", company.ID.Hex()),
		zap.Bool("created", created),
		zap.String("reviewer", reviewer))
	return Outcome{Registration: updated, Company: company, Created: created}, nil
}

// Reject marks the registration rejected. The reason replaces the admin
// notes; an empty reason clears them.
func (rv *Reviewer) Reject(ctx context.Context, id primitive.ObjectID, reviewer, reason string) (models.OrganizationRegistration, error) {
	reg, err := rv.regs.SetReview(ctx, id, models.RegistrationRejected, reviewer, &reason)
	if err != nil {
		return reg, err
	}
	rv.events.Publish(ctx, events.RegistrationRejected, map[string]any{
		"registration_id": id.Hex(),
		"reviewed_by":     reviewer,
	})
	return reg, nil
}

// RequestInfo moves the registration to needs_info. The message replaces the
// admin notes; an empty message clears them.
func (rv *Reviewer) RequestInfo(ctx context.Context, id primitive.ObjectID, reviewer, message string) (models.OrganizationRegistration, error) {
	reg, err := rv.regs.SetReview(ctx, id, models.RegistrationNeedsInfo, reviewer, &message)
	if err != nil {
		return reg, err
	}
	rv.events.Publish(ctx, events.RegistrationNeedsInfo, map[string]any{
		"registration_id": id.Hex(),
		"reviewed_by":     reviewer,
	})
	return reg, nil
}

// SubmitResult describes a public signup.
type SubmitResult struct {
	Registration models.OrganizationRegistration
	// Company is nil when promotion failed and the registration awaits
	// manual review.
	Company *models.Company
	Created bool
	// PromotionErr is the swallowed promotion failure, if any.
	PromotionErr error
}

/*
Submit stores a new registration and immediately approves it on behalf of
the system reviewer.

A promotion failure does not fail the signup: the registration stays pending
with ManualReviewNote in its admin notes and the cause is reported in
PromotionErr. Only a failure to store the registration itself is returned as
an error.
*/
func (rv *Reviewer) Submit(ctx context.Context, reg models.OrganizationRegistration) (SubmitResult, error) {
	saved, err := rv.regs.Create(ctx, reg)
	if err != nil {
		return SubmitResult{}, err
	}
	rv.events.Publish(ctx, events.RegistrationSubmitted, map[string]any{
		"registration_id":   saved.ID.Hex(),
		"organization_name": saved.OrganizationName,
		"organization_type": string(saved.OrganizationType),
	})

	out, err := rv.approve(ctx, saved, SystemReviewer)
	if err == nil {
		c := out.Company
		return SubmitResult{Registration: out.Registration, Company: &c, Created: out.Created}, nil
	}

	rv.log.Warn("automatic promotion failed, leaving registration for manual review",
		zap.String("registration_id", saved.ID.Hex()),
		zap.Error(err))
	if !errors.Is(err, ErrPromotion) {
		// Company exists but the status write failed; keep the promotion result.
		c := out.Company
		return SubmitResult{Registration: saved, Company: &c, Created: out.Created, PromotionErr: err}, nil
	}
	noted, nerr := rv.regs.SetAdminNotes(ctx, saved.ID, ManualReviewNote)
	if nerr != nil {
		rv.log.Error("failed to annotate registration", zap.String("registration_id", saved.ID.Hex()), zap.Error(nerr))
		noted = saved
	}
	return SubmitResult{Registration: noted, PromotionErr: err}, nil
}

// SystemReviewer stamps transitions made by the signup flow itself.
const SystemReviewer = auth.SystemReviewer
