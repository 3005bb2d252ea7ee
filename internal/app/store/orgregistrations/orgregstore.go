// internal/app/store/orgregistrations/orgregstore.go
package orgregstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCountry is stored when a registration names no country.
const DefaultCountry = "Ethiopia"

const (
	msgDuplicateEmail = "An organization with this email is already registered."
	msgDuplicateName  = "An organization with this name is already registered."
)

var (
	ErrDuplicateEmail = errors.New(msgDuplicateEmail)
	ErrDuplicateName  = errors.New(msgDuplicateName)
)

// FieldErrors maps a duplicate sentinel onto the field it concerns. Other
// errors yield nil.
func FieldErrors(err error) inputval.Errors {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return inputval.Errors{"email": {msgDuplicateEmail}}
	case errors.Is(err, ErrDuplicateName):
		return inputval.Errors{"organization_name": {msgDuplicateName}}
	}
	return nil
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organization_registrations")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.OrganizationRegistration, error) {
	var r models.OrganizationRegistration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.OrganizationRegistration{}, err
	}
	return r, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.OrganizationRegistration, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.OrganizationRegistration
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Duplicates reports field errors for an email already registered or an
// organization name matching an existing one case-insensitively. exclude
// skips the registration being edited.
func (s *Store) Duplicates(ctx context.Context, email, orgName string, exclude *primitive.ObjectID) (inputval.Errors, error) {
	errs := inputval.Errors{}
	check := func(filter bson.M) (bool, error) {
		if exclude != nil {
			filter["_id"] = bson.M{"$ne": *exclude}
		}
		n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		return n > 0, err
	}
	if email != "" {
		taken, err := check(bson.M{"email": email})
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", msgDuplicateEmail)
		}
	}
	if orgName != "" {
		taken, err := check(bson.M{"organization_name_ci": text.Fold(strings.TrimSpace(orgName))})
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("organization_name", msgDuplicateName)
		}
	}
	return errs, nil
}

func dupError(err error) error {
	if strings.Contains(err.Error(), "uniq_orgreg_email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateName
}

// Create stores r as pending. Review fields supplied by the caller are
// discarded.
func (s *Store) Create(ctx context.Context, r models.OrganizationRegistration) (models.OrganizationRegistration, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.OrganizationName = strings.TrimSpace(r.OrganizationName)
	r.OrganizationNameCI = text.Fold(r.OrganizationName)
	if strings.TrimSpace(r.Country) == "" {
		r.Country = DefaultCountry
	}
	if r.Sectors == nil {
		r.Sectors = []string{}
	}
	r.Status = models.RegistrationPending
	r.AdminNotes = ""
	r.ReviewedAt = nil
	r.ReviewedBy = ""
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.OrganizationRegistration{}, dupError(err)
		}
		return models.OrganizationRegistration{}, err
	}
	return r, nil
}

// Update replaces the submitter-editable fields. Review state is untouched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, r models.OrganizationRegistration) (models.OrganizationRegistration, error) {
	name := strings.TrimSpace(r.OrganizationName)
	if r.Sectors == nil {
		r.Sectors = []string{}
	}
	if strings.TrimSpace(r.Country) == "" {
		r.Country = DefaultCountry
	}
	set := bson.M{
		"organization_type":    r.OrganizationType,
		"organization_name":    name,
		"organization_name_ci": text.Fold(name),
		"website":              r.Website,
		"description":          r.Description,
		"founded_year":         r.FoundedYear,
		"employee_count":       r.EmployeeCount,
		"headquarters":         r.Headquarters,
		"country":              r.Country,
		"first_name":           r.FirstName,
		"last_name":            r.LastName,
		"email":                r.Email,
		"phone":                r.Phone,
		"position":             r.Position,
		"linkedin_profile":     r.LinkedInProfile,
		"sectors":              r.Sectors,
		"funding_stage":        r.FundingStage,
		"total_funding":        r.TotalFunding,
		"key_achievements":     r.KeyAchievements,
		"subscribe_newsletter": r.SubscribeNewsletter,
		"updated_at":           time.Now().UTC(),
	}
	var out models.OrganizationRegistration
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.OrganizationRegistration{}, dupError(err)
		}
		return models.OrganizationRegistration{}, err
	}
	return out, nil
}

// SetReview records a review transition. A nil notes leaves admin notes as
// they are.
func (s *Store) SetReview(ctx context.Context, id primitive.ObjectID, status models.RegistrationStatus, reviewer string, notes *string) (models.OrganizationRegistration, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"reviewed_by": reviewer,
		"reviewed_at": now,
		"updated_at":  now,
	}
	if notes != nil {
		set["admin_notes"] = *notes
	}
	var out models.OrganizationRegistration
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.OrganizationRegistration{}, err
	}
	return out, nil
}

// SetAdminNotes replaces the admin notes without a review transition.
func (s *Store) SetAdminNotes(ctx context.Context, id primitive.ObjectID, notes string) (models.OrganizationRegistration, error) {
	var out models.OrganizationRegistration
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"admin_notes": notes, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.OrganizationRegistration{}, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
