package submissionstore

import (
	"context"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/slug"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxSlugAttempts = 5

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("company_submissions")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CompanySubmission, error) {
	var cs models.CompanySubmission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cs); err != nil {
		return models.CompanySubmission{}, err
	}
	return cs, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.CompanySubmission, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.CompanySubmission
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create stores a pending submission whose slug is the slugified name with a
// random suffix.
func (s *Store) Create(ctx context.Context, cs models.CompanySubmission) (models.CompanySubmission, error) {
	now := time.Now().UTC()
	cs.ID = primitive.NewObjectID()
	cs.Name = strings.TrimSpace(cs.Name)
	if cs.IndustryIDs == nil {
		cs.IndustryIDs = []primitive.ObjectID{}
	}
	cs.ModerationStatus = models.SubmissionPending
	cs.ReviewedAt = nil
	cs.ReviewedBy = ""
	cs.RejectionReason = ""
	cs.SubmittedAt = now
	cs.UpdatedAt = now

	base := slug.Make(cs.Name)
	var err error
	for i := 0; i < maxSlugAttempts; i++ {
		cs.Slug = slug.WithRandomSuffix(base)
		if _, err = s.c.InsertOne(ctx, cs); err == nil {
			return cs, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.CompanySubmission{}, err
		}
	}
	return models.CompanySubmission{}, err
}

// Update replaces the submitter-editable fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, cs models.CompanySubmission) (models.CompanySubmission, error) {
	if cs.IndustryIDs == nil {
		cs.IndustryIDs = []primitive.ObjectID{}
	}
	set := bson.M{
		"name":                     strings.TrimSpace(cs.Name),
		"short_description":        cs.ShortDescription,
		"description":              cs.Description,
		"website":                  cs.Website,
		"founded_date":             cs.FoundedDate,
		"company_type":             cs.CompanyType,
		"status":                   cs.Status,
		"hq_country":               cs.HQCountry,
		"hq_city":                  cs.HQCity,
		"hq_address":               cs.HQAddress,
		"employee_count":           cs.EmployeeCount,
		"total_funding_raised_usd": cs.TotalFundingRaisedUSD,
		"contact_email":            cs.ContactEmail,
		"contact_phone":            cs.ContactPhone,
		"linkedin_url":             cs.LinkedInURL,
		"twitter_url":              cs.TwitterURL,
		"facebook_url":             cs.FacebookURL,
		"logo_url":                 cs.LogoURL,
		"industry_ids":             cs.IndustryIDs,
		"tags":                     cs.Tags,
		"notes":                    cs.Notes,
		"is_featured":              cs.IsFeatured,
		"updated_at":               time.Now().UTC(),
	}
	var out models.CompanySubmission
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.CompanySubmission{}, err
	}
	return out, nil
}

// Review records a review transition. reason is stored as the rejection
// reason when non-nil.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, status models.SubmissionStatus, reviewer string, reason *string) (models.CompanySubmission, error) {
	now := time.Now().UTC()
	set := bson.M{
		"moderation_status": status,
		"reviewed_by":       reviewer,
		"reviewed_at":       now,
		"updated_at":        now,
	}
	if reason != nil {
		set["rejection_reason"] = *reason
	}
	var out models.CompanySubmission
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.CompanySubmission{}, err
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
