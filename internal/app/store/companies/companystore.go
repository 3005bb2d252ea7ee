// internal/app/store/companies/companystore.go
package companystore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/slug"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateName = errors.New("a company with this name already exists")
	ErrDuplicateSlug = errors.New("a company with this slug already exists")
)

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("companies")}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Company, error) {
	var c models.Company
	if err := s.c.FindOne(ctx, filter).Decode(&c); err != nil {
		return models.Company{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Company, error) {
	return s.findOne(ctx, bson.M{"slug": sl})
}

// GetByName matches name exactly, case included.
func (s *Store) GetByName(ctx context.Context, name string) (models.Company, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

// GetByIDs loads companies by id matching mod, ordered by name. An empty mod
// matches every status.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID, mod models.ModerationStatus) ([]models.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if mod != "" {
		filter["moderation_status"] = mod
	}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.Company, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	out, err := s.find(ctx, q.Where(), q.FindOptions())
	return out, total, err
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Company, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Company
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByIndustry counts companies with moderation status mod per industry id.
func (s *Store) CountByIndustry(ctx context.Context, ids []primitive.ObjectID, mod models.ModerationStatus) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"moderation_status": mod, "industry_ids": bson.M{"$in": ids}}}},
		{{Key: "$unwind", Value: "$industry_ids"}},
		{{Key: "$match", Value: bson.M{"industry_ids": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$industry_ids", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int64              `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}

// CountInIndustries counts distinct companies with status mod tagged with any
// of ids.
func (s *Store) CountInIndustries(ctx context.Context, ids []primitive.ObjectID, mod models.ModerationStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, bson.M{"moderation_status": mod, "industry_ids": bson.M{"$in": ids}})
}

func (s *Store) slugTaken(ctx context.Context, sl string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"slug": sl}, options.Count().SetLimit(1))
	return n > 0, err
}

func dupError(err error) error {
	if strings.Contains(err.Error(), "uniq_companies_slug") {
		return ErrDuplicateSlug
	}
	return ErrDuplicateName
}

func normalize(c *models.Company) {
	c.Name = strings.TrimSpace(c.Name)
	c.NameCI = text.Fold(c.Name)
	if c.IndustryIDs == nil {
		c.IndustryIDs = []primitive.ObjectID{}
	}
	if c.FounderIDs == nil {
		c.FounderIDs = []primitive.ObjectID{}
	}
	if c.KeyPeopleIDs == nil {
		c.KeyPeopleIDs = []primitive.ObjectID{}
	}
}

// Create inserts c with a fresh slug in a single document write, relations
// included. Status defaults to Operating and moderation to pending.
func (s *Store) Create(ctx context.Context, c models.Company) (models.Company, error) {
	normalize(&c)
	sl, err := slug.Unique(ctx, slug.Make(c.Name), s.slugTaken)
	if err != nil {
		return models.Company{}, err
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Slug = sl
	if c.Status == "" {
		c.Status = models.CompanyOperating
	}
	if c.CompanyType == "" {
		c.CompanyType = models.CompanyStartup
	}
	if c.ModerationStatus == "" {
		c.ModerationStatus = models.ModerationPending
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Company{}, dupError(err)
		}
		return models.Company{}, err
	}
	return c, nil
}

// Update replaces the editable fields of the company. The slug and creation
// time are kept.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, c models.Company) (models.Company, error) {
	normalize(&c)
	set := bson.M{
		"name":                     c.Name,
		"name_ci":                  c.NameCI,
		"short_description":        c.ShortDescription,
		"description":              c.Description,
		"website":                  c.Website,
		"logo_url":                 c.LogoURL,
		"hq_city":                  c.HQCity,
		"hq_country":               c.HQCountry,
		"contact_email":            c.ContactEmail,
		"phone_number":             c.PhoneNumber,
		"founded_date":             c.FoundedDate,
		"company_type":             c.CompanyType,
		"status":                   c.Status,
		"employee_count_range":     c.EmployeeCountRange,
		"total_funding_raised_usd": c.TotalFundingRaisedUSD,
		"last_funding_date":        c.LastFundingDate,
		"last_funding_stage":       c.LastFundingStage,
		"linkedin_url":             c.LinkedInURL,
		"twitter_url":              c.TwitterURL,
		"facebook_url":             c.FacebookURL,
		"instagram_url":            c.InstagramURL,
		"crunchbase_url":           c.CrunchbaseURL,
		"angellist_url":            c.AngelListURL,
		"moderation_status":        c.ModerationStatus,
		"industry_ids":             c.IndustryIDs,
		"founder_ids":              c.FounderIDs,
		"key_people_ids":           c.KeyPeopleIDs,
		"updated_at":               time.Now().UTC(),
	}
	var out models.Company
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Company{}, dupError(err)
		}
		return models.Company{}, err
	}
	return out, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.Company
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": to, "updated_at": time.Now().UTC()}}).Decode(&before)
	return before.ModerationStatus, err
}

// Delete removes the company with its funding rounds and their
// participations, and unlinks it from curated content.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	rounds := s.db.Collection("funding_rounds")
	var roundIDs []primitive.ObjectID
	cur, err := rounds.Find(ctx, bson.M{"company_id": id}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			cur.Close(ctx)
			return err
		}
		roundIDs = append(roundIDs, row.ID)
	}
	cur.Close(ctx)
	if len(roundIDs) > 0 {
		if _, err := s.db.Collection("funding_round_participations").DeleteMany(ctx, bson.M{"funding_round_id": bson.M{"$in": roundIDs}}); err != nil {
			return err
		}
		if _, err := rounds.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": roundIDs}}); err != nil {
			return err
		}
	}
	_, err = s.db.Collection("curated_content").UpdateMany(ctx,
		bson.M{"related_company_ids": id}, bson.M{"$pull": bson.M{"related_company_ids": id}})
	return err
}
