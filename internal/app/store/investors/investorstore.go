package investorstore

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

var ErrDuplicateInvestor = errors.New("an investor with this name already exists")

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("investors")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Investor, error) {
	var inv models.Investor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return models.Investor{}, err
	}
	return inv, nil
}

// GetByIDs loads investors keyed by id.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Investor, error) {
	out := make(map[primitive.ObjectID]models.Investor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		out[inv.ID] = inv
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.Investor, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	out, err := s.find(ctx, q.Where(), q.FindOptions())
	return out, total, err
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Investor, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Investor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) slugTaken(ctx context.Context, sl string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"slug": sl}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *Store) Create(ctx context.Context, inv models.Investor) (models.Investor, error) {
	inv.Name = strings.TrimSpace(inv.Name)
	sl, err := slug.Unique(ctx, slug.Make(inv.Name), s.slugTaken)
	if err != nil {
		return models.Investor{}, err
	}
	now := time.Now().UTC()
	inv.ID = primitive.NewObjectID()
	inv.Slug = sl
	inv.NameCI = text.Fold(inv.Name)
	if inv.IndustryFocusIDs == nil {
		inv.IndustryFocusIDs = []primitive.ObjectID{}
	}
	if inv.ModerationStatus == "" {
		inv.ModerationStatus = models.ModerationPending
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Investor{}, ErrDuplicateInvestor
		}
		return models.Investor{}, err
	}
	return inv, nil
}

// Update replaces the editable fields. The slug is never regenerated.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, inv models.Investor) (models.Investor, error) {
	inv.Name = strings.TrimSpace(inv.Name)
	if inv.IndustryFocusIDs == nil {
		inv.IndustryFocusIDs = []primitive.ObjectID{}
	}
	set := bson.M{
		"name":                 inv.Name,
		"name_ci":              text.Fold(inv.Name),
		"logo_url":             inv.LogoURL,
		"website":              inv.Website,
		"description":          inv.Description,
		"investor_type":        inv.InvestorType,
		"hq_city":              inv.HQCity,
		"hq_country":           inv.HQCountry,
		"funding_stages_focus": inv.FundingStagesFocus,
		"contact_email":        inv.ContactEmail,
		"linkedin_url":         inv.LinkedInURL,
		"industry_focus_ids":   inv.IndustryFocusIDs,
		"moderation_status":    inv.ModerationStatus,
		"updated_at":           time.Now().UTC(),
	}
	var out models.Investor
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Investor{}, ErrDuplicateInvestor
		}
		return models.Investor{}, err
	}
	return out, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.Investor
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": to, "updated_at": time.Now().UTC()}}).Decode(&before)
	return before.ModerationStatus, err
}

// Delete removes the investor and its round participations.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	_, err = s.db.Collection("funding_round_participations").DeleteMany(ctx, bson.M{"investor_id": id})
	return err
}
