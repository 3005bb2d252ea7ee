// internal/app/store/industries/industrystore.go
package industrystore

import (
	"context"
	"errors"
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

var ErrDuplicateIndustry = errors.New("an industry with this name already exists")

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("industries")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Industry, error) {
	var ind models.Industry
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ind); err != nil {
		return models.Industry{}, err
	}
	return ind, nil
}

// GetByName matches name exactly, case included.
func (s *Store) GetByName(ctx context.Context, name string) (models.Industry, error) {
	var ind models.Industry
	if err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&ind); err != nil {
		return models.Industry{}, err
	}
	return ind, nil
}

// GetByIDs loads industries by id, ordered by name.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Industry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.Industry, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	out, err := s.find(ctx, q.Where(), q.FindOptions())
	return out, total, err
}

// Roots returns industries without a parent matching mod, ordered by name.
func (s *Store) Roots(ctx context.Context, mod models.ModerationStatus) ([]models.Industry, error) {
	return s.find(ctx, bson.M{"parent_id": nil, "moderation_status": mod}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// Children returns the direct sub-industries of parent matching mod.
func (s *Store) Children(ctx context.Context, parent primitive.ObjectID, mod models.ModerationStatus) ([]models.Industry, error) {
	return s.find(ctx, bson.M{"parent_id": parent, "moderation_status": mod}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Industry, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Industry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) slugTaken(ctx context.Context, sl string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"slug": sl}, options.Count().SetLimit(1))
	return n > 0, err
}

// Create inserts ind with a fresh slug. Moderation defaults to pending.
func (s *Store) Create(ctx context.Context, ind models.Industry) (models.Industry, error) {
	sl, err := slug.Unique(ctx, slug.Make(ind.Name), s.slugTaken)
	if err != nil {
		return models.Industry{}, err
	}
	now := time.Now().UTC()
	ind.ID = primitive.NewObjectID()
	ind.Slug = sl
	if ind.ModerationStatus == "" {
		ind.ModerationStatus = models.ModerationPending
	}
	ind.CreatedAt = now
	ind.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ind); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Industry{}, ErrDuplicateIndustry
		}
		return models.Industry{}, err
	}
	return ind, nil
}

// FindOrCreateByName returns the industry named name, creating it as pending
// with a synthesized description when absent.
func (s *Store) FindOrCreateByName(ctx context.Context, name string) (models.Industry, bool, error) {
	ind, err := s.GetByName(ctx, name)
	if err == nil {
		return ind, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Industry{}, false, err
	}
	ind, err = s.Create(ctx, models.Industry{
		Name:             name,
		Description:      name + " industry",
		ModerationStatus: models.ModerationPending,
	})
	if err != nil {
		return models.Industry{}, false, err
	}
	return ind, true, nil
}

// Update replaces the editable fields. The slug is never regenerated.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, ind models.Industry) (models.Industry, error) {
	set := bson.M{
		"name":              ind.Name,
		"description":       ind.Description,
		"moderation_status": ind.ModerationStatus,
		"updated_at":        time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if ind.ParentID != nil {
		set["parent_id"] = ind.ParentID
	} else {
		update["$unset"] = bson.M{"parent_id": ""}
	}
	var out models.Industry
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Industry{}, ErrDuplicateIndustry
		}
		return models.Industry{}, err
	}
	return out, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.Industry
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": to, "updated_at": time.Now().UTC()}}).Decode(&before)
	return before.ModerationStatus, err
}

// Delete removes the industry, detaches its children and drops it from every
// company, investor and content item that references it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	if _, err := s.c.UpdateMany(ctx, bson.M{"parent_id": id}, bson.M{"$unset": bson.M{"parent_id": ""}}); err != nil {
		return err
	}
	pulls := []struct{ coll, field string }{
		{"companies", "industry_ids"},
		{"investors", "industry_focus_ids"},
		{"curated_content", "industry_ids"},
		{"company_submissions", "industry_ids"},
	}
	for _, p := range pulls {
		if _, err := s.db.Collection(p.coll).UpdateMany(ctx, bson.M{p.field: id}, bson.M{"$pull": bson.M{p.field: id}}); err != nil {
			return err
		}
	}
	return nil
}
