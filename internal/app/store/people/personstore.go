package personstore

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

var ErrDuplicateEmail = errors.New("a person with this email already exists")

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("people")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Person, error) {
	var p models.Person
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Person{}, err
	}
	return p, nil
}

// GetByEmail matches email exactly.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Person, error) {
	var p models.Person
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		return models.Person{}, err
	}
	return p, nil
}

// GetByIDs loads people by id, ordered by full name.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Person
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.Person, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.Person
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) slugTaken(ctx context.Context, sl string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"slug": sl}, options.Count().SetLimit(1))
	return n > 0, err
}

func normalizeEmail(p *models.Person) {
	if p.Email == nil {
		return
	}
	e := strings.TrimSpace(*p.Email)
	if e == "" {
		p.Email = nil
		return
	}
	p.Email = &e
}

// Create inserts p with a fresh slug. Moderation defaults to pending.
func (s *Store) Create(ctx context.Context, p models.Person) (models.Person, error) {
	sl, err := slug.Unique(ctx, slug.Make(p.FullName), s.slugTaken)
	if err != nil {
		return models.Person{}, err
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Slug = sl
	p.FullNameCI = text.Fold(p.FullName)
	normalizeEmail(&p)
	if p.ModerationStatus == "" {
		p.ModerationStatus = models.ModerationPending
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Person{}, ErrDuplicateEmail
		}
		return models.Person{}, err
	}
	return p, nil
}

// FindOrCreateByEmail returns the person with email, or creates one from
// proto when none exists.
func (s *Store) FindOrCreateByEmail(ctx context.Context, email string, proto models.Person) (models.Person, bool, error) {
	p, err := s.GetByEmail(ctx, email)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Person{}, false, err
	}
	proto.Email = &email
	p, err = s.Create(ctx, proto)
	if err != nil {
		return models.Person{}, false, err
	}
	return p, true, nil
}

// Update replaces the editable fields. The slug is never regenerated.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Person) (models.Person, error) {
	normalizeEmail(&p)
	set := bson.M{
		"full_name":           p.FullName,
		"full_name_ci":        text.Fold(p.FullName),
		"linkedin_url":        p.LinkedInURL,
		"twitter_url":         p.TwitterURL,
		"bio":                 p.Bio,
		"profile_picture_url": p.ProfilePictureURL,
		"moderation_status":   p.ModerationStatus,
		"updated_at":          time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if p.Email != nil {
		set["email"] = *p.Email
	} else {
		update["$unset"] = bson.M{"email": ""}
	}
	var out models.Person
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Person{}, ErrDuplicateEmail
		}
		return models.Person{}, err
	}
	return out, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.Person
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": to, "updated_at": time.Now().UTC()}}).Decode(&before)
	return before.ModerationStatus, err
}

// Delete removes the person and unlinks them from every company.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	_, err = s.db.Collection("companies").UpdateMany(ctx,
		bson.M{"$or": bson.A{bson.M{"founder_ids": id}, bson.M{"key_people_ids": id}}},
		bson.M{"$pull": bson.M{"founder_ids": id, "key_people_ids": id}})
	return err
}
