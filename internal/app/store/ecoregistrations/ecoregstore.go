package ecoregstore

import (
	"context"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ecosystem_builder_registrations")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.EcosystemBuilderRegistration, error) {
	var r models.EcosystemBuilderRegistration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.EcosystemBuilderRegistration{}, err
	}
	return r, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.EcosystemBuilderRegistration, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.EcosystemBuilderRegistration
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create stores a survey record as pending.
func (s *Store) Create(ctx context.Context, r models.EcosystemBuilderRegistration) (models.EcosystemBuilderRegistration, error) {
	r.ID = primitive.NewObjectID()
	if r.SupportServices == nil {
		r.SupportServices = []string{}
	}
	if r.ModerationStatus == "" {
		r.ModerationStatus = models.ModerationPending
	}
	r.SubmittedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.EcosystemBuilderRegistration{}, err
	}
	return r, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.EcosystemBuilderRegistration
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"moderation_status": to}}).Decode(&before)
	return before.ModerationStatus, err
}
