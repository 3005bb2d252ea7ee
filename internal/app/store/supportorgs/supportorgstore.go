package supportorgstore

import (
	"context"
	"strings"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads and writes one kind of support organization.
type Store struct {
	kind models.SupportOrgKind
	c    *mongo.Collection
}

func New(db *mongo.Database, kind models.SupportOrgKind) *Store {
	return &Store{kind: kind, c: db.Collection(kind.Collection())}
}

func (s *Store) Kind() models.SupportOrgKind { return s.kind }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SupportOrg, error) {
	var o models.SupportOrg
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return models.SupportOrg{}, err
	}
	return o, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.SupportOrg, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.SupportOrg
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create inserts o. Moderation defaults to pending.
func (s *Store) Create(ctx context.Context, o models.SupportOrg) (models.SupportOrg, error) {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.Name = strings.TrimSpace(o.Name)
	if o.ModerationStatus == "" {
		o.ModerationStatus = models.ModerationPending
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.SupportOrg{}, err
	}
	return o, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.SupportOrg
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": to, "updated_at": time.Now().UTC()}}).Decode(&before)
	return before.ModerationStatus, err
}

// Count counts organizations of this kind with moderation status mod.
func (s *Store) Count(ctx context.Context, mod models.ModerationStatus) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"moderation_status": mod})
}
