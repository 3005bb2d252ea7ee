package contactstore

import (
	"context"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

// Create stores a new contact message.
func (s *Store) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Status = models.ContactNew
	c.AdminNotes = ""
	c.RespondedAt = nil
	c.RespondedBy = ""
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Contact, error) {
	var c models.Contact
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.Contact, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.Contact
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Patch holds the staff-editable fields. Nil fields are left unchanged.
type Patch struct {
	Status     *models.ContactStatus
	AdminNotes *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Contact, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.AdminNotes != nil {
		set["admin_notes"] = *p.AdminNotes
	}
	return s.set(ctx, id, set)
}

// MarkResolved sets status resolved and stamps who responded and when.
func (s *Store) MarkResolved(ctx context.Context, id primitive.ObjectID, by string) (models.Contact, error) {
	now := time.Now().UTC()
	set := bson.M{"status": models.ContactResolved, "responded_at": now, "updated_at": now}
	if by != "" {
		set["responded_by"] = by
	}
	return s.set(ctx, id, set)
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Contact, error) {
	var out models.Contact
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

// CountByStatus counts contacts with the given status.
func (s *Store) CountByStatus(ctx context.Context, status models.ContactStatus) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
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
