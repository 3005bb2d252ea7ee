package contentstore

import (
	"context"
	"errors"
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

var ErrDuplicateSlug = errors.New("content with this slug already exists")

// DefaultOrder lists featured items first, then by editorial order, newest
// publication first.
var DefaultOrder = bson.D{{Key: "featured", Value: -1}, {Key: "order", Value: 1}, {Key: "published_date", Value: -1}, {Key: "_id", Value: 1}}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("curated_content")}
}

func (s *Store) GetBySlug(ctx context.Context, sl string, filter bson.M) (models.CuratedContent, error) {
	f := bson.M{"slug": sl}
	for k, v := range filter {
		f[k] = v
	}
	var cc models.CuratedContent
	if err := s.c.FindOne(ctx, f).Decode(&cc); err != nil {
		return models.CuratedContent{}, err
	}
	return cc, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.CuratedContent, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, q.Where(), q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.CuratedContent
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) slugTaken(ctx context.Context, sl string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"slug": sl}, options.Count().SetLimit(1))
	return n > 0, err
}

func normalize(cc *models.CuratedContent) {
	cc.Title = strings.TrimSpace(cc.Title)
	if cc.IndustryIDs == nil {
		cc.IndustryIDs = []primitive.ObjectID{}
	}
	if cc.RelatedCompanyIDs == nil {
		cc.RelatedCompanyIDs = []primitive.ObjectID{}
	}
}

// Create inserts cc. A blank slug is derived from the title.
func (s *Store) Create(ctx context.Context, cc models.CuratedContent) (models.CuratedContent, error) {
	normalize(&cc)
	base := slug.Make(cc.Slug)
	if strings.TrimSpace(cc.Slug) == "" {
		base = slug.Make(cc.Title)
	}
	sl, err := slug.Unique(ctx, base, s.slugTaken)
	if err != nil {
		return models.CuratedContent{}, err
	}
	now := time.Now().UTC()
	cc.ID = primitive.NewObjectID()
	cc.Slug = sl
	if cc.PublishedDate.IsZero() {
		cc.PublishedDate = now
	}
	if cc.ModerationStatus == "" {
		cc.ModerationStatus = models.ModerationPending
	}
	cc.CreatedAt = now
	cc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.CuratedContent{}, ErrDuplicateSlug
		}
		return models.CuratedContent{}, err
	}
	return cc, nil
}

func (s *Store) Update(ctx context.Context, sl string, cc models.CuratedContent) (models.CuratedContent, error) {
	normalize(&cc)
	set := bson.M{
		"title":               cc.Title,
		"description":         cc.Description,
		"content_type":        cc.ContentType,
		"image_url":           cc.ImageURL,
		"external_url":        cc.ExternalURL,
		"file_url":            cc.FileURL,
		"content":             cc.Content,
		"featured":            cc.Featured,
		"order":               cc.Order,
		"industry_ids":        cc.IndustryIDs,
		"related_company_ids": cc.RelatedCompanyIDs,
		"moderation_status":   cc.ModerationStatus,
		"updated_at":          time.Now().UTC(),
	}
	if !cc.PublishedDate.IsZero() {
		set["published_date"] = cc.PublishedDate
	}
	var out models.CuratedContent
	err := s.c.FindOneAndUpdate(ctx, bson.M{"slug": sl}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.CuratedContent{}, err
	}
	return out, nil
}

// SetModeration changes only the moderation status and returns the previous one.
func (s *Store) SetModeration(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error) {
	var before models.CuratedContent
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": to, "updated_at": time.Now().UTC()}}).Decode(&before)
	return before.ModerationStatus, err
}

func (s *Store) Delete(ctx context.Context, sl string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"slug": sl})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
