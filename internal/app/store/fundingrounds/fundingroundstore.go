// internal/app/store/fundingrounds/fundingroundstore.go
package fundingroundstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateParticipation = errors.New("this investor already participates in the round")

// Store covers funding rounds and their investor participations.
type Store struct {
	rounds *mongo.Collection
	parts  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		rounds: db.Collection("funding_rounds"),
		parts:  db.Collection("funding_round_participations"),
	}
}

var newestFirst = bson.D{{Key: "announced_date", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.FundingRound, error) {
	var fr models.FundingRound
	if err := s.rounds.FindOne(ctx, bson.M{"_id": id}).Decode(&fr); err != nil {
		return models.FundingRound{}, err
	}
	return fr, nil
}

func (s *Store) List(ctx context.Context, q listfilter.Query) ([]models.FundingRound, int64, error) {
	total, err := s.rounds.CountDocuments(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	out, err := s.find(ctx, q.Where(), q.FindOptions())
	return out, total, err
}

// ByCompany returns the newest rounds of a company. limit <= 0 returns all.
func (s *Store) ByCompany(ctx context.Context, companyID primitive.ObjectID, limit int64) ([]models.FundingRound, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, bson.M{"company_id": companyID}, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.FundingRound, error) {
	cur, err := s.rounds.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.FundingRound
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForAccepted lists rounds matching filter whose company is accepted,
// newest first, together with the total match count.
func (s *Store) ListForAccepted(ctx context.Context, filter bson.M, skip, limit int64) ([]models.FundingRound, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	rows := bson.A{bson.M{"$sort": newestFirst}}
	if skip > 0 {
		rows = append(rows, bson.M{"$skip": skip})
	}
	if limit > 0 {
		rows = append(rows, bson.M{"$limit": limit})
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "companies",
			"localField":   "company_id",
			"foreignField": "_id",
			"as":           "co",
		}}},
		{{Key: "$match", Value: bson.M{"co.moderation_status": models.ModerationAccepted}}},
		{{Key: "$project", Value: bson.M{"co": 0}}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "n"}},
			"rows":  rows,
		}}},
	}
	cur, err := s.rounds.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var facet []struct {
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
		Rows []models.FundingRound `bson:"rows"`
	}
	if err := cur.All(ctx, &facet); err != nil {
		return nil, 0, err
	}
	if len(facet) == 0 {
		return nil, 0, nil
	}
	var total int64
	if len(facet[0].Total) > 0 {
		total = facet[0].Total[0].N
	}
	return facet[0].Rows, total, nil
}

// YearRange matches announced_date within the calendar year.
func YearRange(year int) bson.M {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return bson.M{"$gte": from, "$lt": from.AddDate(1, 0, 0)}
}

func (s *Store) Create(ctx context.Context, fr models.FundingRound) (models.FundingRound, error) {
	now := time.Now().UTC()
	fr.ID = primitive.NewObjectID()
	fr.CreatedAt = now
	fr.UpdatedAt = now
	if _, err := s.rounds.InsertOne(ctx, fr); err != nil {
		return models.FundingRound{}, err
	}
	return fr, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fr models.FundingRound) (models.FundingRound, error) {
	set := bson.M{
		"company_id":               fr.CompanyID,
		"round_type":               fr.RoundType,
		"announced_date":           fr.AnnouncedDate,
		"money_raised_usd":         fr.MoneyRaisedUSD,
		"pre_money_valuation_usd":  fr.PreMoneyValuation,
		"post_money_valuation_usd": fr.PostMoneyValuation,
		"source_url":               fr.SourceURL,
		"notes":                    fr.Notes,
		"updated_at":               time.Now().UTC(),
	}
	var out models.FundingRound
	err := s.rounds.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.FundingRound{}, err
	}
	return out, nil
}

// Delete removes the round and its participations.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.rounds.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	_, err = s.parts.DeleteMany(ctx, bson.M{"funding_round_id": id})
	return err
}

// AddParticipation links an investor to a round. The pair is unique.
func (s *Store) AddParticipation(ctx context.Context, p models.FundingRoundParticipation) (models.FundingRoundParticipation, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if _, err := s.parts.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.FundingRoundParticipation{}, ErrDuplicateParticipation
		}
		return models.FundingRoundParticipation{}, err
	}
	return p, nil
}

// Participations returns the participations of the given rounds, leads first.
func (s *Store) Participations(ctx context.Context, roundIDs []primitive.ObjectID) ([]models.FundingRoundParticipation, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}
	cur, err := s.parts.Find(ctx, bson.M{"funding_round_id": bson.M{"$in": roundIDs}},
		options.Find().SetSort(bson.D{{Key: "is_lead_investor", Value: -1}, {Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.FundingRoundParticipation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountForInvestor counts every participation of the investor.
func (s *Store) CountForInvestor(ctx context.Context, investorID primitive.ObjectID) (int64, error) {
	return s.parts.CountDocuments(ctx, bson.M{"investor_id": investorID})
}

// PortfolioCompanyIDs returns the distinct companies the investor funded.
func (s *Store) PortfolioCompanyIDs(ctx context.Context, investorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	roundIDs, err := s.parts.Distinct(ctx, "funding_round_id", bson.M{"investor_id": investorID})
	if err != nil {
		return nil, err
	}
	if len(roundIDs) == 0 {
		return nil, nil
	}
	raw, err := s.rounds.Distinct(ctx, "company_id", bson.M{"_id": bson.M{"$in": roundIDs}})
	if err != nil {
		return nil, err
	}
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			out = append(out, id)
		}
	}
	return out, nil
}
