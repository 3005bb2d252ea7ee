// Package metricsstore computes the aggregate figures behind the dashboard,
// ecosystem overview and statistics endpoints. Every aggregate covers
// accepted records only and treats absent numbers as zero.
package metricsstore

import (
	"context"
	"sort"
	"time"

	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var accepted = bson.M{"moderation_status": models.ModerationAccepted}

// DashboardOverview holds the headline counters.
type DashboardOverview struct {
	TotalCompanies    int64   `json:"total_companies"`
	TotalInvestors    int64   `json:"total_investors"`
	TotalFunding      float64 `json:"total_funding"`
	ActiveCompanies   int64   `json:"active_companies"`
	TotalHubs         int64   `json:"total_hubs"`
	TotalIncubators   int64   `json:"total_incubators"`
	TotalAccelerators int64   `json:"total_accelerators"`
	TotalUniversities int64   `json:"total_universities"`
	TotalRounds       int64   `json:"total_rounds"`
}

type RecentCompany struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	Name             string             `json:"name" bson:"name"`
	ShortDescription string             `json:"short_description" bson:"short_description"`
	Slug             string             `json:"slug" bson:"slug"`
}

type RecentRound struct {
	ID             primitive.ObjectID `json:"id"`
	CompanyName    string             `json:"company_name"`
	RoundType      string             `json:"round_type"`
	AnnouncedDate  string             `json:"announced_date"`
	MoneyRaisedUSD float64            `json:"money_raised_usd"`
}

type IndustryStat struct {
	Name         string `json:"name"`
	CompanyCount int64  `json:"company_count"`
}

// Dashboard is the dashboard payload. The zero value from NewDashboard is
// the degraded response.
type Dashboard struct {
	Overview        DashboardOverview `json:"overview"`
	RecentCompanies []RecentCompany   `json:"recent_companies"`
	RecentFunding   []RecentRound     `json:"recent_funding"`
	IndustryStats   []IndustryStat    `json:"industry_stats"`
	MonthlyFunding  []any             `json:"monthly_funding"`
	Error           string            `json:"error,omitempty"`
}

func NewDashboard() Dashboard {
	return Dashboard{
		RecentCompanies: []RecentCompany{},
		RecentFunding:   []RecentRound{},
		IndustryStats:   []IndustryStat{},
		MonthlyFunding:  []any{},
	}
}

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) count(ctx context.Context, coll string, filter bson.M) (int64, error) {
	return s.db.Collection(coll).CountDocuments(ctx, filter)
}

func merge(a, b bson.M) bson.M {
	out := bson.M{}
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// sumField sums a numeric field over the companies matching filter. Missing
// and null values count as zero.
func (s *Store) sumField(ctx context.Context, coll, field string, filter bson.M) (float64, error) {
	cur, err := s.db.Collection(coll).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$" + field, 0}}}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// acceptedRoundsPipeline matches rounds whose company is accepted and keeps
// the company name alongside.
func acceptedRoundsPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{"from": "companies", "localField": "company_id", "foreignField": "_id", "as": "co"}}},
		{{Key: "$unwind", Value: "$co"}},
		{{Key: "$match", Value: bson.M{"co.moderation_status": models.ModerationAccepted}}},
	}
}

// Dashboard computes the dashboard payload. On error the returned value is
// the zero dashboard.
func (s *Store) Dashboard(ctx context.Context) (Dashboard, error) {
	out := NewDashboard()
	var err error
	o := &out.Overview

	counters := []struct {
		dst    *int64
		coll   string
		filter bson.M
	}{
		{&o.TotalCompanies, "companies", accepted},
		{&o.TotalInvestors, "investors", accepted},
		{&o.ActiveCompanies, "companies", merge(accepted, bson.M{"status": models.CompanyOperating})},
		{&o.TotalHubs, models.KindHub.Collection(), accepted},
		{&o.TotalIncubators, models.KindIncubator.Collection(), accepted},
		{&o.TotalAccelerators, models.KindAccelerator.Collection(), accepted},
		{&o.TotalUniversities, models.KindUniversity.Collection(), accepted},
	}
	for _, c := range counters {
		if *c.dst, err = s.count(ctx, c.coll, c.filter); err != nil {
			return NewDashboard(), err
		}
	}
	if o.TotalRounds, err = s.countAcceptedRounds(ctx, bson.M{}); err != nil {
		return NewDashboard(), err
	}
	if o.TotalFunding, err = s.sumField(ctx, "companies", "total_funding_raised_usd", accepted); err != nil {
		return NewDashboard(), err
	}

	cur, err := s.db.Collection("companies").Find(ctx, accepted, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(5).
		SetProjection(bson.M{"name": 1, "short_description": 1, "slug": 1}))
	if err != nil {
		return NewDashboard(), err
	}
	if err := cur.All(ctx, &out.RecentCompanies); err != nil {
		return NewDashboard(), err
	}
	if out.RecentCompanies == nil {
		out.RecentCompanies = []RecentCompany{}
	}

	if out.RecentFunding, err = s.recentRounds(ctx, 5); err != nil {
		return NewDashboard(), err
	}

	stats, err := s.industryStats(ctx)
	if err != nil {
		return NewDashboard(), err
	}
	for _, st := range stats {
		if len(out.IndustryStats) == 10 {
			break
		}
		if st.CompanyCount > 0 {
			out.IndustryStats = append(out.IndustryStats, IndustryStat{Name: st.Name, CompanyCount: st.CompanyCount})
		}
	}
	return out, nil
}

func (s *Store) countAcceptedRounds(ctx context.Context, match bson.M) (int64, error) {
	p := append(acceptedRoundsPipeline(match), bson.D{{Key: "$count", Value: "n"}})
	cur, err := s.db.Collection("funding_rounds").Aggregate(ctx, p)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var rows []struct {
		N int64 `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}

func (s *Store) recentRounds(ctx context.Context, limit int64) ([]RecentRound, error) {
	p := append(acceptedRoundsPipeline(bson.M{}),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "announced_date", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	)
	cur, err := s.db.Collection("funding_rounds").Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []RecentRound{}
	for cur.Next(ctx) {
		var row struct {
			ID             primitive.ObjectID `bson:"_id"`
			RoundType      string             `bson:"round_type"`
			AnnouncedDate  time.Time          `bson:"announced_date"`
			MoneyRaisedUSD *float64           `bson:"money_raised_usd"`
			Co             struct {
				Name string `bson:"name"`
			} `bson:"co"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rr := RecentRound{ID: row.ID, CompanyName: row.Co.Name, RoundType: row.RoundType}
		if !row.AnnouncedDate.IsZero() {
			rr.AnnouncedDate = row.AnnouncedDate.Format("2006-01-02")
		}
		if row.MoneyRaisedUSD != nil {
			rr.MoneyRaisedUSD = *row.MoneyRaisedUSD
		}
		out = append(out, rr)
	}
	return out, cur.Err()
}

type industryFigures struct {
	Name         string
	CompanyCount int64
	TotalFunding float64
}

// industryStats returns every accepted industry with its accepted company
// count and funding, most companies first.
func (s *Store) industryStats(ctx context.Context) ([]industryFigures, error) {
	cur, err := s.db.Collection("industries").Find(ctx, accepted, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	var inds []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cur.All(ctx, &inds); err != nil {
		return nil, err
	}

	agg, err := s.db.Collection("companies").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: accepted}},
		{{Key: "$unwind", Value: "$industry_ids"}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$industry_ids",
			"n":       bson.M{"$sum": 1},
			"funding": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$total_funding_raised_usd", 0}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer agg.Close(ctx)
	type figures struct {
		ID      primitive.ObjectID `bson:"_id"`
		N       int64              `bson:"n"`
		Funding float64            `bson:"funding"`
	}
	byID := map[primitive.ObjectID]figures{}
	for agg.Next(ctx) {
		var row figures
		if err := agg.Decode(&row); err != nil {
			return nil, err
		}
		byID[row.ID] = row
	}
	if err := agg.Err(); err != nil {
		return nil, err
	}

	out := make([]industryFigures, 0, len(inds))
	for _, ind := range inds {
		f := byID[ind.ID]
		out = append(out, industryFigures{Name: ind.Name, CompanyCount: f.N, TotalFunding: f.Funding})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompanyCount != out[j].CompanyCount {
			return out[i].CompanyCount > out[j].CompanyCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
