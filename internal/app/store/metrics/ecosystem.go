package metricsstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EcosystemOverview struct {
	TotalCompanies    int64   `json:"total_companies"`
	TotalFunding      float64 `json:"total_funding"`
	CompaniesThisYear int64   `json:"companies_this_year"`
	CompaniesLastYear int64   `json:"companies_last_year"`
	FundingThisYear   float64 `json:"funding_this_year"`
	GrowthRate        float64 `json:"growth_rate"`
}

type TopIndustry struct {
	Name         string  `json:"name"`
	CompanyCount int64   `json:"company_count"`
	TotalFunding float64 `json:"total_funding"`
}

type GeoBucket struct {
	HQCity       string  `json:"hq_city" bson:"hq_city"`
	HQCountry    string  `json:"hq_country" bson:"hq_country"`
	Count        int64   `json:"count" bson:"count"`
	TotalFunding float64 `json:"total_funding" bson:"total_funding"`
}

type Ecosystem struct {
	Overview               EcosystemOverview `json:"overview"`
	TopIndustries          []TopIndustry     `json:"top_industries"`
	GeographicDistribution []GeoBucket       `json:"geographic_distribution"`
	Error                  string            `json:"error,omitempty"`
}

func NewEcosystem() Ecosystem {
	return Ecosystem{TopIndustries: []TopIndustry{}, GeographicDistribution: []GeoBucket{}}
}

func yearRange(year int) bson.M {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return bson.M{"$gte": from, "$lt": from.AddDate(1, 0, 0)}
}

// GrowthRate is the percentage change from last to this; zero when last is
// zero.
func GrowthRate(this, last int64) float64 {
	if last <= 0 {
		return 0
	}
	return float64(this-last) / float64(last) * 100
}

// Ecosystem computes the overview relative to now's calendar year.
func (s *Store) Ecosystem(ctx context.Context, now time.Time) (Ecosystem, error) {
	out := NewEcosystem()
	o := &out.Overview
	year := now.UTC().Year()
	var err error

	if o.TotalCompanies, err = s.count(ctx, "companies", accepted); err != nil {
		return NewEcosystem(), err
	}
	if o.TotalFunding, err = s.sumField(ctx, "companies", "total_funding_raised_usd", accepted); err != nil {
		return NewEcosystem(), err
	}
	if o.CompaniesThisYear, err = s.count(ctx, "companies", merge(accepted, bson.M{"created_at": yearRange(year)})); err != nil {
		return NewEcosystem(), err
	}
	if o.CompaniesLastYear, err = s.count(ctx, "companies", merge(accepted, bson.M{"created_at": yearRange(year - 1)})); err != nil {
		return NewEcosystem(), err
	}
	if o.FundingThisYear, err = s.acceptedRoundFunding(ctx, year); err != nil {
		return NewEcosystem(), err
	}
	o.GrowthRate = GrowthRate(o.CompaniesThisYear, o.CompaniesLastYear)

	stats, err := s.industryStats(ctx)
	if err != nil {
		return NewEcosystem(), err
	}
	for i, st := range stats {
		if i == 10 {
			break
		}
		out.TopIndustries = append(out.TopIndustries, TopIndustry(st))
	}

	cur, err := s.db.Collection("companies").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: accepted}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"hq_city": "$hq_city", "hq_country": "$hq_country"},
			"count":         bson.M{"$sum": 1},
			"total_funding": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$total_funding_raised_usd", 0}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id.hq_country", Value: 1}, {Key: "_id.hq_city", Value: 1}}}},
		{{Key: "$limit", Value: 20}},
		{{Key: "$project", Value: bson.M{
			"_id":           0,
			"hq_city":       "$_id.hq_city",
			"hq_country":    "$_id.hq_country",
			"count":         1,
			"total_funding": 1,
		}}},
	})
	if err != nil {
		return NewEcosystem(), err
	}
	if err := cur.All(ctx, &out.GeographicDistribution); err != nil {
		return NewEcosystem(), err
	}
	if out.GeographicDistribution == nil {
		out.GeographicDistribution = []GeoBucket{}
	}
	return out, nil
}

func (s *Store) acceptedRoundFunding(ctx context.Context, year int) (float64, error) {
	p := append(acceptedRoundsPipeline(bson.M{"announced_date": yearRange(year)}),
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$money_raised_usd", 0}}}}}},
	)
	cur, err := s.db.Collection("funding_rounds").Aggregate(ctx, p)
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
