package metricsstore

import (
	"context"

	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const unknown = "Unknown"

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CountryCount struct {
	HQCountry string `json:"hq_country"`
	Count     int64  `json:"count"`
}

type CompanyStatistics struct {
	TotalCompanies  int64          `json:"total_companies"`
	TotalFundingUSD float64        `json:"total_funding_usd"`
	ByStatus        []StatusCount  `json:"by_status"`
	ByCountry       []CountryCount `json:"by_country"`
	Error           string         `json:"error,omitempty"`
}

func NewCompanyStatistics() CompanyStatistics {
	return CompanyStatistics{ByStatus: []StatusCount{}, ByCountry: []CountryCount{}}
}

type groupRow struct {
	Key   *string `bson:"_id"`
	Count int64   `bson:"count"`
}

func (r groupRow) label() string {
	if r.Key == nil || *r.Key == "" {
		return unknown
	}
	return *r.Key
}

func (s *Store) groupCount(ctx context.Context, field string, limit int64) ([]groupRow, error) {
	p := mongo.Pipeline{
		{{Key: "$match", Value: accepted}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	cur, err := s.db.Collection("companies").Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	var rows []groupRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CompanyStatistics summarizes accepted companies by status and country.
func (s *Store) CompanyStatistics(ctx context.Context) (CompanyStatistics, error) {
	out := NewCompanyStatistics()
	var err error
	if out.TotalCompanies, err = s.count(ctx, "companies", accepted); err != nil {
		return NewCompanyStatistics(), err
	}
	if out.TotalFundingUSD, err = s.sumField(ctx, "companies", "total_funding_raised_usd", accepted); err != nil {
		return NewCompanyStatistics(), err
	}
	rows, err := s.groupCount(ctx, "status", 0)
	if err != nil {
		return NewCompanyStatistics(), err
	}
	for _, r := range rows {
		out.ByStatus = append(out.ByStatus, StatusCount{Status: r.label(), Count: r.Count})
	}
	rows, err = s.groupCount(ctx, "hq_country", 10)
	if err != nil {
		return NewCompanyStatistics(), err
	}
	for _, r := range rows {
		out.ByCountry = append(out.ByCountry, CountryCount{HQCountry: r.label(), Count: r.Count})
	}
	return out, nil
}

type TypeCount struct {
	OrganizationType string `json:"organization_type" bson:"_id"`
	Count            int64  `json:"count" bson:"count"`
}

// RegistrationStatistics covers every organization registration regardless
// of review state.
type RegistrationStatistics struct {
	TotalRegistrations    int64                             `json:"total_registrations"`
	PendingRegistrations  int64                             `json:"pending_registrations"`
	ApprovedRegistrations int64                             `json:"approved_registrations"`
	TypeStatistics        []TypeCount                       `json:"type_statistics"`
	Recent                []models.OrganizationRegistration `json:"-"`
}

func (s *Store) RegistrationStatistics(ctx context.Context) (RegistrationStatistics, error) {
	out := RegistrationStatistics{TypeStatistics: []TypeCount{}, Recent: []models.OrganizationRegistration{}}
	coll := "organization_registrations"
	var err error
	if out.TotalRegistrations, err = s.count(ctx, coll, bson.M{}); err != nil {
		return out, err
	}
	if out.PendingRegistrations, err = s.count(ctx, coll, bson.M{"status": models.RegistrationPending}); err != nil {
		return out, err
	}
	if out.ApprovedRegistrations, err = s.count(ctx, coll, bson.M{"status": models.RegistrationApproved}); err != nil {
		return out, err
	}

	cur, err := s.db.Collection(coll).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$organization_type", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return out, err
	}
	if err := cur.All(ctx, &out.TypeStatistics); err != nil {
		return out, err
	}
	if out.TypeStatistics == nil {
		out.TypeStatistics = []TypeCount{}
	}

	rc, err := s.db.Collection(coll).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(10))
	if err != nil {
		return out, err
	}
	if err := rc.All(ctx, &out.Recent); err != nil {
		return out, err
	}
	if out.Recent == nil {
		out.Recent = []models.OrganizationRegistration{}
	}
	return out, nil
}
