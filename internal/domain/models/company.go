// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is the canonical directory entity. Industry, founder and key-person
// links are stored on the document so a company is written together with its
// relations in a single insert.
type Company struct {
	ID                    primitive.ObjectID   `bson:"_id" json:"id"`
	Name                  string               `bson:"name" json:"name"`
	NameCI                string               `bson:"name_ci" json:"-"`
	Slug                  string               `bson:"slug" json:"slug"`
	ShortDescription      string               `bson:"short_description,omitempty" json:"short_description"`
	Description           string               `bson:"description,omitempty" json:"description"`
	Website               string               `bson:"website,omitempty" json:"website"`
	LogoURL               string               `bson:"logo_url,omitempty" json:"logo_url"`
	HQCity                string               `bson:"hq_city,omitempty" json:"hq_city"`
	HQCountry             string               `bson:"hq_country,omitempty" json:"hq_country"`
	ContactEmail          string               `bson:"contact_email,omitempty" json:"contact_email"`
	PhoneNumber           string               `bson:"phone_number,omitempty" json:"phone_number"`
	FoundedDate           *time.Time           `bson:"founded_date,omitempty" json:"founded_date"`
	CompanyType           CompanyType          `bson:"company_type" json:"company_type"`
	Status                CompanyStatus        `bson:"status" json:"status"`
	EmployeeCountRange    string               `bson:"employee_count_range,omitempty" json:"employee_count_range"`
	TotalFundingRaisedUSD *float64             `bson:"total_funding_raised_usd,omitempty" json:"total_funding_raised_usd"`
	LastFundingDate       *time.Time           `bson:"last_funding_date,omitempty" json:"last_funding_date"`
	LastFundingStage      string               `bson:"last_funding_stage,omitempty" json:"last_funding_stage"`
	LinkedInURL           string               `bson:"linkedin_url,omitempty" json:"linkedin_url"`
	TwitterURL            string               `bson:"twitter_url,omitempty" json:"twitter_url"`
	FacebookURL           string               `bson:"facebook_url,omitempty" json:"facebook_url"`
	InstagramURL          string               `bson:"instagram_url,omitempty" json:"instagram_url"`
	CrunchbaseURL         string               `bson:"crunchbase_url,omitempty" json:"crunchbase_url"`
	AngelListURL          string               `bson:"angellist_url,omitempty" json:"angellist_url"`
	ModerationStatus      ModerationStatus     `bson:"moderation_status" json:"moderation_status"`
	IndustryIDs           []primitive.ObjectID `bson:"industry_ids" json:"industry_ids"`
	FounderIDs            []primitive.ObjectID `bson:"founder_ids" json:"founder_ids"`
	KeyPeopleIDs          []primitive.ObjectID `bson:"key_people_ids" json:"key_people_ids"`
	CreatedAt             time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time            `bson:"updated_at" json:"updated_at"`
}
