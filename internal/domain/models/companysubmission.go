package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanySubmission is a public listing request reviewed by staff. Its review
// vocabulary is SubmissionStatus.
type CompanySubmission struct {
	ID                    primitive.ObjectID   `bson:"_id" json:"id"`
	Name                  string               `bson:"name" json:"name"`
	Slug                  string               `bson:"slug" json:"slug"`
	ShortDescription      string               `bson:"short_description,omitempty" json:"short_description"`
	Description           string               `bson:"description" json:"description"`
	Website               string               `bson:"website,omitempty" json:"website"`
	FoundedDate           *time.Time           `bson:"founded_date,omitempty" json:"founded_date"`
	CompanyType           string               `bson:"company_type" json:"company_type"`
	Status                string               `bson:"status" json:"status"`
	HQCountry             string               `bson:"hq_country" json:"hq_country"`
	HQCity                string               `bson:"hq_city,omitempty" json:"hq_city"`
	HQAddress             string               `bson:"hq_address,omitempty" json:"hq_address"`
	EmployeeCount         string               `bson:"employee_count,omitempty" json:"employee_count"`
	TotalFundingRaisedUSD *float64             `bson:"total_funding_raised_usd,omitempty" json:"total_funding_raised_usd"`
	ContactEmail          string               `bson:"contact_email,omitempty" json:"contact_email"`
	ContactPhone          string               `bson:"contact_phone,omitempty" json:"contact_phone"`
	LinkedInURL           string               `bson:"linkedin_url,omitempty" json:"linkedin_url"`
	TwitterURL            string               `bson:"twitter_url,omitempty" json:"twitter_url"`
	FacebookURL           string               `bson:"facebook_url,omitempty" json:"facebook_url"`
	LogoURL               string               `bson:"logo_url,omitempty" json:"logo_url"`
	IndustryIDs           []primitive.ObjectID `bson:"industry_ids" json:"industry_ids"`
	Tags                  string               `bson:"tags,omitempty" json:"tags"`
	Notes                 string               `bson:"notes,omitempty" json:"notes"`
	ModerationStatus      SubmissionStatus     `bson:"moderation_status" json:"moderation_status"`
	SubmittedAt           time.Time            `bson:"submitted_at" json:"submitted_at"`
	ReviewedAt            *time.Time           `bson:"reviewed_at,omitempty" json:"reviewed_at"`
	ReviewedBy            string               `bson:"reviewed_by,omitempty" json:"reviewed_by"`
	RejectionReason       string               `bson:"rejection_reason,omitempty" json:"rejection_reason"`
	IsFeatured            bool                 `bson:"is_featured" json:"is_featured"`
	UpdatedAt             time.Time            `bson:"updated_at" json:"updated_at"`
}

// TagList splits the comma-separated Tags field, dropping blanks.
func (s CompanySubmission) TagList() []string {
	out := []string{}
	for _, t := range strings.Split(s.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
