// internal/domain/models/orgregistration.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganizationRegistration is a self-submitted organization profile that can
// be promoted into a Company.
type OrganizationRegistration struct {
	ID                  primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationType    OrganizationType   `bson:"organization_type" json:"organization_type"`
	OrganizationName    string             `bson:"organization_name" json:"organization_name"`
	OrganizationNameCI  string             `bson:"organization_name_ci" json:"-"`
	Website             string             `bson:"website,omitempty" json:"website"`
	Description         string             `bson:"description" json:"description"`
	FoundedYear         *int               `bson:"founded_year,omitempty" json:"founded_year"`
	EmployeeCount       string             `bson:"employee_count,omitempty" json:"employee_count"`
	Headquarters        string             `bson:"headquarters" json:"headquarters"`
	Country             string             `bson:"country" json:"country"`
	FirstName           string             `bson:"first_name" json:"first_name"`
	LastName            string             `bson:"last_name" json:"last_name"`
	Email               string             `bson:"email" json:"email"`
	Phone               string             `bson:"phone,omitempty" json:"phone"`
	Position            string             `bson:"position" json:"position"`
	LinkedInProfile     string             `bson:"linkedin_profile,omitempty" json:"linkedin_profile"`
	Sectors             []string           `bson:"sectors" json:"sectors"`
	FundingStage        FundingStage       `bson:"funding_stage,omitempty" json:"funding_stage"`
	TotalFunding        *float64           `bson:"total_funding,omitempty" json:"total_funding"`
	KeyAchievements     string             `bson:"key_achievements,omitempty" json:"key_achievements"`
	SubscribeNewsletter bool               `bson:"subscribe_newsletter" json:"subscribe_newsletter"`
	Status              RegistrationStatus `bson:"status" json:"status"`
	AdminNotes          string             `bson:"admin_notes,omitempty" json:"admin_notes"`
	ReviewedAt          *time.Time         `bson:"reviewed_at,omitempty" json:"reviewed_at"`
	ReviewedBy          string             `bson:"reviewed_by,omitempty" json:"reviewed_by"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
}

// FullName joins the submitter's first and last name.
func (r OrganizationRegistration) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
