package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EcosystemBuilderRegistration is a survey-style intake record from a hub,
// university, agency or similar. It is never promoted into a directory entity.
type EcosystemBuilderRegistration struct {
	ID                  primitive.ObjectID `bson:"_id" json:"id"`
	OrgName             string             `bson:"org_name" json:"org_name"`
	FullNameAndPosition string             `bson:"full_name_and_position" json:"full_name_and_position"`
	OrgType             string             `bson:"org_type" json:"org_type"`
	SupportServices     []string           `bson:"support_services" json:"support_services"`
	OperatingDuration   string             `bson:"operating_duration" json:"operating_duration"`
	NotablePrograms     string             `bson:"notable_programs" json:"notable_programs"`
	Collaboration       string             `bson:"collaboration" json:"collaboration"`
	Region              string             `bson:"region" json:"region"`
	City                string             `bson:"city" json:"city"`
	Mobile              string             `bson:"mobile,omitempty" json:"mobile"`
	Email               string             `bson:"email" json:"email"`
	Website             string             `bson:"website,omitempty" json:"website"`
	ModerationStatus    ModerationStatus   `bson:"moderation_status" json:"moderation_status"`
	SubmittedAt         time.Time          `bson:"submitted_at" json:"submitted_at"`
}

// EcosystemBuilderOrgTypes are the accepted OrgType values.
var EcosystemBuilderOrgTypes = []string{
	"Innovation hub or incubator",
	"University or TVET",
	"Government body",
	"NGO / CSO",
	"Private company",
	"Investor",
	"Donor or international agency",
	"Other",
}

// EcosystemBuilderServices are the accepted SupportServices values.
var EcosystemBuilderServices = []string{
	"Training or capacity building",
	"Mentorship or coaching",
	"Infrastructure (co-working, lab, etc.)",
	"Seed or grant funding",
	"Research and innovation services",
	"Incubator",
	"Other",
}
