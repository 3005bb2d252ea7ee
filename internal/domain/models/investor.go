package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Investor struct {
	ID                 primitive.ObjectID   `bson:"_id" json:"id"`
	Name               string               `bson:"name" json:"name"`
	NameCI             string               `bson:"name_ci" json:"-"`
	Slug               string               `bson:"slug" json:"slug"`
	LogoURL            string               `bson:"logo_url,omitempty" json:"logo_url"`
	Website            string               `bson:"website,omitempty" json:"website"`
	Description        string               `bson:"description,omitempty" json:"description"`
	InvestorType       InvestorType         `bson:"investor_type" json:"investor_type"`
	HQCity             string               `bson:"hq_city,omitempty" json:"hq_city"`
	HQCountry          string               `bson:"hq_country,omitempty" json:"hq_country"`
	FundingStagesFocus string               `bson:"funding_stages_focus,omitempty" json:"funding_stages_focus"`
	ContactEmail       string               `bson:"contact_email,omitempty" json:"contact_email"`
	LinkedInURL        string               `bson:"linkedin_url,omitempty" json:"linkedin_url"`
	IndustryFocusIDs   []primitive.ObjectID `bson:"industry_focus_ids" json:"industry_focus_ids"`
	ModerationStatus   ModerationStatus     `bson:"moderation_status" json:"moderation_status"`
	CreatedAt          time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at" json:"updated_at"`
}
