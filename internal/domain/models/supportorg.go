package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupportOrgKind names one of the ecosystem-support organization tables.
type SupportOrgKind string

const (
	KindHub         SupportOrgKind = "hub"
	KindIncubator   SupportOrgKind = "incubator"
	KindAccelerator SupportOrgKind = "accelerator"
	KindUniversity  SupportOrgKind = "university"
)

// SupportOrgKinds lists every kind in display order.
var SupportOrgKinds = []SupportOrgKind{KindHub, KindIncubator, KindAccelerator, KindUniversity}

// Collection is the Mongo collection holding organizations of this kind.
func (k SupportOrgKind) Collection() string {
	switch k {
	case KindHub:
		return "hubs"
	case KindIncubator:
		return "incubators"
	case KindAccelerator:
		return "accelerators"
	case KindUniversity:
		return "universities"
	}
	return ""
}

func (k SupportOrgKind) Label() string {
	switch k {
	case KindHub:
		return "Hubs"
	case KindIncubator:
		return "Incubators"
	case KindAccelerator:
		return "Accelerators"
	case KindUniversity:
		return "Universities"
	}
	return string(k)
}

// SupportOrg is a hub, incubator, accelerator or university. The four kinds
// share one shape and live in separate collections.
type SupportOrg struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description"`
	Website          string             `bson:"website,omitempty" json:"website"`
	City             string             `bson:"city,omitempty" json:"city"`
	Region           string             `bson:"region,omitempty" json:"region"`
	ContactEmail     string             `bson:"contact_email,omitempty" json:"contact_email"`
	ContactPhone     string             `bson:"contact_phone,omitempty" json:"contact_phone"`
	LogoURL          string             `bson:"logo_url,omitempty" json:"logo_url"`
	ModerationStatus ModerationStatus   `bson:"moderation_status" json:"moderation_status"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
