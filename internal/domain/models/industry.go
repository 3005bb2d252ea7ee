package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Industry is a sector taxonomy node. ParentID is nil for root sectors.
type Industry struct {
	ID               primitive.ObjectID  `bson:"_id" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Slug             string              `bson:"slug" json:"slug"`
	Description      string              `bson:"description,omitempty" json:"description"`
	ParentID         *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_industry"`
	ModerationStatus ModerationStatus    `bson:"moderation_status" json:"moderation_status"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updated_at"`
}
