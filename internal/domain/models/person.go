package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Person is an individual profile. Email is unique when present, so it is a
// pointer and omitted from the document when unset.
type Person struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	FullName          string             `bson:"full_name" json:"full_name"`
	FullNameCI        string             `bson:"full_name_ci" json:"-"`
	Slug              string             `bson:"slug" json:"slug"`
	Email             *string            `bson:"email,omitempty" json:"email"`
	LinkedInURL       string             `bson:"linkedin_url,omitempty" json:"linkedin_url"`
	TwitterURL        string             `bson:"twitter_url,omitempty" json:"twitter_url"`
	Bio               string             `bson:"bio,omitempty" json:"bio"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty" json:"profile_picture_url"`
	ModerationStatus  ModerationStatus   `bson:"moderation_status" json:"moderation_status"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
