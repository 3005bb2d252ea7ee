package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CuratedContent struct {
	ID                primitive.ObjectID   `bson:"_id" json:"id"`
	Title             string               `bson:"title" json:"title"`
	Slug              string               `bson:"slug" json:"slug"`
	Description       string               `bson:"description,omitempty" json:"description"`
	ContentType       ContentType          `bson:"content_type" json:"content_type"`
	ImageURL          string               `bson:"image_url,omitempty" json:"image_url"`
	ExternalURL       string               `bson:"external_url,omitempty" json:"external_url"`
	FileURL           string               `bson:"file_url,omitempty" json:"file_url"`
	Content           string               `bson:"content,omitempty" json:"content"`
	Featured          bool                 `bson:"featured" json:"featured"`
	Order             int                  `bson:"order" json:"order"`
	PublishedDate     time.Time            `bson:"published_date" json:"published_date"`
	IndustryIDs       []primitive.ObjectID `bson:"industry_ids" json:"industry_ids"`
	RelatedCompanyIDs []primitive.ObjectID `bson:"related_company_ids" json:"related_company_ids"`
	ModerationStatus  ModerationStatus     `bson:"moderation_status" json:"moderation_status"`
	CreatedAt         time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time            `bson:"updated_at" json:"updated_at"`
}
