package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Contact struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Company     string             `bson:"company,omitempty" json:"company"`
	Message     string             `bson:"message" json:"message"`
	Status      ContactStatus      `bson:"status" json:"status"`
	AdminNotes  string             `bson:"admin_notes,omitempty" json:"admin_notes"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"responded_at"`
	RespondedBy string             `bson:"responded_by,omitempty" json:"responded_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
