// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an API account. Staff users may moderate, review registrations and
// read contact messages.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	FirstName    string             `bson:"first_name,omitempty" json:"first_name"`
	LastName     string             `bson:"last_name,omitempty" json:"last_name"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	IsStaff      bool               `bson:"is_staff" json:"is_staff"`
	IsActive     bool               `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
