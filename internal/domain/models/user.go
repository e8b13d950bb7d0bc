// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a platform account. Farmers and admins share the users
// collection; admins are farmers-table rows with IsAdmin set.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name,omitempty" json:"name,omitempty"`
	NameCI         string             `bson:"name_ci,omitempty" json:"-"` // lowercase, diacritics-stripped
	PhoneNumber    string             `bson:"phone_number" json:"phone_number"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	IsActive       bool               `bson:"is_active" json:"is_active"`

	IsAdmin      bool     `bson:"is_admin,omitempty" json:"is_admin"`
	IsSuperAdmin bool     `bson:"is_super_admin,omitempty" json:"is_super_admin"`
	Permissions  []string `bson:"permissions,omitempty" json:"permissions,omitempty"`

	LastLogin *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
