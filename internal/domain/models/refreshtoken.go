// internal/domain/models/refreshtoken.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshToken is the server-side record of an issued refresh token.
// Only the SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	TokenHash string             `bson:"token_hash"`
	CreatedAt time.Time          `bson:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at"`
	IsRevoked bool               `bson:"is_revoked"`
}
