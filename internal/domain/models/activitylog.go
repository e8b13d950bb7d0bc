// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLog is one append-only audit entry. UserID holds the hex id of
// the acting user, matching how the service collections key their rows.
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Action    string             `bson:"action"`
	Service   string             `bson:"service"`
	Timestamp time.Time          `bson:"timestamp"`
	Details   map[string]any     `bson:"details,omitempty"`
	IPAddress string             `bson:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`
	Status    string             `bson:"status,omitempty"` // success | failure
}
