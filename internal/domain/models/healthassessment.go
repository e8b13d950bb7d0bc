// internal/domain/models/healthassessment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthAssessment is a saved crop financial-health record. Field names
// follow the camelCase keys the mobile app writes.
type HealthAssessment struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID              string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	CropType            string             `bson:"cropType" json:"cropType"`
	GovernmentSubsidy   float64            `bson:"governmentSubsidy" json:"governmentSubsidy"`
	SalePricePerQuintal float64            `bson:"salePricePerQuintal" json:"salePricePerQuintal"`
	TotalCost           float64            `bson:"totalCost" json:"totalCost"`
	QuantitySold        float64            `bson:"quantitySold" json:"quantitySold"`
	Timestamp           time.Time          `bson:"timestamp" json:"timestamp"`
}
