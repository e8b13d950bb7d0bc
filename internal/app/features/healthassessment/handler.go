// Package healthassessment serves the crop financial-health endpoints
// used by the mobile app.
package healthassessment

import (
	"github.com/agribizboost/agriadmin/internal/app/store/healthassessments"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SavedMessage is returned with every persisted record.
const SavedMessage = "Health Assessment saved successfully"

// Handler serves POST /health-assessment and POST /health_assessment.
type Handler struct {
	Store *healthassessments.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Store: healthassessments.New(db),
		Log:   logger,
	}
}
