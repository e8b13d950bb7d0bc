// internal/app/store/healthassessments/store.go
package healthassessments

import (
	"context"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the health_assessments collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new health assessment Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("health_assessments")}
}

// IndexModels lists the per-user timeline index.
func IndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_health_user_ts"),
	}}
}

// EnsureIndexes creates IndexModels.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, IndexModels())
	return err
}

// Create inserts a record, assigning its ID and timestamp.
func (s *Store) Create(ctx context.Context, h models.HealthAssessment) (models.HealthAssessment, error) {
	h.ID = primitive.NewObjectID()
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, h); err != nil {
		return models.HealthAssessment{}, err
	}
	return h, nil
}

// ListByUser returns a user's records newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int64) ([]models.HealthAssessment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.HealthAssessment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
