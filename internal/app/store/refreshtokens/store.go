// internal/app/store/refreshtokens/store.go
package refreshtokens

import (
	"context"
	"errors"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no usable token matches.
var ErrNotFound = errors.New("refresh token not found")

// Store manages the refresh_tokens collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new refresh token Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("refresh_tokens")}
}

// IndexModels lists the hash lookup index, a per-user index and the
// expiry index the cleanup job scans.
func IndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetName("uniq_refresh_hash").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_refresh_user"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_refresh_expires"),
		},
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, IndexModels())
	return err
}

// Create stores a new token record for userID that expires after ttl.
func (s *Store) Create(ctx context.Context, userID, hash string, ttl time.Duration) (models.RefreshToken, error) {
	now := time.Now().UTC()
	rt := models.RefreshToken{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err := s.c.InsertOne(ctx, rt)
	return rt, err
}

// FindValid returns the unrevoked, unexpired record for hash.
func (s *Store) FindValid(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.c.FindOne(ctx, bson.M{
		"token_hash": hash,
		"is_revoked": false,
		"expires_at": bson.M{"$gt": now},
	}).Decode(&rt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke marks the token with hash revoked. It reports whether a live
// token was found.
func (s *Store) Revoke(ctx context.Context, hash string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"token_hash": hash, "is_revoked": false},
		bson.M{"$set": bson.M{"is_revoked": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RevokeAllForUser revokes every live token for userID.
func (s *Store) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_revoked": false},
		bson.M{"$set": bson.M{"is_revoked": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteExpired removes tokens that expired before now and revoked
// tokens older than now. It returns the number removed.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"expires_at": bson.M{"$lt": now}},
		{"is_revoked": true, "created_at": bson.M{"$lt": now}},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
