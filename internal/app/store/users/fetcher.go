package userstore

import (
	"context"

	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser looks up the token subject (a phone number) and returns nil if
// the user is not found or any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, phone string) *auth.User {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":            1,
		"name":           1,
		"phone_number":   1,
		"is_active":      1,
		"is_admin":       1,
		"is_super_admin": 1,
		"permissions":    1,
	})
	filter := bson.M{"phone_number": bson.M{"$in": normalize.PhoneVariants(phone)}}
	if err := f.users.FindOne(ctx, filter, proj).Decode(&u); err != nil {
		return nil
	}

	return &auth.User{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Phone:        u.PhoneNumber,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
		Permissions:  u.Permissions,
	}
}
