package validators_test

import (
	"context"
	"testing"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/system/validators"
	"github.com/agribizboost/agriadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func ensured(t *testing.T) (*mongo.Database, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db, ctx
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db, ctx := ensured(t)

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db, ctx := ensured(t)

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}

	for _, want := range []string{
		"users", "refresh_tokens", "activity_logs", "health_assessments",
		"expenses", "assessments", "predictions", "loan_advice", "cost_cutting_strategies",
	} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db, ctx := ensured(t)
	users := db.Collection("users")

	if _, err := users.InsertOne(ctx, bson.M{"name": "No Phone"}); err == nil {
		t.Error("expected validation error for user without phone_number")
	}

	_, err := users.InsertOne(ctx, bson.M{
		"name":            "Abebe",
		"phone_number":    "+251911000010",
		"hashed_password": "$2a$10$abcdefghijklmnopqrstuv",
		"is_active":       true,
		"is_admin":        true,
		"permissions":     bson.A{"view_farmers"},
		"created_at":      time.Now(),
	})
	if err != nil {
		t.Errorf("Insert valid user failed: %v", err)
	}

	_, err = users.InsertOne(ctx, bson.M{
		"phone_number":    "   ",
		"hashed_password": "x",
		"is_active":       true,
	})
	if err == nil {
		t.Error("expected validation error for blank phone_number")
	}

	_, err = users.InsertOne(ctx, bson.M{
		"phone_number":    "+251911000011",
		"hashed_password": "x",
		"is_active":       "yes",
	})
	if err == nil {
		t.Error("expected validation error for non-bool is_active")
	}
}

func TestRefreshTokensValidator(t *testing.T) {
	db, ctx := ensured(t)
	coll := db.Collection("refresh_tokens")

	if _, err := coll.InsertOne(ctx, bson.M{"user_id": "+251911000010"}); err == nil {
		t.Error("expected validation error for token without hash")
	}

	_, err := coll.InsertOne(ctx, bson.M{
		"user_id":    "+251911000010",
		"token_hash": "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		"created_at": time.Now(),
		"expires_at": time.Now().Add(7 * 24 * time.Hour),
		"is_revoked": false,
	})
	if err != nil {
		t.Errorf("Insert valid refresh token failed: %v", err)
	}
}

func TestActivityLogsValidator(t *testing.T) {
	db, ctx := ensured(t)
	coll := db.Collection("activity_logs")

	valid := bson.M{
		"user_id":   "+251911000010",
		"action":    "login",
		"service":   "auth",
		"timestamp": time.Now(),
		"status":    "success",
	}
	if _, err := coll.InsertOne(ctx, valid); err != nil {
		t.Errorf("Insert valid activity log failed: %v", err)
	}

	bad := bson.M{
		"user_id":   "+251911000010",
		"action":    "login",
		"timestamp": time.Now(),
		"status":    "maybe",
	}
	if _, err := coll.InsertOne(ctx, bad); err == nil {
		t.Error("expected validation error for unknown status")
	}

	if _, err := coll.InsertOne(ctx, bson.M{"user_id": "x", "timestamp": time.Now()}); err == nil {
		t.Error("expected validation error for missing action")
	}
}

func TestHealthAssessmentsValidator(t *testing.T) {
	db, ctx := ensured(t)
	coll := db.Collection("health_assessments")

	_, err := coll.InsertOne(ctx, bson.M{
		"cropType":            "teff",
		"governmentSubsidy":   0,
		"salePricePerQuintal": 4500.5,
		"totalCost":           12000,
		"quantitySold":        int64(10),
		"timestamp":           time.Now(),
	})
	if err != nil {
		t.Errorf("Insert valid assessment failed: %v", err)
	}

	_, err = coll.InsertOne(ctx, bson.M{
		"cropType":            "teff",
		"salePricePerQuintal": "lots",
		"totalCost":           12000,
		"quantitySold":        10,
		"timestamp":           time.Now(),
	})
	if err == nil {
		t.Error("expected validation error for non-numeric price")
	}
}

func TestServiceRecords_NoValidator(t *testing.T) {
	db, ctx := ensured(t)

	if _, err := db.Collection("expenses").InsertOne(ctx, bson.M{"anything": true}); err != nil {
		t.Errorf("expenses should accept any document: %v", err)
	}
}
