// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the collections the API writes to and attaches
// JSON-Schema validators. Servers without collMod support are logged and
// skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("refresh_tokens", refreshTokensSchema())
	ensure("activity_logs", activityLogsSchema())
	ensure("health_assessments", healthAssessmentsSchema())

	// Service records are written by the farmer-facing services; the admin
	// API only reads them.
	for _, coll := range []string{"expenses", "assessments", "predictions", "loan_advice", "cost_cutting_strategies"} {
		ensure(coll, nil)
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------------- collections ------------------------------- */

// ensureCollection creates name unless it exists. created is true only when
// this call made it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if commandFailed(err, []int32{48}, "already exists", "namespace exists") {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

// setValidator attaches schema at the moderate level: documents that were
// already invalid are not checked on update.
func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

func isNoSuchCommand(err error) bool {
	return commandFailed(err, []int32{59}, "no such command")
}

func isNotImplemented(err error) bool {
	return commandFailed(err, []int32{115}, "not implemented", "not supported")
}

// commandFailed matches err by server error code or, for drivers and
// proxies that rewrap errors, by message text.
func commandFailed(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && slices.Contains(codes, ce.Code) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"phone_number", "hashed_password", "is_active"},
			"properties": bson.M{
				"name":            bson.M{"bsonType": "string"},
				"name_ci":         bson.M{"bsonType": "string"},
				"phone_number":    nonBlank,
				"email":           bson.M{"bsonType": bson.A{"string", "null"}},
				"hashed_password": nonBlank,
				"location":        bson.M{"bsonType": "string"},
				"is_active":       bson.M{"bsonType": "bool"},
				"is_admin":        bson.M{"bsonType": "bool"},
				"is_super_admin":  bson.M{"bsonType": "bool"},
				"permissions":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"last_login":      bson.M{"bsonType": bson.A{"date", "null"}},
				"created_at":      bson.M{"bsonType": "date"},
				"updated_at":      bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func refreshTokensSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "token_hash", "expires_at", "is_revoked"},
			"properties": bson.M{
				"user_id":    nonBlank,
				"token_hash": nonBlank,
				"created_at": bson.M{"bsonType": "date"},
				"expires_at": bson.M{"bsonType": "date"},
				"is_revoked": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func activityLogsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "action", "timestamp"},
			"properties": bson.M{
				"user_id":    bson.M{"bsonType": "string"},
				"action":     nonBlank,
				"service":    bson.M{"bsonType": "string"},
				"timestamp":  bson.M{"bsonType": "date"},
				"details":    bson.M{"bsonType": "object"},
				"ip_address": bson.M{"bsonType": "string"},
				"user_agent": bson.M{"bsonType": "string"},
				"status":     bson.M{"enum": bson.A{"success", "failure"}},
			},
		},
	}
}

func healthAssessmentsSchema() bson.M {
	number := bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"cropType", "salePricePerQuintal", "totalCost", "quantitySold", "timestamp"},
			"properties": bson.M{
				"user_id":             bson.M{"bsonType": "string"},
				"cropType":            bson.M{"bsonType": "string"},
				"governmentSubsidy":   number,
				"salePricePerQuintal": number,
				"totalCost":           number,
				"quantitySold":        number,
				"timestamp":           bson.M{"bsonType": "date"},
			},
		},
	}
}
