// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Services that write activity entries.
const (
	ServiceAuth           = "auth"
	ServiceAdminDashboard = "admin_dashboard"
)

// Actions recorded by the admin backend. Farmer-facing services write
// their own actions into the same collection.
const (
	ActionLogin        = "login"
	ActionLoginFailed  = "login_failed"
	ActionLogout       = "logout"
	ActionTokenRefresh = "token_refresh"

	ActionViewDashboardSummary = "view_dashboard_summary"
	ActionListFarmers          = "list_farmers"
	ActionViewFarmerDetails    = "view_farmer_details"
	ActionSearchFarmers        = "search_farmers"
	ActionExportFarmerData     = "export_farmer_data"
	ActionViewServiceTrends    = "view_service_trends"
	ActionViewNeedingAttention = "view_farmers_needing_attention"
	ActionViewActivityLogs     = "view_activity_logs"
	ActionListAdminUsers       = "list_admin_users"
	ActionCreateAdminUser      = "create_admin_user"
	ActionUpdateAdminUser      = "update_admin_user"
	ActionDeleteAdminUser      = "delete_admin_user"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Filter narrows a Query or Count. Zero fields are ignored.
type Filter struct {
	UserID  string
	Action  string
	Service string
	Start   *time.Time
	End     *time.Time
	Skip    int64
	Limit   int64
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.Service != "" {
		q["service"] = f.Service
	}
	if f.Start != nil || f.End != nil {
		ts := bson.M{}
		if f.Start != nil {
			ts["$gte"] = *f.Start
		}
		if f.End != nil {
			ts["$lte"] = *f.End
		}
		q["timestamp"] = ts
	}
	return q
}

// Store manages the activity_logs collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

// IndexModels lists the indexes used by the admin queries.
func IndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_ts"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "action", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_user_action"),
		},
		{
			Keys:    bson.D{{Key: "service", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_service"),
		},
	}
}

// EnsureIndexes creates IndexModels directly; production startup goes
// through system/indexes instead.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, IndexModels())
	return err
}

// Log appends an entry, filling ID and Timestamp when unset.
func (s *Store) Log(ctx context.Context, e models.ActivityLog) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// Query returns matching entries newest first. Limit defaults to 100.
func (s *Store) Query(ctx context.Context, f Filter) ([]models.ActivityLog, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(f.Skip).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ActivityLog{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns how many entries match, ignoring Skip and Limit.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// Last returns the timestamp of the most recent matching entry, or nil.
func (s *Store) Last(ctx context.Context, f Filter) (*time.Time, error) {
	var row struct {
		Timestamp time.Time `bson:"timestamp"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetProjection(bson.M{"timestamp": 1})
	err := s.c.FindOne(ctx, f.query(), opts).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.Timestamp, nil
}

// DailyActiveUsers counts distinct users who logged in, per UTC day, from
// since onward (all time when since is nil), oldest day first.
func (s *Store) DailyActiveUsers(ctx context.Context, since *time.Time) ([]dto.DailyCount, error) {
	match := bson.M{"action": ActionLogin}
	if since != nil {
		match["timestamp"] = bson.M{"$gte": *since}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"day":  bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$timestamp"}},
				"user": "$user_id",
			},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$_id.day", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []dto.DailyCount{}
	for cur.Next(ctx) {
		var row struct {
			Day   string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, dto.DailyCount{Date: row.Day, Count: row.Count})
	}
	return out, cur.Err()
}

// ToDTO converts a stored entry for the API.
func ToDTO(e models.ActivityLog) dto.ActivityLog {
	return dto.ActivityLog{
		ID:        e.ID.Hex(),
		UserID:    e.UserID,
		Action:    e.Action,
		Service:   e.Service,
		Timestamp: e.Timestamp,
		Details:   e.Details,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		Status:    e.Status,
	}
}
