package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicatePhone is returned when the phone number is already registered.
	ErrDuplicatePhone = errors.New("phone number already registered")
)

// SortableFields are the user fields a list can be ordered by in the
// database. Other sort keys are derived and ordered by the caller.
var SortableFields = map[string]bool{
	"created_at":   true,
	"last_login":   true,
	"name":         true,
	"phone_number": true,
	"location":     true,
	"is_active":    true,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// IndexModels lists the unique phone index and the list indexes.
func IndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().SetName("uniq_users_phone").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "is_admin", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_users_admin"),
		},
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "location", Value: 1}},
			Options: options.Index().SetName("idx_users_active_location"),
		},
	}
}

// EnsureIndexes creates IndexModels on the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, IndexModels())
	return err
}

func one(res *mongo.SingleResult) (*models.User, error) {
	var u models.User
	if err := res.Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return one(s.c.FindOne(ctx, bson.M{"_id": id}))
}

// GetByHex loads a user by hex id. A malformed id is reported as not found.
func (s *Store) GetByHex(ctx context.Context, hex string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// GetByPhone finds a user by phone number in either local or
// international form.
func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return one(s.c.FindOne(ctx, bson.M{"phone_number": bson.M{"$in": normalize.PhoneVariants(phone)}}))
}

// Create inserts a new user after normalizing the name and phone number.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	phone, err := normalize.Phone(u.PhoneNumber)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.GetByPhone(ctx, phone); err == nil {
		return models.User{}, ErrDuplicatePhone
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	u.ID = primitive.NewObjectID()
	u.PhoneNumber = phone
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicatePhone
		}
		return models.User{}, err
	}
	return u, nil
}

// TouchLastLogin records a successful login time.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// FarmerQuery filters the farmers list in the database.
type FarmerQuery struct {
	Region   string // case-insensitive substring of location
	IsActive *bool
}

func (q FarmerQuery) filter() bson.M {
	f := bson.M{}
	if q.IsActive != nil {
		f["is_active"] = *q.IsActive
	}
	if q.Region != "" {
		f["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Region), Options: "i"}
	}
	return f
}

// Count returns how many users match q.
func (s *Store) Count(ctx context.Context, q FarmerQuery) (int64, error) {
	return s.c.CountDocuments(ctx, q.filter())
}

// List returns users matching q. sortBy must be one of SortableFields or
// empty (created_at). limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, q FarmerQuery, sortBy string, desc bool, skip, limit int64) ([]models.User, error) {
	if !SortableFields[sortBy] {
		sortBy = "created_at"
	}
	dir := 1
	if desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.c.Find(ctx, q.filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches name or phone number, case-insensitively.
func (s *Store) Search(ctx context.Context, term string, limit int64) ([]models.User, error) {
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": rx},
		bson.M{"phone_number": rx},
	}}
	cur, err := s.c.Find(ctx, filter, options.Find().SetLimit(limit).SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegionalDistribution counts users per location. Users without a
// location are counted under "Unknown".
func (s *Store) RegionalDistribution(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$location", "Unknown"}},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Location string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.Location == "" {
			row.Location = "Unknown"
		}
		out[row.Location] += row.Count
	}
	return out, cur.Err()
}

// ListAdmins returns every admin, newest first.
func (s *Store) ListAdmins(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_admin": true}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GrantAdmin promotes an existing user.
func (s *Store) GrantAdmin(ctx context.Context, id primitive.ObjectID, super bool, perms []string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_admin":       true,
		"is_super_admin": super,
		"permissions":    perms,
		"is_active":      true,
		"updated_at":     now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdminUpdate carries optional changes to an admin. Nil fields are left
// unchanged.
type AdminUpdate struct {
	Name         *string
	IsActive     *bool
	IsSuperAdmin *bool
	Permissions  *[]string
}

// UpdateAdmin applies upd to an admin account.
func (s *Store) UpdateAdmin(ctx context.Context, id primitive.ObjectID, upd AdminUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.IsSuperAdmin != nil {
		set["is_super_admin"] = *upd.IsSuperAdmin
	}
	if upd.Permissions != nil {
		set["permissions"] = *upd.Permissions
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "is_admin": true}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAdmin removes admin privileges. The account itself is kept.
func (s *Store) RevokeAdmin(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "is_admin": true}, bson.M{
		"$set": bson.M{
			"is_admin":       false,
			"is_super_admin": false,
			"permissions":    []string{},
			"updated_at":     time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
