package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateFarmer inserts an active farmer with the given name, phone and
// location.
func (f *Fixtures) CreateFarmer(ctx context.Context, name, phone, location string) models.User {
	f.t.Helper()

	u := models.User{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		PhoneNumber: phone,
		Location:    location,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateUserWithPassword inserts an active user whose password is hashed
// with bcrypt at the minimum cost.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, name, phone, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("bcrypt: %v", err)
	}
	u := models.User{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		PhoneNumber:    phone,
		HashedPassword: string(hash),
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin inserts an active admin. super grants every permission.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, phone string, super bool, perms ...string) models.User {
	f.t.Helper()

	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		PhoneNumber:  phone,
		IsActive:     true,
		IsAdmin:      true,
		IsSuperAdmin: super,
		Permissions:  perms,
		CreatedAt:    time.Now().UTC(),
	}
	f.insert(ctx, "users", u)
	return u
}

// AddLogin records a login activity entry for userID.
func (f *Fixtures) AddLogin(ctx context.Context, userID string, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "activity_logs", models.ActivityLog{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Action:    "login",
		Service:   "auth",
		Timestamp: at,
		Status:    "success",
	})
}

// AddExpense records an expense entry.
func (f *Fixtures) AddExpense(ctx context.Context, userID, goods string, price float64, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "expenses", models.Expense{
		ID: primitive.NewObjectID(), UserID: userID, Goods: goods, PriceETB: price, Date: at,
	})
}

// AddAssessment records a financial assessment.
func (f *Fixtures) AddAssessment(ctx context.Context, userID string, profit, stability, cashFlow float64, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "assessments", models.Assessment{
		ID: primitive.NewObjectID(), UserID: userID, Profit: profit,
		FinancialStability: stability, CashFlow: cashFlow, Date: at,
	})
}

// AddPrediction records a price-forecasting request.
func (f *Fixtures) AddPrediction(ctx context.Context, userID, region, crop string, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "predictions", models.Prediction{
		ID: primitive.NewObjectID(), UserID: userID,
		Region: []string{region}, CropName: []string{crop}, Timestamp: at,
	})
}

// AddHealthAssessment records a saved health assessment.
func (f *Fixtures) AddHealthAssessment(ctx context.Context, userID, crop string, subsidy, price, cost, qty float64, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "health_assessments", models.HealthAssessment{
		ID: primitive.NewObjectID(), UserID: userID, CropType: crop,
		GovernmentSubsidy: subsidy, SalePricePerQuintal: price, TotalCost: cost,
		QuantitySold: qty, Timestamp: at,
	})
}

// AddLoanAdvice records a loan-advice request.
func (f *Fixtures) AddLoanAdvice(ctx context.Context, userID string, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "loan_advice", models.Recommendation{ID: primitive.NewObjectID(), UserID: userID, Timestamp: at})
}

// AddCostCutting records a cost-cutting strategy request.
func (f *Fixtures) AddCostCutting(ctx context.Context, userID string, at time.Time) {
	f.t.Helper()
	f.insert(ctx, "cost_cutting_strategies", models.Recommendation{ID: primitive.NewObjectID(), UserID: userID, Timestamp: at})
}
