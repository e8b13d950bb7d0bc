// internal/domain/models/servicerecords.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The records below are written by the farmer-facing services. The admin
// backend only reads them for metrics.

// Expense is an expense-tracking entry.
type Expense struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   string             `bson:"user_id"`
	Goods    string             `bson:"goods"`
	PriceETB float64            `bson:"price_etb"`
	Date     time.Time          `bson:"date"`
}

// Assessment is a financial assessment derived from tracked expenses.
type Assessment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	UserID             string             `bson:"user_id"`
	Profit             float64            `bson:"profit"`
	FinancialStability float64            `bson:"financial_stability"`
	CashFlow           float64            `bson:"cash_flow"`
	Date               time.Time          `bson:"date"`
}

// Prediction is a price-forecasting request.
type Prediction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Region    []string           `bson:"region"`
	CropName  []string           `bson:"cropname"`
	Timestamp time.Time          `bson:"timestamp"`
}

// Recommendation is a loan-advice or cost-cutting request. Both
// collections share this shape.
type Recommendation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Timestamp time.Time          `bson:"timestamp"`
}
