// Package metricsstore reads the farmer-facing service collections and
// turns them into per-farmer and system-wide usage metrics.
package metricsstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections read by this package.
const (
	CollExpenses          = "expenses"
	CollAssessments       = "assessments"
	CollPredictions       = "predictions"
	CollHealthAssessments = "health_assessments"
	CollLoanAdvice        = "loan_advice"
	CollCostCutting       = "cost_cutting_strategies"
	CollActivityLogs      = "activity_logs"
)

// Recommendation topics.
const (
	TopicLoanAdvice  = "loan_advice"
	TopicCostCutting = "cost_cutting_strategies"
)

const topN = 5

// ErrUnknownService is returned by Trend for services without a source.
var ErrUnknownService = errors.New("unknown service")

// source says where a service's usage lives and which field dates it.
type source struct {
	coll    string
	tsField string
	extra   bson.M
}

var sources = map[dto.ServiceFilter]source{
	dto.ServiceAuth:             {coll: CollActivityLogs, tsField: "timestamp", extra: bson.M{"action": activity.ActionLogin}},
	dto.ServiceExpenseTracking:  {coll: CollExpenses, tsField: "date"},
	dto.ServiceForecasting:      {coll: CollPredictions, tsField: "timestamp"},
	dto.ServiceHealthAssessment: {coll: CollHealthAssessments, tsField: "timestamp"},
	dto.ServiceLoanAdvice:       {coll: CollLoanAdvice, tsField: "timestamp"},
	dto.ServiceCostCutting:      {coll: CollCostCutting, tsField: "timestamp"},
}

// Store reads service collections from one database.
type Store struct {
	db *mongo.Database
}

// New creates a metrics Store.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// IndexModels lists, per collection, the user/time indexes the per-farmer
// queries hit. activity_logs and health_assessments are indexed by their
// own stores.
func IndexModels() map[string][]mongo.IndexModel {
	out := map[string][]mongo.IndexModel{}
	for svc, src := range sources {
		if svc == dto.ServiceAuth || svc == dto.ServiceHealthAssessment {
			continue
		}
		out[src.coll] = []mongo.IndexModel{{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: src.tsField, Value: -1}},
			Options: options.Index().SetName("idx_" + src.coll + "_user_ts"),
		}}
	}
	out[CollAssessments] = []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("idx_assessments_user_ts"),
	}}
	return out
}

// EnsureIndexes creates IndexModels.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for coll, set := range IndexModels() {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, set); err != nil {
			return fmt.Errorf("%s: %w", coll, err)
		}
	}
	return nil
}

func window(q bson.M, field string, since *time.Time) bson.M {
	if since != nil {
		q[field] = bson.M{"$gte": *since}
	}
	return q
}

func lastOf(ctx context.Context, c *mongo.Collection, filter bson.M, field string) (*time.Time, error) {
	var row bson.M
	opts := options.FindOne().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetProjection(bson.M{field: 1})
	err := c.FindOne(ctx, filter, opts).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if dt, ok := row[field].(interface{ Time() time.Time }); ok {
		t := dt.Time().UTC()
		return &t, nil
	}
	return nil, nil
}

func topCounts(counts map[string]int64) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}
	return keys
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Logins counts login entries for userID within the window and returns
// the all-time last login.
func (s *Store) Logins(ctx context.Context, userID string, since *time.Time) (int64, *time.Time, error) {
	c := s.db.Collection(CollActivityLogs)
	base := bson.M{"user_id": userID, "action": activity.ActionLogin}
	n, err := c.CountDocuments(ctx, window(bson.M{"user_id": userID, "action": activity.ActionLogin}, "timestamp", since))
	if err != nil {
		return 0, nil, err
	}
	last, err := lastOf(ctx, c, base, "timestamp")
	if err != nil {
		return 0, nil, err
	}
	return n, last, nil
}

// Expenses aggregates expense entries and financial assessments.
// Revenue is expenses plus assessed profit.
func (s *Store) Expenses(ctx context.Context, userID string, since *time.Time) (*dto.ExpenseMetrics, error) {
	out := &dto.ExpenseMetrics{UserID: userID, MostTradedGoods: []dto.NamedCount{}}

	cur, err := s.db.Collection(CollExpenses).Find(ctx, window(bson.M{"user_id": userID}, "date", since))
	if err != nil {
		return nil, err
	}
	var expenses []models.Expense
	if err := cur.All(ctx, &expenses); err != nil {
		return nil, err
	}

	goods := map[string]int64{}
	for _, e := range expenses {
		out.TotalExpenses += e.PriceETB
		out.ExpenseCount++
		goods[e.Goods]++
		if out.LastActivity == nil || e.Date.After(*out.LastActivity) {
			d := e.Date.UTC()
			out.LastActivity = &d
		}
	}
	for _, name := range topCounts(goods) {
		out.MostTradedGoods = append(out.MostTradedGoods, dto.NamedCount{Name: name, Count: goods[name]})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: window(bson.M{"user_id": userID}, "date", since)}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total_profit": bson.M{"$sum": "$profit"},
			"count":        bson.M{"$sum": 1},
			"stability":    bson.M{"$avg": bson.M{"$toDouble": "$financial_stability"}},
			"cash_flow":    bson.M{"$avg": bson.M{"$toDouble": "$cash_flow"}},
		}}},
	}
	acur, err := s.db.Collection(CollAssessments).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer acur.Close(ctx)
	if acur.Next(ctx) {
		var row struct {
			TotalProfit float64  `bson:"total_profit"`
			Count       int64    `bson:"count"`
			Stability   *float64 `bson:"stability"`
			CashFlow    *float64 `bson:"cash_flow"`
		}
		if err := acur.Decode(&row); err != nil {
			return nil, err
		}
		out.TotalProfit = row.TotalProfit
		out.AssessmentCount = row.Count
		out.FinancialStabilityAvg = row.Stability
		out.CashFlowAvg = row.CashFlow
	}
	if err := acur.Err(); err != nil {
		return nil, err
	}

	out.TotalRevenue = out.TotalExpenses + out.TotalProfit
	return out, nil
}

// Forecasting aggregates price predictions. Query keys are
// "<first region>_<first crop>".
func (s *Store) Forecasting(ctx context.Context, userID string, since *time.Time) (*dto.ForecastingMetrics, error) {
	cur, err := s.db.Collection(CollPredictions).Find(ctx, window(bson.M{"user_id": userID}, "timestamp", since))
	if err != nil {
		return nil, err
	}
	var preds []models.Prediction
	if err := cur.All(ctx, &preds); err != nil {
		return nil, err
	}

	out := &dto.ForecastingMetrics{UserID: userID, MostFrequentQueries: []dto.QueryCount{}}
	regions := map[string]struct{}{}
	crops := map[string]struct{}{}
	queries := map[string]int64{}

	for _, p := range preds {
		for _, r := range p.Region {
			regions[r] = struct{}{}
		}
		for _, c := range p.CropName {
			crops[c] = struct{}{}
		}
		region, crop := "Unknown", "Unknown"
		if len(p.Region) > 0 {
			region = p.Region[0]
		}
		if len(p.CropName) > 0 {
			crop = p.CropName[0]
		}
		queries[region+"_"+crop]++
		if !p.Timestamp.IsZero() && (out.LastPrediction == nil || p.Timestamp.After(*out.LastPrediction)) {
			ts := p.Timestamp.UTC()
			out.LastPrediction = &ts
		}
	}

	out.TotalPredictions = int64(len(preds))
	out.RegionsQueried = sortedSet(regions)
	out.CropsQueried = sortedSet(crops)
	for _, q := range topCounts(queries) {
		out.MostFrequentQueries = append(out.MostFrequentQueries, dto.QueryCount{Query: q, Count: queries[q]})
	}
	return out, nil
}

// Health aggregates saved health assessments. The profit margin is nil
// when there is no revenue.
func (s *Store) Health(ctx context.Context, userID string, since *time.Time) (*dto.HealthMetrics, error) {
	cur, err := s.db.Collection(CollHealthAssessments).Find(ctx, window(bson.M{"user_id": userID}, "timestamp", since))
	if err != nil {
		return nil, err
	}
	var records []models.HealthAssessment
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}

	out := &dto.HealthMetrics{UserID: userID}
	crops := map[string]struct{}{}
	var profit, revenue float64

	for _, r := range records {
		if r.CropType != "" {
			crops[r.CropType] = struct{}{}
		}
		sale := r.SalePricePerQuintal * r.QuantitySold
		revenue += sale
		profit += sale - r.TotalCost
		out.TotalSubsidies += r.GovernmentSubsidy
		if !r.Timestamp.IsZero() && (out.LastAssessment == nil || r.Timestamp.After(*out.LastAssessment)) {
			ts := r.Timestamp.UTC()
			out.LastAssessment = &ts
		}
	}

	out.TotalAssessments = int64(len(records))
	out.CropTypesAssessed = sortedSet(crops)
	if revenue > 0 {
		m := profit / revenue * 100
		out.AverageProfitMargin = &m
	}
	return out, nil
}

// Recommendations counts loan advice and cost-cutting requests within
// the window. The last recommendation is all-time.
func (s *Store) Recommendations(ctx context.Context, userID string, since *time.Time) (*dto.RecommendationMetrics, error) {
	loans := s.db.Collection(CollLoanAdvice)
	costs := s.db.Collection(CollCostCutting)

	loanN, err := loans.CountDocuments(ctx, window(bson.M{"user_id": userID}, "timestamp", since))
	if err != nil {
		return nil, err
	}
	costN, err := costs.CountDocuments(ctx, window(bson.M{"user_id": userID}, "timestamp", since))
	if err != nil {
		return nil, err
	}
	lastLoan, err := lastOf(ctx, loans, bson.M{"user_id": userID}, "timestamp")
	if err != nil {
		return nil, err
	}
	lastCost, err := lastOf(ctx, costs, bson.M{"user_id": userID}, "timestamp")
	if err != nil {
		return nil, err
	}

	out := &dto.RecommendationMetrics{
		UserID:               userID,
		LoanAdviceCount:      loanN,
		CostCuttingCount:     costN,
		RecommendationTopics: []string{},
		LastRecommendation:   lastLoan,
	}
	if lastCost != nil && (lastLoan == nil || lastCost.After(*lastLoan)) {
		out.LastRecommendation = lastCost
	}
	if loanN > 0 {
		out.RecommendationTopics = append(out.RecommendationTopics, TopicLoanAdvice)
	}
	if costN > 0 {
		out.RecommendationTopics = append(out.RecommendationTopics, TopicCostCutting)
	}
	return out, nil
}

// Trend buckets usage of one service by day or month (per format) from
// since onward, oldest bucket first.
func (s *Store) Trend(ctx context.Context, svc dto.ServiceFilter, format string, since *time.Time) ([]dto.TrendPoint, error) {
	src, ok := sources[svc]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, svc)
	}

	match := bson.M{src.tsField: bson.M{"$type": "date"}}
	for k, v := range src.extra {
		match[k] = v
	}
	if since != nil {
		match[src.tsField] = bson.M{"$type": "date", "$gte": *since}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": format, "date": "$" + src.tsField}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.db.Collection(src.coll).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []dto.TrendPoint{}
	for cur.Next(ctx) {
		var row struct {
			Bucket string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, dto.TrendPoint{Date: row.Bucket, UsageCount: row.Count})
	}
	return out, cur.Err()
}
