package dto

import "time"

// Risk levels.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

// FarmerActivity is the account portion of a farmer record.
type FarmerActivity struct {
	UserID      string     `json:"user_id"`
	PhoneNumber string     `json:"phone_number"`
	Name        string     `json:"name,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	TotalLogins int64      `json:"total_logins"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	Location    string     `json:"location,omitempty"`
}

// NamedCount pairs a label with an occurrence count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// QueryCount pairs a forecasting query key with its count.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// ExpenseMetrics aggregates expense tracking and assessments.
type ExpenseMetrics struct {
	UserID                string       `json:"user_id"`
	TotalExpenses         float64      `json:"total_expenses"`
	TotalRevenue          float64      `json:"total_revenue"`
	TotalProfit           float64      `json:"total_profit"`
	ExpenseCount          int64        `json:"expense_count"`
	AssessmentCount       int64        `json:"assessment_count"`
	MostTradedGoods       []NamedCount `json:"most_traded_goods"`
	FinancialStabilityAvg *float64     `json:"financial_stability_avg"`
	CashFlowAvg           *float64     `json:"cash_flow_avg"`
	LastActivity          *time.Time   `json:"last_activity"`
}

// ForecastingMetrics aggregates price predictions.
type ForecastingMetrics struct {
	UserID              string       `json:"user_id"`
	TotalPredictions    int64        `json:"total_predictions"`
	RegionsQueried      []string     `json:"regions_queried"`
	CropsQueried        []string     `json:"crops_queried"`
	LastPrediction      *time.Time   `json:"last_prediction"`
	MostFrequentQueries []QueryCount `json:"most_frequent_queries"`
}

// HealthMetrics aggregates saved health assessments.
type HealthMetrics struct {
	UserID              string     `json:"user_id"`
	TotalAssessments    int64      `json:"total_assessments"`
	CropTypesAssessed   []string   `json:"crop_types_assessed"`
	AverageProfitMargin *float64   `json:"average_profit_margin"`
	TotalSubsidies      float64    `json:"total_subsidies"`
	LastAssessment      *time.Time `json:"last_assessment"`
}

// RecommendationMetrics aggregates loan advice and cost-cutting requests.
type RecommendationMetrics struct {
	UserID               string     `json:"user_id"`
	LoanAdviceCount      int64      `json:"loan_advice_count"`
	CostCuttingCount     int64      `json:"cost_cutting_count"`
	LastRecommendation   *time.Time `json:"last_recommendation"`
	RecommendationTopics []string   `json:"recommendation_topics"`
}

// FarmerData is one farmer with metrics from every service plus the
// server-derived engagement score, risk level and attention flag.
type FarmerData struct {
	Activity        FarmerActivity         `json:"activity"`
	Expenses        *ExpenseMetrics        `json:"expenses,omitempty"`
	Forecasting     *ForecastingMetrics    `json:"forecasting,omitempty"`
	Health          *HealthMetrics         `json:"health,omitempty"`
	Recommendations *RecommendationMetrics `json:"recommendations,omitempty"`
	EngagementScore float64                `json:"engagement_score"`
	RiskLevel       string                 `json:"risk_level"`
	NeedsAttention  bool                   `json:"needs_attention"`
}

// FarmersPage is the body of GET /admin/farmers.
type FarmersPage struct {
	Farmers    []FarmerData `json:"farmers"`
	TotalCount int64        `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// FarmerSearchResult is one quick-lookup hit.
type FarmerSearchResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// FarmerSearchResults is the body of GET /admin/farmers/search.
type FarmerSearchResults struct {
	Results []FarmerSearchResult `json:"results"`
	Count   int                  `json:"count"`
}
