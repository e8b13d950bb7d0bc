package dto

import "time"

// AuthUsage summarizes login activity.
type AuthUsage struct {
	TotalLogins      int64   `json:"total_logins"`
	AvgLoginsPerUser float64 `json:"avg_logins_per_user"`
}

// ExpenseTrackingUsage summarizes expense entries.
type ExpenseTrackingUsage struct {
	TotalEntries      int64   `json:"total_entries"`
	AvgEntriesPerUser float64 `json:"avg_entries_per_user"`
}

// ForecastingUsage summarizes price predictions.
type ForecastingUsage struct {
	TotalPredictions      int64   `json:"total_predictions"`
	AvgPredictionsPerUser float64 `json:"avg_predictions_per_user"`
}

// HealthAssessmentUsage summarizes saved health assessments.
type HealthAssessmentUsage struct {
	TotalAssessments      int64   `json:"total_assessments"`
	AvgAssessmentsPerUser float64 `json:"avg_assessments_per_user"`
}

// RecommendationUsage summarizes loan advice plus cost-cutting requests.
type RecommendationUsage struct {
	TotalRecommendations      int64   `json:"total_recommendations"`
	AvgRecommendationsPerUser float64 `json:"avg_recommendations_per_user"`
}

// DailyCount is one point of a per-day series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DashboardSummary is the system-wide overview for one time filter.
type DashboardSummary struct {
	TotalFarmers            int64 `json:"total_farmers"`
	ActiveFarmers           int64 `json:"active_farmers"`
	InactiveFarmers         int64 `json:"inactive_farmers"`
	FarmersNeedingAttention int64 `json:"farmers_needing_attention"`

	AuthUsage             AuthUsage             `json:"auth_usage"`
	ExpenseTrackingUsage  ExpenseTrackingUsage  `json:"expense_tracking_usage"`
	ForecastingUsage      ForecastingUsage      `json:"forecasting_usage"`
	HealthAssessmentUsage HealthAssessmentUsage `json:"health_assessment_usage"`
	RecommendationUsage   RecommendationUsage   `json:"recommendation_usage"`

	TotalSystemRevenue  float64 `json:"total_system_revenue"`
	TotalSystemExpenses float64 `json:"total_system_expenses"`
	TotalSystemProfit   float64 `json:"total_system_profit"`

	DailyActiveUsers     []DailyCount            `json:"daily_active_users"`
	ServiceTrends        map[string][]TrendPoint `json:"service_trends"`
	RegionalDistribution map[string]int64        `json:"regional_distribution"`

	TimeFilter  TimeFilter `json:"time_filter"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// TotalServiceUsage is the sum of the five per-service usage counts.
func (s DashboardSummary) TotalServiceUsage() int64 {
	return s.AuthUsage.TotalLogins +
		s.ExpenseTrackingUsage.TotalEntries +
		s.ForecastingUsage.TotalPredictions +
		s.HealthAssessmentUsage.TotalAssessments +
		s.RecommendationUsage.TotalRecommendations
}

// TrendPoint is one bucket of a service usage trend.
type TrendPoint struct {
	Date       string `json:"date"`
	UsageCount int64  `json:"usage_count"`
}

// ServiceTrends is the body of GET /admin/trends/{service}.
type ServiceTrends struct {
	Service    ServiceFilter `json:"service"`
	TimeFilter TimeFilter    `json:"time_filter"`
	Trends     []TrendPoint  `json:"trends"`
}
