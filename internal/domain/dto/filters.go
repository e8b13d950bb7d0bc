// Package dto holds the JSON shapes exchanged between the admin backend and
// the admin panel client.
package dto

// TimeFilter selects the reporting window.
type TimeFilter string

const (
	TimeDaily   TimeFilter = "daily"
	TimeWeekly  TimeFilter = "weekly"
	TimeMonthly TimeFilter = "monthly"
	TimeYearly  TimeFilter = "yearly"
	TimeAll     TimeFilter = "all"
)

// Valid reports whether f is one of the known filters.
func (f TimeFilter) Valid() bool {
	switch f {
	case TimeDaily, TimeWeekly, TimeMonthly, TimeYearly, TimeAll:
		return true
	}
	return false
}

// ServiceFilter names one farmer-facing service.
type ServiceFilter string

const (
	ServiceAuth             ServiceFilter = "auth"
	ServiceExpenseTracking  ServiceFilter = "expense_tracking"
	ServiceForecasting      ServiceFilter = "forecasting"
	ServiceHealthAssessment ServiceFilter = "health_assessment"
	ServiceLoanAdvice       ServiceFilter = "loan_advice"
	ServiceCostCutting      ServiceFilter = "cost_cutting"
	ServiceAll              ServiceFilter = "all"
)

// TrendServices lists the services that have a usage trend, in display order.
var TrendServices = []ServiceFilter{
	ServiceAuth,
	ServiceExpenseTracking,
	ServiceForecasting,
	ServiceHealthAssessment,
	ServiceLoanAdvice,
	ServiceCostCutting,
}

func (s ServiceFilter) Valid() bool {
	if s == ServiceAll {
		return true
	}
	for _, v := range TrendServices {
		if v == s {
			return true
		}
	}
	return false
}

// FarmerFilters are the server-side query parameters of GET /admin/farmers.
// Nil pointers mean "not filtered".
type FarmerFilters struct {
	TimeFilter         TimeFilter
	ServiceFilter      ServiceFilter
	Region             string
	IsActive           *bool
	MinEngagementScore *float64
	MaxEngagementScore *float64
	NeedsAttention     *bool
	Page               int
	PageSize           int
	SortBy             string
	SortOrder          string // asc | desc
}

// ActivityLogFilters are the query parameters of GET /admin/activity-logs.
// Dates are RFC 3339 or YYYY-MM-DD strings, passed through verbatim.
type ActivityLogFilters struct {
	UserID    string
	Action    string
	Service   string
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}
