package views

import (
	"context"
	"sort"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// Dashboard is the overview page.
type Dashboard struct {
	state
	api API

	TimeFilter dto.TimeFilter
	Summary    *dto.DashboardSummary
}

// NewDashboard starts on the monthly window.
func NewDashboard(api API) *Dashboard {
	return &Dashboard{api: api, TimeFilter: dto.TimeMonthly}
}

// Load fetches the summary for the current time filter. A failed fetch
// keeps the previous summary.
func (d *Dashboard) Load(ctx context.Context) {
	d.begin()
	s, err := d.api.DashboardSummary(ctx, d.TimeFilter)
	if err != nil {
		d.fail(err)
		return
	}
	d.Summary = s
	d.settle(s.TotalFarmers == 0 && s.TotalServiceUsage() == 0)
}

// SetTimeFilter changes the window and reloads.
func (d *Dashboard) SetTimeFilter(ctx context.Context, tf dto.TimeFilter) {
	d.TimeFilter = tf
	d.Load(ctx)
}

// RegionalData is the farmers-per-region pie, ordered by region name.
func (d *Dashboard) RegionalData() []Bar {
	if d.Summary == nil {
		return nil
	}
	return regionBars(d.Summary.RegionalDistribution)
}

// ServiceUsage is the per-service bar chart without the auth service.
func (d *Dashboard) ServiceUsage() []Bar {
	if d.Summary == nil {
		return nil
	}
	s := d.Summary
	return []Bar{
		{"Expense Tracking", s.ExpenseTrackingUsage.TotalEntries},
		{"Forecasting", s.ForecastingUsage.TotalPredictions},
		{"Health Assessment", s.HealthAssessmentUsage.TotalAssessments},
		{"Recommendations", s.RecommendationUsage.TotalRecommendations},
	}
}

// TotalServiceUsage sums the five per-service usage counts.
func (d *Dashboard) TotalServiceUsage() int64 {
	if d.Summary == nil {
		return 0
	}
	return d.Summary.TotalServiceUsage()
}

func regionBars(m map[string]int64) []Bar {
	out := make([]Bar, 0, len(m))
	for k, v := range m {
		out = append(out, Bar{Label: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
