package views

import (
	"context"
	"sort"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"golang.org/x/sync/errgroup"
)

// AnalyticsServices are the services charted on the analytics page.
var AnalyticsServices = []dto.ServiceFilter{
	dto.ServiceExpenseTracking,
	dto.ServiceForecasting,
	dto.ServiceHealthAssessment,
	dto.ServiceLoanAdvice,
	dto.ServiceCostCutting,
}

// Analytics combines the summary with per-service usage trends.
type Analytics struct {
	state
	api API

	TimeFilter dto.TimeFilter
	Summary    *dto.DashboardSummary
	Trends     []dto.ServiceTrends
	// Dropped lists services whose trend could not be fetched.
	Dropped []dto.ServiceFilter
}

func NewAnalytics(api API) *Analytics {
	return &Analytics{api: api, TimeFilter: dto.TimeMonthly}
}

// Load fetches the summary, then every service trend concurrently. Only a
// failed summary fails the page.
func (a *Analytics) Load(ctx context.Context) {
	a.begin()
	s, err := a.api.DashboardSummary(ctx, a.TimeFilter)
	if err != nil {
		a.fail(err)
		return
	}
	a.Summary = s

	results := make([]*dto.ServiceTrends, len(AnalyticsServices))
	var g errgroup.Group
	g.SetLimit(4)
	for i, svc := range AnalyticsServices {
		g.Go(func() error {
			t, err := a.api.ServiceTrends(ctx, svc, a.TimeFilter)
			if err == nil {
				results[i] = t
			}
			return nil
		})
	}
	_ = g.Wait()

	a.Trends, a.Dropped = a.Trends[:0], a.Dropped[:0]
	for i, t := range results {
		if t == nil {
			a.Dropped = append(a.Dropped, AnalyticsServices[i])
			continue
		}
		a.Trends = append(a.Trends, *t)
	}
	a.settle(s.TotalFarmers == 0)
}

func (a *Analytics) SetTimeFilter(ctx context.Context, tf dto.TimeFilter) {
	a.TimeFilter = tf
	a.Load(ctx)
}

// TotalAPICalls sums the five per-service usage counts.
func (a *Analytics) TotalAPICalls() int64 {
	if a.Summary == nil {
		return 0
	}
	return a.Summary.TotalServiceUsage()
}

// ActivePercent is active farmers as a share of all farmers.
func (a *Analytics) ActivePercent() float64 {
	if a.Summary == nil {
		return 0
	}
	return percent(float64(a.Summary.ActiveFarmers), float64(a.Summary.TotalFarmers))
}

// ProfitMargin is system profit over system revenue, in percent.
func (a *Analytics) ProfitMargin() float64 {
	if a.Summary == nil {
		return 0
	}
	return percent(a.Summary.TotalSystemProfit, a.Summary.TotalSystemRevenue)
}

// AttentionPercent is the share of farmers flagged for follow-up.
func (a *Analytics) AttentionPercent() float64 {
	if a.Summary == nil {
		return 0
	}
	return percent(float64(a.Summary.FarmersNeedingAttention), float64(a.Summary.TotalFarmers))
}

// ServiceUsage is the usage bar chart including auth.
func (a *Analytics) ServiceUsage() []Bar {
	if a.Summary == nil {
		return nil
	}
	s := a.Summary
	return []Bar{
		{"Auth", s.AuthUsage.TotalLogins},
		{"Expense Tracking", s.ExpenseTrackingUsage.TotalEntries},
		{"Forecasting", s.ForecastingUsage.TotalPredictions},
		{"Health Assessment", s.HealthAssessmentUsage.TotalAssessments},
		{"Recommendations", s.RecommendationUsage.TotalRecommendations},
	}
}

// RegionRow is one line of the regional performance table.
type RegionRow struct {
	Region  string
	Farmers int64
	Share   float64
}

// RegionalTable lists regions by farmer count, largest first.
func (a *Analytics) RegionalTable() []RegionRow {
	if a.Summary == nil {
		return nil
	}
	out := make([]RegionRow, 0, len(a.Summary.RegionalDistribution))
	for region, n := range a.Summary.RegionalDistribution {
		out = append(out, RegionRow{
			Region:  region,
			Farmers: n,
			Share:   percent(float64(n), float64(a.Summary.TotalFarmers)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Farmers != out[j].Farmers {
			return out[i].Farmers > out[j].Farmers
		}
		return out[i].Region < out[j].Region
	})
	return out
}
