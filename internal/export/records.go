package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func fixed(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

func count(n int64) string { return strconv.FormatInt(n, 10) }

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func tsPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return ts(*t)
}

func optNum(f *float64) string {
	if f == nil {
		return ""
	}
	return fixed(*f)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// FarmersTable is the farmers list as exported from the list page.
func FarmersTable(rows []dto.FarmerData) Table {
	t := Table{Header: []string{
		"user_id", "name", "phone_number", "location", "is_active",
		"total_logins", "last_login", "engagement_score", "risk_level", "needs_attention",
		"total_revenue", "total_expenses", "total_profit",
	}}
	for _, f := range rows {
		a := f.Activity
		var rev, exp, profit string
		if f.Expenses != nil {
			rev, exp, profit = fixed(f.Expenses.TotalRevenue), fixed(f.Expenses.TotalExpenses), fixed(f.Expenses.TotalProfit)
		}
		t.Rows = append(t.Rows, []string{
			a.UserID, a.Name, a.PhoneNumber, a.Location, strconv.FormatBool(a.IsActive),
			count(a.TotalLogins), tsPtr(a.LastLogin), num(f.EngagementScore), f.RiskLevel, strconv.FormatBool(f.NeedsAttention),
			rev, exp, profit,
		})
	}
	return t
}

// AdminsTable lists admin accounts.
func AdminsTable(admins []dto.AdminUser) Table {
	t := Table{Header: []string{
		"id", "name", "phone_number", "is_active", "is_super_admin", "permissions", "created_at", "last_login",
	}}
	for _, a := range admins {
		t.Rows = append(t.Rows, []string{
			a.ID, a.Name, a.PhoneNumber, strconv.FormatBool(a.IsActive), strconv.FormatBool(a.IsSuperAdmin),
			strings.Join(a.Permissions, ";"), ts(a.CreatedAt), tsPtr(a.LastLogin),
		})
	}
	return t
}

// ActivityLogsTable lists audit entries.
func ActivityLogsTable(logs []dto.ActivityLog) Table {
	t := Table{Header: []string{"id", "timestamp", "user_id", "action", "service", "status", "ip_address", "user_agent"}}
	for _, l := range logs {
		t.Rows = append(t.Rows, []string{
			l.ID, ts(l.Timestamp), l.UserID, l.Action, l.Service, l.Status, l.IPAddress, l.UserAgent,
		})
	}
	return t
}

// DashboardReport is the text export of the overview page.
func DashboardReport(s dto.DashboardSummary, now time.Time) Report {
	regions := Section{Title: "Regional Distribution"}
	for _, r := range sortedRegions(s.RegionalDistribution) {
		regions.Lines = append(regions.Lines, Line{r, count(s.RegionalDistribution[r])})
	}

	return Report{
		Title:     "AgriBizBoost Dashboard Report",
		Generated: now,
		Sections: []Section{
			{Title: "Overview", Lines: []Line{
				{"Time filter", string(s.TimeFilter)},
				{"Total farmers", count(s.TotalFarmers)},
				{"Active farmers", count(s.ActiveFarmers)},
				{"Inactive farmers", count(s.InactiveFarmers)},
				{"Needing attention", count(s.FarmersNeedingAttention)},
			}},
			{Title: "Service Usage", Lines: []Line{
				{"Logins", count(s.AuthUsage.TotalLogins)},
				{"Expense entries", count(s.ExpenseTrackingUsage.TotalEntries)},
				{"Predictions", count(s.ForecastingUsage.TotalPredictions)},
				{"Health assessments", count(s.HealthAssessmentUsage.TotalAssessments)},
				{"Recommendations", count(s.RecommendationUsage.TotalRecommendations)},
				{"Total", count(s.TotalServiceUsage())},
			}},
			{Title: "Financials (ETB)", Lines: []Line{
				{"Revenue", fixed(s.TotalSystemRevenue)},
				{"Expenses", fixed(s.TotalSystemExpenses)},
				{"Profit", fixed(s.TotalSystemProfit)},
			}},
			regions,
		},
	}
}

// FarmerReport is the text export of the farmer detail page.
func FarmerReport(f dto.FarmerData, now time.Time) Report {
	a := f.Activity
	title := "Farmer Report"
	if a.Name != "" {
		title = "Farmer Report: " + a.Name
	}
	r := Report{
		Title:     title,
		Generated: now,
		Sections: []Section{
			{Title: "Profile", Lines: []Line{
				{"User ID", a.UserID},
				{"Phone", a.PhoneNumber},
				{"Location", a.Location},
				{"Active", yesNo(a.IsActive)},
				{"Registered", ts(a.CreatedAt)},
				{"Last login", tsPtr(a.LastLogin)},
				{"Total logins", count(a.TotalLogins)},
			}},
			{Title: "Assessment", Lines: []Line{
				{"Engagement score", fixed(f.EngagementScore)},
				{"Risk level", f.RiskLevel},
				{"Needs attention", yesNo(f.NeedsAttention)},
			}},
		},
	}

	if e := f.Expenses; e != nil {
		goods := make([]string, 0, len(e.MostTradedGoods))
		for _, g := range e.MostTradedGoods {
			goods = append(goods, fmt.Sprintf("%s (%d)", g.Name, g.Count))
		}
		r.Sections = append(r.Sections, Section{Title: "Expenses", Lines: []Line{
			{"Revenue", fixed(e.TotalRevenue)},
			{"Expenses", fixed(e.TotalExpenses)},
			{"Profit", fixed(e.TotalProfit)},
			{"Entries", count(e.ExpenseCount)},
			{"Assessments", count(e.AssessmentCount)},
			{"Financial stability avg", optNum(e.FinancialStabilityAvg)},
			{"Cash flow avg", optNum(e.CashFlowAvg)},
			{"Most traded goods", strings.Join(goods, ", ")},
			{"Last activity", tsPtr(e.LastActivity)},
		}})
	}
	if fc := f.Forecasting; fc != nil {
		r.Sections = append(r.Sections, Section{Title: "Forecasting", Lines: []Line{
			{"Predictions", count(fc.TotalPredictions)},
			{"Regions", strings.Join(fc.RegionsQueried, ", ")},
			{"Crops", strings.Join(fc.CropsQueried, ", ")},
			{"Last prediction", tsPtr(fc.LastPrediction)},
		}})
	}
	if h := f.Health; h != nil {
		r.Sections = append(r.Sections, Section{Title: "Health Assessments", Lines: []Line{
			{"Assessments", count(h.TotalAssessments)},
			{"Crop types", strings.Join(h.CropTypesAssessed, ", ")},
			{"Average profit margin", optNum(h.AverageProfitMargin)},
			{"Total subsidies", fixed(h.TotalSubsidies)},
			{"Last assessment", tsPtr(h.LastAssessment)},
		}})
	}
	if rc := f.Recommendations; rc != nil {
		r.Sections = append(r.Sections, Section{Title: "Recommendations", Lines: []Line{
			{"Loan advice", count(rc.LoanAdviceCount)},
			{"Cost cutting", count(rc.CostCuttingCount)},
			{"Topics", strings.Join(rc.RecommendationTopics, ", ")},
			{"Last recommendation", tsPtr(rc.LastRecommendation)},
		}})
	}
	return r
}

func sortedRegions(m map[string]int64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
