// Package engagement derives the farmer engagement score, risk level and
// needs-attention flag from per-service activity counts.
package engagement

import (
	"math"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// Inputs are the per-farmer counts within the selected time window.
type Inputs struct {
	Logins            int64
	ExpenseEntries    int64
	Assessments       int64
	Predictions       int64
	HealthAssessments int64
	LoanAdvice        int64
	CostCutting       int64
}

// MaxScore caps the engagement score.
const MaxScore = 100.0

// InactiveAfter is how long without any activity before a farmer is
// flagged.
const InactiveAfter = 30 * 24 * time.Hour

// LowEngagement is the score under which a farmer is flagged.
const LowEngagement = 20.0

func capped(n int64, weight, limit float64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(limit, float64(n)*weight)
}

// Score weighs activity per service. Each service contributes at most
// 20 points.
func Score(in Inputs) float64 {
	s := capped(in.Logins, 2, 20) +
		capped(in.ExpenseEntries, 0.5, 10) +
		capped(in.Assessments, 2, 10) +
		capped(in.Predictions, 2, 20) +
		capped(in.HealthAssessments, 4, 20) +
		capped(in.LoanAdvice, 5, 10) +
		capped(in.CostCutting, 5, 10)
	return math.Min(s, MaxScore)
}

// Risk classifies financial health. Any loss is high risk. Otherwise the
// mean of financial stability and cash flow decides, when both are
// present and non-zero.
func Risk(totalProfit float64, stabilityAvg, cashFlowAvg *float64) string {
	if totalProfit < 0 {
		return dto.RiskHigh
	}
	if stabilityAvg == nil || cashFlowAvg == nil || *stabilityAvg == 0 || *cashFlowAvg == 0 {
		return dto.RiskUnknown
	}
	avg := (*stabilityAvg + *cashFlowAvg) / 2
	switch {
	case avg < 30:
		return dto.RiskHigh
	case avg < 60:
		return dto.RiskMedium
	default:
		return dto.RiskLow
	}
}

// MostRecent returns the latest non-nil timestamp.
func MostRecent(ts ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range ts {
		if t != nil && (out == nil || t.After(*out)) {
			out = t
		}
	}
	return out
}

// NeedsAttention flags farmers who have gone quiet, are at high risk, or
// barely use the platform. A farmer with no recorded activity at all is
// judged on risk and score only.
func NeedsAttention(lastActivity *time.Time, risk string, score float64, now time.Time) bool {
	if lastActivity != nil && now.Sub(*lastActivity) > InactiveAfter {
		return true
	}
	if risk == dto.RiskHigh {
		return true
	}
	return score < LowEngagement
}

// Evaluate fills the derived fields of a farmer record from its metrics.
func Evaluate(fd *dto.FarmerData, now time.Time) {
	in := Inputs{Logins: fd.Activity.TotalLogins}
	var profit float64
	var stability, cashFlow *float64
	var last []*time.Time
	last = append(last, fd.Activity.LastLogin)

	if e := fd.Expenses; e != nil {
		in.ExpenseEntries = e.ExpenseCount
		in.Assessments = e.AssessmentCount
		profit = e.TotalProfit
		stability, cashFlow = e.FinancialStabilityAvg, e.CashFlowAvg
		last = append(last, e.LastActivity)
	}
	if f := fd.Forecasting; f != nil {
		in.Predictions = f.TotalPredictions
		last = append(last, f.LastPrediction)
	}
	if h := fd.Health; h != nil {
		in.HealthAssessments = h.TotalAssessments
		last = append(last, h.LastAssessment)
	}
	if r := fd.Recommendations; r != nil {
		in.LoanAdvice = r.LoanAdviceCount
		in.CostCutting = r.CostCuttingCount
		last = append(last, r.LastRecommendation)
	}

	fd.EngagementScore = Score(in)
	fd.RiskLevel = Risk(profit, stability, cashFlow)
	fd.NeedsAttention = NeedsAttention(MostRecent(last...), fd.RiskLevel, fd.EngagementScore, now)
}
