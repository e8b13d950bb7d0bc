package metricsstore_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	metricsstore "github.com/agribizboost/agriadmin/internal/app/store/metrics"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/testutil"
)

func TestExpenses_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := metricsstore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	m, err := store.Expenses(ctx, "nobody", nil)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if m.ExpenseCount != 0 || m.TotalRevenue != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
	if m.FinancialStabilityAvg != nil || m.CashFlowAvg != nil {
		t.Error("averages should be nil without assessments")
	}
	if m.MostTradedGoods == nil {
		t.Error("most traded goods should be an empty list, not nil")
	}
}

func TestExpenses_RevenueAndTopGoods(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.AddExpense(ctx, "u1", "teff", 100, now.Add(-time.Hour))
	fx.AddExpense(ctx, "u1", "teff", 50, now.Add(-2*time.Hour))
	fx.AddExpense(ctx, "u1", "maize", 25, now.Add(-3*time.Hour))
	fx.AddAssessment(ctx, "u1", 300, 40, 60, now)
	fx.AddAssessment(ctx, "u1", 100, 60, 80, now)

	m, err := metricsstore.New(db).Expenses(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if m.TotalExpenses != 175 {
		t.Errorf("TotalExpenses = %v, want 175", m.TotalExpenses)
	}
	if m.TotalProfit != 400 || m.TotalRevenue != 575 {
		t.Errorf("profit=%v revenue=%v, want 400 and 575", m.TotalProfit, m.TotalRevenue)
	}
	if m.AssessmentCount != 2 {
		t.Errorf("AssessmentCount = %d, want 2", m.AssessmentCount)
	}
	if m.FinancialStabilityAvg == nil || *m.FinancialStabilityAvg != 50 {
		t.Errorf("FinancialStabilityAvg = %v, want 50", m.FinancialStabilityAvg)
	}
	want := []dto.NamedCount{{Name: "teff", Count: 2}, {Name: "maize", Count: 1}}
	if !reflect.DeepEqual(m.MostTradedGoods, want) {
		t.Errorf("MostTradedGoods = %v, want %v", m.MostTradedGoods, want)
	}
}

func TestExpenses_TimeWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.AddExpense(ctx, "u1", "teff", 10, now.Add(-48*time.Hour))
	fx.AddExpense(ctx, "u1", "teff", 20, now.Add(-time.Hour))

	since := now.Add(-24 * time.Hour)
	m, err := metricsstore.New(db).Expenses(ctx, "u1", &since)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if m.ExpenseCount != 1 || m.TotalExpenses != 20 {
		t.Errorf("windowed metrics = %+v", m)
	}
}

func TestForecasting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.AddPrediction(ctx, "u1", "Oromia", "teff", now.Add(-time.Hour))
	fx.AddPrediction(ctx, "u1", "Oromia", "teff", now.Add(-2*time.Hour))
	fx.AddPrediction(ctx, "u1", "Amhara", "wheat", now)

	m, err := metricsstore.New(db).Forecasting(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("Forecasting: %v", err)
	}
	if m.TotalPredictions != 3 {
		t.Errorf("TotalPredictions = %d, want 3", m.TotalPredictions)
	}
	if !reflect.DeepEqual(m.RegionsQueried, []string{"Amhara", "Oromia"}) {
		t.Errorf("RegionsQueried = %v", m.RegionsQueried)
	}
	if len(m.MostFrequentQueries) != 2 || m.MostFrequentQueries[0] != (dto.QueryCount{Query: "Oromia_teff", Count: 2}) {
		t.Errorf("MostFrequentQueries = %v", m.MostFrequentQueries)
	}
	if m.LastPrediction == nil || m.LastPrediction.Sub(now).Abs() > time.Second {
		t.Errorf("LastPrediction = %v, want ~%v", m.LastPrediction, now)
	}
}

func TestHealth_ProfitMargin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	// revenue 10*100=1000, profit 1000-600=400
	fx.AddHealthAssessment(ctx, "u1", "teff", 50, 100, 600, 10, now)
	// revenue 0, profit -100
	fx.AddHealthAssessment(ctx, "u1", "maize", 25, 0, 100, 0, now)

	m, err := metricsstore.New(db).Health(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if m.TotalAssessments != 2 || m.TotalSubsidies != 75 {
		t.Errorf("got %+v", m)
	}
	if m.AverageProfitMargin == nil || *m.AverageProfitMargin != 30 {
		t.Errorf("AverageProfitMargin = %v, want 30", m.AverageProfitMargin)
	}

	empty, _ := metricsstore.New(db).Health(ctx, "u2", nil)
	if empty.AverageProfitMargin != nil {
		t.Error("margin should be nil without revenue")
	}
}

func TestRecommendations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.AddLoanAdvice(ctx, "u1", now.Add(-time.Hour))
	fx.AddCostCutting(ctx, "u1", now)

	m, err := metricsstore.New(db).Recommendations(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if m.LoanAdviceCount != 1 || m.CostCuttingCount != 1 {
		t.Errorf("counts = %d/%d", m.LoanAdviceCount, m.CostCuttingCount)
	}
	if !reflect.DeepEqual(m.RecommendationTopics, []string{"loan_advice", "cost_cutting_strategies"}) {
		t.Errorf("topics = %v", m.RecommendationTopics)
	}
	if m.LastRecommendation == nil || m.LastRecommendation.Sub(now).Abs() > time.Second {
		t.Errorf("LastRecommendation = %v, want the cost-cutting time", m.LastRecommendation)
	}
}

func TestLogins_CountsAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.AddLogin(ctx, "u1", now.Add(-400*24*time.Hour))
	fx.AddLogin(ctx, "u1", now)

	n, last, err := metricsstore.New(db).Logins(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("Logins: %v", err)
	}
	if n != 2 {
		t.Errorf("all-time logins = %d, want 2", n)
	}
	if last == nil {
		t.Fatal("expected a last login")
	}
}

func TestTrend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	fx.AddPrediction(ctx, "u1", "Oromia", "teff", d1)
	fx.AddPrediction(ctx, "u2", "Oromia", "teff", d1)
	fx.AddPrediction(ctx, "u1", "Oromia", "teff", d2)

	pts, err := metricsstore.New(db).Trend(ctx, dto.ServiceForecasting, "%Y-%m-%d", nil)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	want := []dto.TrendPoint{{Date: "2025-03-01", UsageCount: 2}, {Date: "2025-03-02", UsageCount: 1}}
	if !reflect.DeepEqual(pts, want) {
		t.Errorf("Trend = %v, want %v", pts, want)
	}

	if _, err := metricsstore.New(db).Trend(ctx, dto.ServiceAll, "%Y-%m", nil); !errors.Is(err, metricsstore.ErrUnknownService) {
		t.Errorf("all should be rejected, err = %v", err)
	}
}
