package dashboardqueries_test

import (
	"errors"
	"testing"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/queries/dashboardqueries"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/paging"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/testutil"
)

func TestFarmerByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	u := fx.CreateFarmer(ctx, "Abebe Kebede", "+251911111111", "Oromia")
	id := u.ID.Hex()
	for i := 0; i < 10; i++ {
		fx.AddLogin(ctx, id, now.Add(-time.Duration(i)*time.Hour))
	}
	fx.AddPrediction(ctx, id, "Oromia", "teff", now)
	fx.AddAssessment(ctx, id, 500, 70, 80, now)

	q := dashboardqueries.New(db)
	fd, err := q.FarmerByID(ctx, id, dto.TimeAll)
	if err != nil {
		t.Fatalf("FarmerByID: %v", err)
	}
	if fd.Activity.TotalLogins != 10 {
		t.Errorf("TotalLogins = %d, want 10", fd.Activity.TotalLogins)
	}
	// 10 logins -> 20, 1 assessment -> 2, 1 prediction -> 2
	if fd.EngagementScore != 24 {
		t.Errorf("EngagementScore = %v, want 24", fd.EngagementScore)
	}
	if fd.RiskLevel != dto.RiskLow {
		t.Errorf("RiskLevel = %q, want low", fd.RiskLevel)
	}
	if fd.NeedsAttention {
		t.Error("active, healthy farmer should not need attention")
	}
}

func TestFarmerByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := dashboardqueries.New(db)
	if _, err := q.FarmerByID(ctx, "not-a-hex-id", dto.TimeAll); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := q.FarmerByID(ctx, "65a000000000000000000000", dto.TimeAll); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFarmers_PagingAndFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	busy := fx.CreateFarmer(ctx, "Busy", "+251911000010", "Oromia")
	fx.CreateFarmer(ctx, "Quiet", "+251911000011", "Oromia")
	fx.CreateFarmer(ctx, "Elsewhere", "+251911000012", "Amhara")
	for i := 0; i < 10; i++ {
		fx.AddLogin(ctx, busy.ID.Hex(), now)
		fx.AddHealthAssessment(ctx, busy.ID.Hex(), "teff", 0, 10, 5, 1, now)
	}

	q := dashboardqueries.New(db)
	page, err := q.ListFarmers(ctx, dto.FarmerFilters{
		TimeFilter: dto.TimeAll,
		Region:     "oromia",
		Page:       1,
		PageSize:   20,
		SortBy:     dashboardqueries.SortEngagement,
		SortOrder:  "desc",
	})
	if err != nil {
		t.Fatalf("ListFarmers: %v", err)
	}
	if page.TotalCount != 2 || len(page.Farmers) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", page.TotalCount, len(page.Farmers))
	}
	if page.Farmers[0].Activity.Name != "Busy" {
		t.Errorf("first = %q, want highest engagement", page.Farmers[0].Activity.Name)
	}

	min := 30.0
	page, err = q.ListFarmers(ctx, dto.FarmerFilters{TimeFilter: dto.TimeAll, MinEngagementScore: &min, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListFarmers: %v", err)
	}
	if len(page.Farmers) != 1 {
		t.Errorf("min score filter kept %d, want 1", len(page.Farmers))
	}
	if page.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want unfiltered 3", page.TotalCount)
	}
}

func TestNeedingAttention(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	engaged := fx.CreateFarmer(ctx, "Engaged", "+251911000020", "Oromia")
	for i := 0; i < 10; i++ {
		fx.AddLogin(ctx, engaged.ID.Hex(), now)
		fx.AddHealthAssessment(ctx, engaged.ID.Hex(), "teff", 0, 10, 5, 1, now)
	}
	fx.CreateFarmer(ctx, "Idle", "+251911000021", "Oromia")

	q := dashboardqueries.New(db)
	page, err := q.NeedingAttention(ctx, paging.Page{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("NeedingAttention: %v", err)
	}
	if page.TotalCount != 1 || len(page.Farmers) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", page.TotalCount, len(page.Farmers))
	}
	if page.Farmers[0].Activity.Name != "Idle" {
		t.Errorf("flagged = %q, want Idle", page.Farmers[0].Activity.Name)
	}
}

func TestSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	a := fx.CreateFarmer(ctx, "A", "+251911000030", "Oromia")
	b := fx.CreateFarmer(ctx, "B", "+251911000031", "")
	fx.AddLogin(ctx, a.ID.Hex(), now)
	fx.AddLogin(ctx, b.ID.Hex(), now)
	fx.AddExpense(ctx, a.ID.Hex(), "teff", 100, now)
	fx.AddAssessment(ctx, a.ID.Hex(), 50, 50, 50, now)
	fx.AddLoanAdvice(ctx, b.ID.Hex(), now)
	fx.AddCostCutting(ctx, b.ID.Hex(), now)

	s, err := dashboardqueries.New(db).Summary(ctx, dto.TimeMonthly)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalFarmers != 2 || s.ActiveFarmers != 2 || s.InactiveFarmers != 0 {
		t.Errorf("counts = %d/%d/%d", s.TotalFarmers, s.ActiveFarmers, s.InactiveFarmers)
	}
	if s.AuthUsage.TotalLogins != 2 || s.AuthUsage.AvgLoginsPerUser != 1 {
		t.Errorf("auth usage = %+v", s.AuthUsage)
	}
	if s.RecommendationUsage.TotalRecommendations != 2 {
		t.Errorf("recommendations = %d, want 2", s.RecommendationUsage.TotalRecommendations)
	}
	if s.TotalSystemRevenue != 150 || s.TotalSystemProfit != 50 {
		t.Errorf("revenue=%v profit=%v", s.TotalSystemRevenue, s.TotalSystemProfit)
	}
	if s.RegionalDistribution["Oromia"] != 1 || s.RegionalDistribution["Unknown"] != 1 {
		t.Errorf("regional = %v", s.RegionalDistribution)
	}
	if s.TotalServiceUsage() != 2+1+0+0+2 {
		t.Errorf("TotalServiceUsage = %d", s.TotalServiceUsage())
	}
	if len(s.DailyActiveUsers) != 1 || s.DailyActiveUsers[0].Count != 2 {
		t.Errorf("daily active = %v", s.DailyActiveUsers)
	}
	if len(s.ServiceTrends) != len(dto.TrendServices) {
		t.Errorf("service trends has %d services", len(s.ServiceTrends))
	}
}
