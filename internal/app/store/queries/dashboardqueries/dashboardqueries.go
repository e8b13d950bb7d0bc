// Package dashboardqueries assembles farmer records and the system
// summary from the user, activity and service collections.
package dashboardqueries

import (
	"context"
	"sort"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	metricsstore "github.com/agribizboost/agriadmin/internal/app/store/metrics"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/engagement"
	"github.com/agribizboost/agriadmin/internal/app/system/paging"
	"github.com/agribizboost/agriadmin/internal/app/system/timefilter"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// SortEngagement is the derived sort key; it orders within a page.
const SortEngagement = "engagement_score"

// summaryWorkers bounds concurrent per-farmer metric reads in Summary.
const summaryWorkers = 8

// Queries reads dashboard data from one database.
type Queries struct {
	users    *userstore.Store
	metrics  *metricsstore.Store
	activity *activity.Store
	now      func() time.Time
}

// New creates Queries over db.
func New(db *mongo.Database) *Queries {
	return &Queries{
		users:    userstore.New(db),
		metrics:  metricsstore.New(db),
		activity: activity.New(db),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (q *Queries) since(tf dto.TimeFilter) *time.Time {
	if t, ok := timefilter.Since(tf, q.now()); ok {
		return &t
	}
	return nil
}

// Farmer builds the full record for u within the time filter.
func (q *Queries) Farmer(ctx context.Context, u models.User, tf dto.TimeFilter) (dto.FarmerData, error) {
	id := u.ID.Hex()
	since := q.since(tf)

	logins, lastLogin, err := q.metrics.Logins(ctx, id, since)
	if err != nil {
		return dto.FarmerData{}, err
	}
	if lastLogin == nil {
		lastLogin = u.LastLogin
	}
	exp, err := q.metrics.Expenses(ctx, id, since)
	if err != nil {
		return dto.FarmerData{}, err
	}
	fc, err := q.metrics.Forecasting(ctx, id, since)
	if err != nil {
		return dto.FarmerData{}, err
	}
	health, err := q.metrics.Health(ctx, id, since)
	if err != nil {
		return dto.FarmerData{}, err
	}
	recs, err := q.metrics.Recommendations(ctx, id, since)
	if err != nil {
		return dto.FarmerData{}, err
	}

	fd := dto.FarmerData{
		Activity: dto.FarmerActivity{
			UserID:      id,
			PhoneNumber: u.PhoneNumber,
			Name:        u.Name,
			LastLogin:   lastLogin,
			TotalLogins: logins,
			IsActive:    u.IsActive,
			CreatedAt:   u.CreatedAt,
			Location:    u.Location,
		},
		Expenses:        exp,
		Forecasting:     fc,
		Health:          health,
		Recommendations: recs,
	}
	engagement.Evaluate(&fd, q.now())
	return fd, nil
}

// FarmerByID loads one farmer by hex id. It returns userstore.ErrNotFound
// for unknown or malformed ids.
func (q *Queries) FarmerByID(ctx context.Context, id string, tf dto.TimeFilter) (dto.FarmerData, error) {
	u, err := q.users.GetByHex(ctx, id)
	if err != nil {
		return dto.FarmerData{}, err
	}
	return q.Farmer(ctx, *u, tf)
}

// ListFarmers returns one page of farmers. Region and active status are
// filtered in the database and define TotalCount. Engagement filters
// apply to the fetched page only.
func (q *Queries) ListFarmers(ctx context.Context, f dto.FarmerFilters) (dto.FarmersPage, error) {
	pg := paging.Page{Page: f.Page, PageSize: f.PageSize}
	if pg.Page < 1 {
		pg.Page = 1
	}
	if pg.PageSize < 1 {
		pg.PageSize = paging.DefaultPageSize
	}
	uq := userstore.FarmerQuery{Region: f.Region, IsActive: f.IsActive}

	total, err := q.users.Count(ctx, uq)
	if err != nil {
		return dto.FarmersPage{}, err
	}

	desc := f.SortOrder != "asc"
	dbSort := f.SortBy
	if !userstore.SortableFields[dbSort] {
		dbSort = "created_at"
	}
	users, err := q.users.List(ctx, uq, dbSort, desc, pg.Skip(), int64(pg.PageSize))
	if err != nil {
		return dto.FarmersPage{}, err
	}

	farmers := make([]dto.FarmerData, 0, len(users))
	for _, u := range users {
		fd, err := q.Farmer(ctx, u, f.TimeFilter)
		if err != nil {
			return dto.FarmersPage{}, err
		}
		if !keep(fd, f) {
			continue
		}
		farmers = append(farmers, fd)
	}
	if f.SortBy == SortEngagement {
		sortByEngagement(farmers, desc)
	}

	return dto.FarmersPage{
		Farmers:    farmers,
		TotalCount: total,
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		TotalPages: paging.TotalPages(total, pg.PageSize),
	}, nil
}

func keep(fd dto.FarmerData, f dto.FarmerFilters) bool {
	if f.MinEngagementScore != nil && fd.EngagementScore < *f.MinEngagementScore {
		return false
	}
	if f.MaxEngagementScore != nil && fd.EngagementScore > *f.MaxEngagementScore {
		return false
	}
	if f.NeedsAttention != nil && fd.NeedsAttention != *f.NeedsAttention {
		return false
	}
	return true
}

func sortByEngagement(fs []dto.FarmerData, desc bool) {
	sort.SliceStable(fs, func(i, j int) bool {
		if desc {
			return fs[i].EngagementScore > fs[j].EngagementScore
		}
		return fs[i].EngagementScore < fs[j].EngagementScore
	})
}

// NeedingAttention returns flagged farmers, lowest engagement first.
// Every farmer is evaluated so TotalCount counts flagged farmers only.
func (q *Queries) NeedingAttention(ctx context.Context, pg paging.Page) (dto.FarmersPage, error) {
	users, err := q.users.List(ctx, userstore.FarmerQuery{}, "created_at", true, 0, 0)
	if err != nil {
		return dto.FarmersPage{}, err
	}

	records, err := q.evaluateAll(ctx, users, dto.TimeAll)
	if err != nil {
		return dto.FarmersPage{}, err
	}
	flagged := make([]dto.FarmerData, 0)
	for _, fd := range records {
		if fd.NeedsAttention {
			flagged = append(flagged, fd)
		}
	}
	sortByEngagement(flagged, false)

	total := int64(len(flagged))
	start := min(int(pg.Skip()), len(flagged))
	end := min(start+pg.PageSize, len(flagged))

	return dto.FarmersPage{
		Farmers:    flagged[start:end],
		TotalCount: total,
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		TotalPages: paging.TotalPages(total, pg.PageSize),
	}, nil
}

// evaluateAll builds records for users concurrently, preserving order.
func (q *Queries) evaluateAll(ctx context.Context, users []models.User, tf dto.TimeFilter) ([]dto.FarmerData, error) {
	out := make([]dto.FarmerData, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryWorkers)
	for i, u := range users {
		g.Go(func() error {
			fd, err := q.Farmer(gctx, u, tf)
			if err != nil {
				return err
			}
			out[i] = fd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func perUser(total, users int64) float64 {
	if users == 0 {
		return 0
	}
	return float64(total) / float64(users)
}

// Summary aggregates every farmer's metrics for the time filter.
func (q *Queries) Summary(ctx context.Context, tf dto.TimeFilter) (dto.DashboardSummary, error) {
	users, err := q.users.List(ctx, userstore.FarmerQuery{}, "created_at", true, 0, 0)
	if err != nil {
		return dto.DashboardSummary{}, err
	}
	records, err := q.evaluateAll(ctx, users, tf)
	if err != nil {
		return dto.DashboardSummary{}, err
	}

	s := dto.DashboardSummary{
		TotalFarmers: int64(len(users)),
		TimeFilter:   tf,
		GeneratedAt:  q.now(),
	}

	var logins, entries, predictions, health, recs int64
	for _, fd := range records {
		if fd.Activity.IsActive {
			s.ActiveFarmers++
		}
		if fd.NeedsAttention {
			s.FarmersNeedingAttention++
		}
		logins += fd.Activity.TotalLogins
		if e := fd.Expenses; e != nil {
			entries += e.ExpenseCount
			s.TotalSystemRevenue += e.TotalRevenue
			s.TotalSystemExpenses += e.TotalExpenses
			s.TotalSystemProfit += e.TotalProfit
		}
		if f := fd.Forecasting; f != nil {
			predictions += f.TotalPredictions
		}
		if h := fd.Health; h != nil {
			health += h.TotalAssessments
		}
		if r := fd.Recommendations; r != nil {
			recs += r.LoanAdviceCount + r.CostCuttingCount
		}
	}
	s.InactiveFarmers = s.TotalFarmers - s.ActiveFarmers

	n := s.TotalFarmers
	s.AuthUsage = dto.AuthUsage{TotalLogins: logins, AvgLoginsPerUser: perUser(logins, n)}
	s.ExpenseTrackingUsage = dto.ExpenseTrackingUsage{TotalEntries: entries, AvgEntriesPerUser: perUser(entries, n)}
	s.ForecastingUsage = dto.ForecastingUsage{TotalPredictions: predictions, AvgPredictionsPerUser: perUser(predictions, n)}
	s.HealthAssessmentUsage = dto.HealthAssessmentUsage{TotalAssessments: health, AvgAssessmentsPerUser: perUser(health, n)}
	s.RecommendationUsage = dto.RecommendationUsage{TotalRecommendations: recs, AvgRecommendationsPerUser: perUser(recs, n)}

	if s.RegionalDistribution, err = q.users.RegionalDistribution(ctx); err != nil {
		return dto.DashboardSummary{}, err
	}
	if s.DailyActiveUsers, err = q.activity.DailyActiveUsers(ctx, q.since(tf)); err != nil {
		return dto.DashboardSummary{}, err
	}

	s.ServiceTrends = make(map[string][]dto.TrendPoint, len(dto.TrendServices))
	for _, svc := range dto.TrendServices {
		pts, err := q.metrics.Trend(ctx, svc, timefilter.BucketFormat(tf), q.since(tf))
		if err != nil {
			return dto.DashboardSummary{}, err
		}
		s.ServiceTrends[string(svc)] = pts
	}
	return s, nil
}

// Trend returns bucketed usage for one service.
func (q *Queries) Trend(ctx context.Context, svc dto.ServiceFilter, tf dto.TimeFilter) (dto.ServiceTrends, error) {
	pts, err := q.metrics.Trend(ctx, svc, timefilter.BucketFormat(tf), q.since(tf))
	if err != nil {
		return dto.ServiceTrends{}, err
	}
	return dto.ServiceTrends{Service: svc, TimeFilter: tf, Trends: pts}, nil
}
