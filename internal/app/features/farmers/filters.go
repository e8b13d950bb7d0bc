// internal/app/features/farmers/filters.go
package farmers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/agribizboost/agriadmin/internal/app/system/paging"
	"github.com/agribizboost/agriadmin/internal/app/system/timefilter"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/dalemusser/waffle/pantry/query"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSortBy   = "last_activity"
)

func optBool(r *http.Request, key string) (*bool, error) {
	s := query.Get(r, key)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &b, nil
}

func optScore(r *http.Request, key string) (*float64, error) {
	s := query.Get(r, key)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 100 {
		return nil, fmt.Errorf("%s must be a number between 0 and 100", key)
	}
	return &f, nil
}

// parseFilters reads the list query. service_filter is validated and
// carried on the filters but does not narrow the result.
func parseFilters(r *http.Request) (dto.FarmerFilters, error) {
	var f dto.FarmerFilters
	var err error

	if f.TimeFilter, err = timefilter.Parse(query.Get(r, "time_filter"), dto.TimeAll); err != nil {
		return f, err
	}
	f.ServiceFilter = dto.ServiceAll
	if s := query.Get(r, "service_filter"); s != "" {
		f.ServiceFilter = dto.ServiceFilter(s)
		if !f.ServiceFilter.Valid() {
			return f, fmt.Errorf("invalid service_filter %q", s)
		}
	}
	f.Region = strings.TrimSpace(query.Get(r, "region"))
	if f.IsActive, err = optBool(r, "is_active"); err != nil {
		return f, err
	}
	if f.MinEngagementScore, err = optScore(r, "min_engagement_score"); err != nil {
		return f, err
	}
	if f.MaxEngagementScore, err = optScore(r, "max_engagement_score"); err != nil {
		return f, err
	}
	if f.NeedsAttention, err = optBool(r, "needs_attention"); err != nil {
		return f, err
	}

	pg, err := paging.Parse(r, defaultPageSize, maxPageSize)
	if err != nil {
		return f, err
	}
	f.Page, f.PageSize = pg.Page, pg.PageSize

	f.SortBy = query.Get(r, "sort_by")
	if f.SortBy == "" {
		f.SortBy = defaultSortBy
	}
	f.SortOrder = query.Get(r, "sort_order")
	switch f.SortOrder {
	case "":
		f.SortOrder = "desc"
	case "asc", "desc":
	default:
		return f, fmt.Errorf("sort_order must be asc or desc")
	}
	return f, nil
}

// details is the audit-log form of the filters.
func details(f dto.FarmerFilters) map[string]any {
	d := map[string]any{
		"time_filter":    string(f.TimeFilter),
		"service_filter": string(f.ServiceFilter),
		"page":           f.Page,
		"page_size":      f.PageSize,
		"sort_by":        f.SortBy,
		"sort_order":     f.SortOrder,
	}
	if f.Region != "" {
		d["region"] = f.Region
	}
	if f.IsActive != nil {
		d["is_active"] = *f.IsActive
	}
	if f.MinEngagementScore != nil {
		d["min_engagement_score"] = *f.MinEngagementScore
	}
	if f.MaxEngagementScore != nil {
		d["max_engagement_score"] = *f.MaxEngagementScore
	}
	if f.NeedsAttention != nil {
		d["needs_attention"] = *f.NeedsAttention
	}
	return d
}
