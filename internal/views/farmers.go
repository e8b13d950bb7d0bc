package views

import (
	"context"
	"strings"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// Filter values meaning "no restriction".
const (
	AnyStatus = "all"
	AnyRisk   = "all"
)

// FarmerFilter narrows a fetched page on the client.
type FarmerFilter struct {
	Search string // name or location (case-insensitive), or phone substring
	Region string // location substring, case-insensitive
	Status string // all | active | inactive
	Risk   string // all | low | medium | high | unknown
}

// Matches reports whether f passes every criterion of the filter.
func (flt FarmerFilter) Matches(f dto.FarmerData) bool {
	a := f.Activity
	if flt.Search != "" {
		term := strings.ToLower(flt.Search)
		if !strings.Contains(strings.ToLower(a.Name), term) &&
			!strings.Contains(a.PhoneNumber, flt.Search) &&
			!strings.Contains(strings.ToLower(a.Location), term) {
			return false
		}
	}
	if flt.Region != "" && !strings.Contains(strings.ToLower(a.Location), strings.ToLower(flt.Region)) {
		return false
	}
	switch flt.Status {
	case "active":
		if !a.IsActive {
			return false
		}
	case "inactive":
		if a.IsActive {
			return false
		}
	}
	if flt.Risk != "" && flt.Risk != AnyRisk && f.RiskLevel != flt.Risk {
		return false
	}
	return true
}

// FilterFarmers keeps the rows matching every criterion, in order.
func FilterFarmers(rows []dto.FarmerData, flt FarmerFilter) []dto.FarmerData {
	out := make([]dto.FarmerData, 0, len(rows))
	for _, f := range rows {
		if flt.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}

// FarmersPageSize is the fixed page size of the farmers list.
const FarmersPageSize = 20

// FarmersList is the paginated farmers table. Region and status are also
// sent to the server; search and risk only filter the fetched page.
type FarmersList struct {
	state
	api API

	Page   int
	Filter FarmerFilter
	Result *dto.FarmersPage

	rows     []dto.FarmerData
	selected map[string]bool
}

func NewFarmersList(api API) *FarmersList {
	return &FarmersList{
		api:      api,
		Page:     1,
		Filter:   FarmerFilter{Status: AnyStatus, Risk: AnyRisk},
		selected: make(map[string]bool),
	}
}

// Load fetches the current page sorted by engagement score, highest first.
func (l *FarmersList) Load(ctx context.Context) {
	l.begin()
	q := dto.FarmerFilters{
		Region:    l.Filter.Region,
		Page:      l.Page,
		PageSize:  FarmersPageSize,
		SortBy:    "engagement_score",
		SortOrder: "desc",
	}
	switch l.Filter.Status {
	case "active":
		v := true
		q.IsActive = &v
	case "inactive":
		v := false
		q.IsActive = &v
	}

	res, err := l.api.Farmers(ctx, q)
	if err != nil {
		l.fail(err)
		return
	}
	l.Result = res
	l.selected = make(map[string]bool)
	l.refilter()
}

// SetFilter applies flt, refetching when a server-side criterion changed.
func (l *FarmersList) SetFilter(ctx context.Context, flt FarmerFilter) {
	refetch := flt.Region != l.Filter.Region || flt.Status != l.Filter.Status || l.Result == nil
	l.Filter = flt
	if refetch {
		l.Page = 1
		l.Load(ctx)
		return
	}
	l.refilter()
}

// SetPage moves to page n (1-based) and refetches.
func (l *FarmersList) SetPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	l.Page = n
	l.Load(ctx)
}

func (l *FarmersList) refilter() {
	if l.Result == nil {
		l.rows = nil
		l.settle(true)
		return
	}
	l.rows = FilterFarmers(l.Result.Farmers, l.Filter)
	l.settle(len(l.rows) == 0)
}

// Rows is the filtered page.
func (l *FarmersList) Rows() []dto.FarmerData { return l.rows }

// TotalCount is the server's population count, not the filtered size.
func (l *FarmersList) TotalCount() int64 {
	if l.Result == nil {
		return 0
	}
	return l.Result.TotalCount
}

// FilteredCount is the number of rows shown.
func (l *FarmersList) FilteredCount() int { return len(l.rows) }

// TotalPages as reported by the server.
func (l *FarmersList) TotalPages() int {
	if l.Result == nil {
		return 0
	}
	return l.Result.TotalPages
}

// Toggle flips the selection of one farmer.
func (l *FarmersList) Toggle(userID string) {
	if l.selected[userID] {
		delete(l.selected, userID)
		return
	}
	l.selected[userID] = true
}

// ToggleAll selects every filtered row, or clears the selection when all
// of them are already selected.
func (l *FarmersList) ToggleAll() {
	if len(l.rows) > 0 && l.AllSelected() {
		l.selected = make(map[string]bool)
		return
	}
	l.selected = make(map[string]bool, len(l.rows))
	for _, f := range l.rows {
		l.selected[f.Activity.UserID] = true
	}
}

// AllSelected reports whether every filtered row is selected.
func (l *FarmersList) AllSelected() bool {
	if len(l.rows) == 0 {
		return false
	}
	for _, f := range l.rows {
		if !l.selected[f.Activity.UserID] {
			return false
		}
	}
	return true
}

func (l *FarmersList) IsSelected(userID string) bool { return l.selected[userID] }

// Selected returns the selected farmers in display order.
func (l *FarmersList) Selected() []dto.FarmerData {
	var out []dto.FarmerData
	for _, f := range l.rows {
		if l.selected[f.Activity.UserID] {
			out = append(out, f)
		}
	}
	return out
}
