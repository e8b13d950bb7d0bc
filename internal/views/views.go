// Package views holds the admin panel's page models. Each page declares
// its filters, fetches through the API, keeps the result and derives the
// table and chart projections the CLI prints. A page is owned by one
// goroutine; pages are not safe for concurrent use.
package views

import (
	"context"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// Status is the page's display branch. Exactly one applies at a time.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusEmpty
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	}
	return "unknown"
}

// API is the admin client surface the pages read from.
type API interface {
	DashboardSummary(ctx context.Context, tf dto.TimeFilter) (*dto.DashboardSummary, error)
	Farmers(ctx context.Context, f dto.FarmerFilters) (*dto.FarmersPage, error)
	Farmer(ctx context.Context, id string, tf dto.TimeFilter) (*dto.FarmerData, error)
	ExportFarmer(ctx context.Context, id string) (*dto.FarmerData, error)
	ServiceTrends(ctx context.Context, service dto.ServiceFilter, tf dto.TimeFilter) (*dto.ServiceTrends, error)
	ActivityLogs(ctx context.Context, f dto.ActivityLogFilters) (*dto.ActivityLogPage, error)
	Health(ctx context.Context) (*dto.HealthStatus, error)
	AdminUsers(ctx context.Context) ([]dto.AdminUser, error)
	CreateAdminUser(ctx context.Context, in dto.CreateAdminRequest) (*dto.AdminUser, error)
	UpdateAdminUser(ctx context.Context, id string, in dto.UpdateAdminRequest) (*dto.AdminUser, error)
	DeleteAdminUser(ctx context.Context, id string) error
}

// state is embedded by every page.
type state struct {
	status Status
	err    error
}

// Status returns the current branch.
func (s *state) Status() Status { return s.status }

// Err is the fetch error while Status is StatusError.
func (s *state) Err() error { return s.err }

func (s *state) begin() {
	s.status, s.err = StatusLoading, nil
}

func (s *state) fail(err error) {
	s.status, s.err = StatusError, err
}

func (s *state) settle(empty bool) {
	s.err = nil
	if empty {
		s.status = StatusEmpty
		return
	}
	s.status = StatusReady
}

// Bar is one labelled value in a bar or pie chart.
type Bar struct {
	Label string
	Value int64
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part * 100 / whole
}
