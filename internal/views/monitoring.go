package views

import (
	"context"
	"sort"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"golang.org/x/sync/errgroup"
)

// MonitoringPageSize is how many log entries the page fetches.
const MonitoringPageSize = 50

// SystemMonitoring shows recent activity and backend health.
type SystemMonitoring struct {
	state
	api API

	Logs   []dto.ActivityLog
	Total  int64
	Health *dto.HealthStatus
	// HealthErr is set when the health probe failed; it does not fail
	// the page.
	HealthErr error
}

func NewSystemMonitoring(api API) *SystemMonitoring {
	return &SystemMonitoring{api: api}
}

// Load fetches the first log page and the health probe concurrently.
func (m *SystemMonitoring) Load(ctx context.Context) {
	m.begin()

	var (
		page   *dto.ActivityLogPage
		health *dto.HealthStatus
		hErr   error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = m.api.ActivityLogs(gctx, dto.ActivityLogFilters{Page: 1, PageSize: MonitoringPageSize})
		return err
	})
	g.Go(func() error {
		health, hErr = m.api.Health(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		m.fail(err)
		return
	}

	logs := append([]dto.ActivityLog(nil), page.Logs...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
	m.Logs, m.Total = logs, page.TotalCount
	m.Health, m.HealthErr = health, hErr
	m.settle(len(logs) == 0)
}

// Recent returns up to n newest entries.
func (m *SystemMonitoring) Recent(n int) []dto.ActivityLog {
	if n >= len(m.Logs) {
		return m.Logs
	}
	return m.Logs[:n]
}

// Healthy reports whether the backend answered its probe as healthy.
func (m *SystemMonitoring) Healthy() bool {
	return m.HealthErr == nil && m.Health != nil && m.Health.Status == "healthy"
}
