// internal/app/features/activitylogs/list.go
package activitylogs

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/paging"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// parseDate accepts RFC 3339 or YYYY-MM-DD. A bare end date covers the
// whole day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseFilters(r *http.Request) (dto.ActivityLogFilters, activity.Filter, error) {
	pg, err := paging.Parse(r, defaultPageSize, maxPageSize)
	if err != nil {
		return dto.ActivityLogFilters{}, activity.Filter{}, err
	}
	in := dto.ActivityLogFilters{
		UserID:    strings.TrimSpace(query.Get(r, "user_id")),
		Action:    strings.TrimSpace(query.Get(r, "action")),
		Service:   strings.TrimSpace(query.Get(r, "service")),
		StartDate: strings.TrimSpace(query.Get(r, "start_date")),
		EndDate:   strings.TrimSpace(query.Get(r, "end_date")),
		Page:      pg.Page,
		PageSize:  pg.PageSize,
	}

	start, err := parseDate(in.StartDate, false)
	if err != nil {
		return in, activity.Filter{}, fmt.Errorf("invalid start_date %q", in.StartDate)
	}
	end, err := parseDate(in.EndDate, true)
	if err != nil {
		return in, activity.Filter{}, fmt.Errorf("invalid end_date %q", in.EndDate)
	}

	return in, activity.Filter{
		UserID:  in.UserID,
		Action:  in.Action,
		Service: in.Service,
		Start:   start,
		End:     end,
		Skip:    pg.Skip(),
		Limit:   int64(pg.PageSize),
	}, nil
}

// ServeList handles GET /admin/activity-logs. Non-super admins only see
// their own entries.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	adminID, _ := authz.UserID(r)

	in, f, err := parseFilters(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if !authz.IsSuperAdmin(r) {
		if f.UserID == "" {
			f.UserID = adminID
		}
		if !authz.CanViewLogsOf(r, f.UserID) {
			respond.Forbidden(w, "You can only view your own activity logs")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, err := h.Activity.Query(ctx, f)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load activity logs", err)
		return
	}
	total, err := h.Activity.Count(ctx, f)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to count activity logs", err)
		return
	}

	logs := make([]dto.ActivityLog, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, activity.ToDTO(e))
	}

	h.AuditLog.Admin(ctx, r, adminID, activity.ActionViewActivityLogs, f.UserID, map[string]any{
		"page":     in.Page,
		"returned": len(logs),
	})
	h.Log.Debug("activity logs listed", zap.String("admin_id", adminID), zap.Int64("total", total))

	respond.OK(w, dto.ActivityLogPage{
		Logs:       logs,
		TotalCount: total,
		Page:       in.Page,
		PageSize:   in.PageSize,
		TotalPages: paging.TotalPages(total, in.PageSize),
	})
}
