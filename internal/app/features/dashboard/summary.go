// internal/app/features/dashboard/summary.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timefilter"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// ServeSummary handles GET /admin/dashboard/summary.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	tf, err := timefilter.Parse(query.Get(r, "time_filter"), dto.TimeAll)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard summary")
	defer cancel()

	summary, err := h.Queries.Summary(ctx, tf)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			respond.Detail(w, http.StatusServiceUnavailable, "Dashboard summary timed out")
			return
		}
		respond.ServerError(w, h.Log, "failed to build dashboard summary", err, zap.String("time_filter", string(tf)))
		return
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionViewDashboardSummary, "", map[string]any{
		"time_filter": string(tf),
	})

	respond.OK(w, summary)
}
