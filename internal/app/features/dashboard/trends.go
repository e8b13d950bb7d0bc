// internal/app/features/dashboard/trends.go
package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	metricsstore "github.com/agribizboost/agriadmin/internal/app/store/metrics"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timefilter"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

// ServeTrend handles GET /admin/trends/{service}.
func (h *Handler) ServeTrend(w http.ResponseWriter, r *http.Request) {
	svc := dto.ServiceFilter(chi.URLParam(r, "service"))
	if svc == dto.ServiceAll {
		respond.BadRequest(w, "Please specify a specific service, not 'all'")
		return
	}
	if !svc.Valid() {
		respond.BadRequest(w, "Unknown service '"+string(svc)+"'")
		return
	}
	tf, err := timefilter.Parse(query.Get(r, "time_filter"), dto.TimeMonthly)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	trends, err := h.Queries.Trend(ctx, svc, tf)
	if errors.Is(err, metricsstore.ErrUnknownService) {
		respond.BadRequest(w, "Unknown service '"+string(svc)+"'")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load service trends", err)
		return
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionViewServiceTrends, "", map[string]any{
		"service":     string(svc),
		"time_filter": string(tf),
	})

	respond.OK(w, trends)
}
