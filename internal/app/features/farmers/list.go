// internal/app/features/farmers/list.go
package farmers

import (
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/paging"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
)

// ServeList handles GET /admin/farmers.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "farmers list")
	defer cancel()

	page, err := h.Queries.ListFarmers(ctx, f)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list farmers", err)
		return
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionListFarmers, "", map[string]any{
		"filters":       details(f),
		"results_count": len(page.Farmers),
	})

	respond.OK(w, page)
}

// ServeNeedingAttention handles GET /admin/farmers/needing-attention.
func (h *Handler) ServeNeedingAttention(w http.ResponseWriter, r *http.Request) {
	pg, err := paging.Parse(r, defaultPageSize, maxPageSize)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "farmers needing attention")
	defer cancel()

	page, err := h.Queries.NeedingAttention(ctx, pg)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list farmers needing attention", err)
		return
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionViewNeedingAttention, "", map[string]any{
		"results_count": len(page.Farmers),
	})

	respond.OK(w, page)
}
