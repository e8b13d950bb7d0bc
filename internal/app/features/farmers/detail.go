// internal/app/features/farmers/detail.go
package farmers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timefilter"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func notFound(w http.ResponseWriter, id string) {
	respond.NotFound(w, fmt.Sprintf("Farmer with ID %s not found", id))
}

// load answers the response itself when ok is false.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, id string, tf dto.TimeFilter) (dto.FarmerData, bool) {
	fd, err := h.Queries.FarmerByID(ctx, id, tf)
	if errors.Is(err, userstore.ErrNotFound) {
		notFound(w, id)
		return dto.FarmerData{}, false
	}
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load farmer", err, zap.String("farmer_id", id))
		return dto.FarmerData{}, false
	}
	return fd, true
}

// ServeDetail handles GET /admin/farmers/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tf, err := timefilter.Parse(query.Get(r, "time_filter"), dto.TimeAll)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fd, ok := h.load(ctx, w, id, tf)
	if !ok {
		return
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionViewFarmerDetails, id, map[string]any{
		"time_filter": string(tf),
	})

	respond.OK(w, fd)
}

// ServeExport handles GET /admin/farmers/{id}/export. The record always
// covers all time.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fd, ok := h.load(ctx, w, id, dto.TimeAll)
	if !ok {
		return
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionExportFarmerData, id, nil)

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="farmer_%s.json"`, id))
	respond.OK(w, fd)
}
