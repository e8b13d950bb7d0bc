// internal/app/features/farmers/routes.go
package farmers

import (
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the farmer endpoints, typically at /admin/farmers behind
// authentication.
func Routes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()

	r.With(limits.PerMinute(50), auth.RequirePermission(dto.PermViewAllFarmers)).Get("/", h.ServeList)
	r.With(limits.PerMinute(100), auth.RequireAdmin).Get("/search", h.ServeSearch)
	r.With(limits.PerMinute(50), auth.RequireAdmin).Get("/needing-attention", h.ServeNeedingAttention)
	r.With(limits.PerMinute(100), auth.RequirePermission(dto.PermViewFarmerDetails)).Get("/{id}", h.ServeDetail)
	r.With(limits.PerMinute(20), auth.RequirePermission(dto.PermExportData)).Get("/{id}/export", h.ServeExport)

	return r
}
