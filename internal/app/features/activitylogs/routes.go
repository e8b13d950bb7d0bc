// internal/app/features/activitylogs/routes.go
package activitylogs

import (
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-chi/chi/v5"
)

// Routes serves GET /admin/activity-logs. The caller mounts it behind
// authentication.
func Routes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()
	r.With(limits.PerMinute(30), auth.RequirePermission(dto.PermViewAuditLogs)).Get("/", h.ServeList)
	return r
}
