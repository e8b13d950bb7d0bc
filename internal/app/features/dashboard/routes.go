// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-chi/chi/v5"
)

// Routes serves the summary under /admin/dashboard.
func Routes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()
	r.With(limits.PerMinute(30), auth.RequireAdmin).Get("/summary", h.ServeSummary)
	return r
}

// TrendRoutes serves per-service trends under /admin/trends.
func TrendRoutes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()
	r.With(limits.PerMinute(30), auth.RequirePermission(dto.PermViewSystemMetrics)).Get("/{service}", h.ServeTrend)
	return r
}
