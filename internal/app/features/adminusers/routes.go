// internal/app/features/adminusers/routes.go
package adminusers

import (
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-chi/chi/v5"
)

// Routes mounts admin management, typically at /admin/users behind
// authentication. Listing needs manage_admins; changes need a super admin.
func Routes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()

	r.With(limits.PerMinute(50), auth.RequirePermission(dto.PermManageAdmins)).Get("/", h.ServeList)

	r.Group(func(sr chi.Router) {
		sr.Use(auth.RequireSuperAdmin)
		sr.With(limits.PerMinute(10)).Post("/", h.HandleCreate)
		sr.With(limits.PerMinute(20)).Put("/{id}", h.HandleUpdate)
		sr.With(limits.PerMinute(10)).Delete("/{id}", h.HandleDelete)
	})

	return r
}
