// internal/app/features/adminusers/list.go
package adminusers

import (
	"context"
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// ServeList handles GET /admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	admins, err := h.Users.ListAdmins(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list admin users", err)
		return
	}

	out := dto.AdminUsers{Users: make([]dto.AdminUser, 0, len(admins))}
	for _, u := range admins {
		out.Users = append(out.Users, toDTO(u))
	}
	out.Count = len(out.Users)

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionListAdminUsers, "", nil)

	respond.OK(w, out)
}
