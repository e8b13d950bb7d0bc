// internal/app/features/adminusers/delete.go
package adminusers

import (
	"context"
	"errors"
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgDeleteNotFound = "Admin user not found or deletion failed"

// HandleDelete handles DELETE /admin/users/{id}. Admin privileges are
// revoked; the account itself stays.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	adminID, _ := authz.UserID(r)
	if idHex == adminID {
		respond.BadRequest(w, "Cannot delete your own admin account")
		return
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		respond.NotFound(w, msgDeleteNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.RevokeAdmin(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.NotFound(w, msgDeleteNotFound)
			return
		}
		respond.ServerError(w, h.Log, "failed to revoke admin", err, zap.String("user_id", idHex))
		return
	}

	h.AuditLog.Admin(ctx, r, adminID, activity.ActionDeleteAdminUser, idHex, nil)
	respond.OK(w, dto.Message{Message: "Admin privileges removed successfully"})
}
