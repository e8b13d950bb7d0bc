// internal/app/features/adminusers/update.go
package adminusers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/htmlsanitize"
	"github.com/agribizboost/agriadmin/internal/app/system/inputval"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgUpdateNotFound = "Admin user not found or update failed"

type updateInput struct {
	Name        *string   `validate:"omitempty,max=200" label:"Name"`
	Permissions *[]string `validate:"omitempty,permissions" label:"Permissions"`
}

// changedKeys names the fields present in the request, for the audit log.
func changedKeys(req dto.UpdateAdminRequest) []string {
	keys := []string{}
	if req.Name != nil {
		keys = append(keys, "name")
	}
	if req.IsActive != nil {
		keys = append(keys, "is_active")
	}
	if req.IsSuperAdmin != nil {
		keys = append(keys, "is_super_admin")
	}
	if req.Permissions != nil {
		keys = append(keys, "permissions")
	}
	return keys
}

// HandleUpdate handles PUT /admin/users/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		respond.NotFound(w, msgUpdateNotFound)
		return
	}

	var req dto.UpdateAdminRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name != nil {
		name := htmlsanitize.Strip(*req.Name)
		if strings.TrimSpace(name) == "" {
			respond.BadRequest(w, "Name is required.")
			return
		}
		req.Name = &name
	}
	if res := inputval.Validate(updateInput{Name: req.Name, Permissions: req.Permissions}); res.HasErrors() {
		respond.BadRequest(w, res.First())
		return
	}

	adminID, _ := authz.UserID(r)
	if idHex == adminID {
		if req.IsActive != nil && !*req.IsActive {
			respond.BadRequest(w, "Cannot deactivate your own admin account")
			return
		}
		if req.IsSuperAdmin != nil && !*req.IsSuperAdmin {
			respond.BadRequest(w, "Cannot remove your own super admin role")
			return
		}
	}

	upd := userstore.AdminUpdate{
		Name:         req.Name,
		IsActive:     req.IsActive,
		IsSuperAdmin: req.IsSuperAdmin,
	}
	if req.Permissions != nil {
		perms := authz.SanitizePermissions(*req.Permissions)
		upd.Permissions = &perms
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdateAdmin(ctx, id, upd); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.NotFound(w, msgUpdateNotFound)
			return
		}
		respond.ServerError(w, h.Log, "failed to update admin user", err, zap.String("user_id", idHex))
		return
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to reload admin user", err)
		return
	}

	h.AuditLog.Admin(ctx, r, adminID, activity.ActionUpdateAdminUser, idHex, map[string]any{
		"updates": changedKeys(req),
	})
	respond.OK(w, toDTO(*u))
}
