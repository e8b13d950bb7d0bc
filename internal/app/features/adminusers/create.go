// internal/app/features/adminusers/create.go
package adminusers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/htmlsanitize"
	"github.com/agribizboost/agriadmin/internal/app/system/inputval"
	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type createInput struct {
	Name        string   `validate:"required,max=200" label:"Name"`
	Phone       string   `validate:"required,phone" label:"Phone number"`
	Password    string   `validate:"omitempty,min=8,max=72" label:"Password"`
	Permissions []string `validate:"permissions" label:"Permissions"`
}

// HandleCreate handles POST /admin/users. An existing account with the
// same phone number is promoted; otherwise a new account is created and
// Password is required.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdminRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	req.Name = normalize.Name(htmlsanitize.Strip(req.Name))

	in := createInput{Name: req.Name, Phone: req.PhoneNumber, Password: req.Password, Permissions: req.Permissions}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.BadRequest(w, res.First())
		return
	}
	phone, _ := normalize.Phone(req.PhoneNumber)
	perms := authz.SanitizePermissions(req.Permissions)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	adminID, _ := authz.UserID(r)

	existing, err := h.Users.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.IsAdmin {
			respond.Detail(w, http.StatusConflict, "User is already an admin")
			return
		}
		if err := h.Users.GrantAdmin(ctx, existing.ID, req.IsSuperAdmin, perms); err != nil {
			respond.ServerError(w, h.Log, "failed to promote user", err, zap.String("user_id", existing.ID.Hex()))
			return
		}
		u, err := h.Users.GetByID(ctx, existing.ID)
		if err != nil {
			respond.ServerError(w, h.Log, "failed to reload admin user", err)
			return
		}
		h.AuditLog.Admin(ctx, r, adminID, activity.ActionCreateAdminUser, u.ID.Hex(), map[string]any{
			"new_admin_phone": phone,
			"promoted":        true,
		})
		respond.JSON(w, http.StatusCreated, toDTO(*u))
		return

	case !errors.Is(err, userstore.ErrNotFound):
		respond.ServerError(w, h.Log, "database error", err)
		return
	}

	if req.Password == "" {
		respond.BadRequest(w, "Password is required for a new account.")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to hash password", err)
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Name:           req.Name,
		PhoneNumber:    phone,
		HashedPassword: string(hash),
		IsActive:       true,
		IsAdmin:        true,
		IsSuperAdmin:   req.IsSuperAdmin,
		Permissions:    perms,
		CreatedAt:      time.Now().UTC(),
	})
	if errors.Is(err, userstore.ErrDuplicatePhone) {
		respond.Detail(w, http.StatusConflict, "Phone number already registered")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create admin user", err)
		return
	}

	h.AuditLog.Admin(ctx, r, adminID, activity.ActionCreateAdminUser, u.ID.Hex(), map[string]any{
		"new_admin_phone": phone,
	})
	respond.JSON(w, http.StatusCreated, toDTO(u))
}
