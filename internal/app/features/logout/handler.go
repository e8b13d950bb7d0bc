// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/refreshtokens"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/app/system/tokens"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log      *zap.Logger
	Refresh  *refreshtokens.Store
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Refresh:  refreshtokens.New(db),
		AuditLog: audit,
	}
}

// HandleLogout handles POST /auth/logout. Unknown or already revoked
// tokens still succeed.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var in dto.RefreshRequest
	if err := respond.DecodeJSON(r, &in); err != nil || in.RefreshToken == "" {
		respond.BadRequest(w, "refresh_token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	hash := tokens.HashRefresh(in.RefreshToken)
	rt, err := h.Refresh.FindValid(ctx, hash, time.Now().UTC())
	if err == nil {
		if _, err := h.Refresh.Revoke(ctx, hash); err != nil {
			respond.ServerError(w, h.Log, "database error", err)
			return
		}
		h.AuditLog.Logout(ctx, r, rt.UserID)
	}

	respond.OK(w, dto.Message{Message: "Successfully logged out"})
}

// HandleLogoutAll handles POST /auth/logout-all for the current user.
func (h *Handler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Detail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Refresh.RevokeAllForUser(ctx, u.ID)
	if err != nil {
		respond.ServerError(w, h.Log, "database error", err)
		return
	}
	h.Log.Info("revoked all refresh tokens", zap.String("user_id", u.ID), zap.Int64("count", n))
	h.AuditLog.Logout(ctx, r, u.ID)

	respond.OK(w, dto.Message{Message: "Successfully logged out from all devices"})
}
