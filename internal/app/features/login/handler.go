// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/refreshtokens"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/app/system/tokens"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgCredentialsRequired = "Phone number and password are required"
	msgBadCredentials      = "Incorrect phone number or password"
	msgInvalidRefresh      = "Invalid refresh token"
)

type Handler struct {
	Users    *userstore.Store
	Refresh  *refreshtokens.Store
	Issuer   *tokens.Issuer
	Limiter  *ratelimit.LoginLimiter
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, iss *tokens.Issuer, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Refresh:  refreshtokens.New(db),
		Issuer:   iss,
		Limiter:  limiter,
		AuditLog: audit,
		Log:      logger,
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respond.Detail(w, http.StatusUnauthorized, msg)
}

// issue signs an access token and stores a fresh refresh token for u.
func (h *Handler) issue(ctx context.Context, u *models.User) (dto.TokenPair, error) {
	access, err := h.Issuer.Access(u.ID.Hex(), u.PhoneNumber)
	if err != nil {
		return dto.TokenPair{}, err
	}
	raw, hash, err := tokens.NewRefresh()
	if err != nil {
		return dto.TokenPair{}, err
	}
	if _, err := h.Refresh.Create(ctx, u.ID.Hex(), hash, h.Issuer.RefreshTTL()); err != nil {
		return dto.TokenPair{}, err
	}
	return dto.TokenPair{AccessToken: access, RefreshToken: raw, TokenType: "bearer"}, nil
}

// HandleLogin handles POST /auth/login-with-json.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginRequest
	if err := respond.DecodeJSON(r, &in); err != nil && !errors.Is(err, respond.ErrEmptyBody) {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	in.PhoneNumber = normalize.QueryParam(in.PhoneNumber)
	if in.PhoneNumber == "" || in.Password == "" {
		respond.BadRequest(w, msgCredentialsRequired)
		return
	}

	limitKey := in.PhoneNumber
	if p, err := normalize.Phone(in.PhoneNumber); err == nil {
		limitKey = p
	}
	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, limitKey); !ok {
			h.AuditLog.LoginFailed(r.Context(), r, "", limitKey, "rate limited")
			respond.Detail(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByPhone(ctx, in.PhoneNumber)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailed(ctx, r, "", limitKey, "user not found")
		unauthorized(w, msgBadCredentials)
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "database error", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(in.Password)) != nil {
		h.AuditLog.LoginFailed(ctx, r, u.ID.Hex(), u.PhoneNumber, "wrong password")
		unauthorized(w, msgBadCredentials)
		return
	}
	if !u.IsActive {
		h.AuditLog.LoginFailed(ctx, r, u.ID.Hex(), u.PhoneNumber, "inactive user")
		respond.Forbidden(w, "Inactive user")
		return
	}

	pair, err := h.issue(ctx, u)
	if err != nil {
		respond.ServerError(w, h.Log, "could not issue tokens", err)
		return
	}

	if err := h.Users.TouchLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
		h.Log.Warn("login: update last_login", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	if h.Limiter != nil {
		h.Limiter.ResetPhone(limitKey)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID.Hex(), u.PhoneNumber)

	respond.OK(w, pair)
}

// HandleRefresh handles POST /auth/refresh. The presented token is
// revoked and a new pair is returned.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var in dto.RefreshRequest
	if err := respond.DecodeJSON(r, &in); err != nil || in.RefreshToken == "" {
		unauthorized(w, msgInvalidRefresh)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	hash := tokens.HashRefresh(in.RefreshToken)
	rt, err := h.Refresh.FindValid(ctx, hash, time.Now().UTC())
	if errors.Is(err, refreshtokens.ErrNotFound) {
		unauthorized(w, msgInvalidRefresh)
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "database error", err)
		return
	}

	u, err := h.Users.GetByHex(ctx, rt.UserID)
	if errors.Is(err, userstore.ErrNotFound) {
		unauthorized(w, "User not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "database error", err)
		return
	}
	if !u.IsActive {
		h.Log.Info("refresh rejected for inactive user", zap.String("user_id", rt.UserID))
		respond.Forbidden(w, "Inactive user")
		return
	}

	// A refresh token mints at most one pair.
	revoked, err := h.Refresh.Revoke(ctx, hash)
	if err != nil {
		respond.ServerError(w, h.Log, "database error", err)
		return
	}
	if !revoked {
		unauthorized(w, msgInvalidRefresh)
		return
	}

	pair, err := h.issue(ctx, u)
	if err != nil {
		respond.ServerError(w, h.Log, "could not issue tokens", err)
		return
	}
	h.AuditLog.TokenRefresh(ctx, r, rt.UserID)
	respond.OK(w, pair)
}

// ServeMe handles GET /auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		unauthorized(w, "Not authenticated")
		return
	}
	perms := []string{}
	if u.IsAdmin {
		perms = authz.EffectivePermissions(u.IsSuperAdmin, u.Permissions)
	}
	respond.OK(w, dto.CurrentUser{
		ID:           u.ID,
		Name:         u.Name,
		PhoneNumber:  u.Phone,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
		Permissions:  perms,
	})
}
