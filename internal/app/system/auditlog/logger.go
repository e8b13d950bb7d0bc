// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.uber.org/zap"
)

// Config holds activity logging configuration.
type Config struct {
	// Auth controls logging for login, logout and token refresh events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin dashboard actions.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger records activity entries to MongoDB (via activity.Store) and to
// structured logs (via zap).
type Logger struct {
	store  *activity.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new activity Logger.
func New(store *activity.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(e models.ActivityLog) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("service", e.Service),
		zap.String("action", e.Action),
		zap.String("status", e.Status),
		zap.String("ip", e.IPAddress),
	}
	if e.UserID != "" {
		fields = append(fields, zap.String("user_id", e.UserID))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.Any("detail_"+k, v))
	}

	if e.Status == activity.StatusFailure {
		l.zapLog.Warn("activity", fields...)
	} else {
		l.zapLog.Info("activity", fields...)
	}
}

// Log records an entry based on configuration.
// A nil Logger is a no-op so handlers can be tested without one.
func (l *Logger) Log(ctx context.Context, e models.ActivityLog) {
	if l == nil {
		return
	}

	var setting string
	switch e.Service {
	case activity.ServiceAuth:
		setting = l.config.Auth
	case activity.ServiceAdminDashboard:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(e)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, e); err != nil {
			l.zapLog.Error("failed to store activity entry",
				zap.Error(err),
				zap.String("action", e.Action),
			)
		}
	}
}

func fromRequest(r *http.Request, e models.ActivityLog) models.ActivityLog {
	if r != nil {
		e.IPAddress = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	if e.Status == "" {
		e.Status = activity.StatusSuccess
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, phone string) {
	l.Log(ctx, fromRequest(r, models.ActivityLog{
		UserID:  userID,
		Action:  activity.ActionLogin,
		Service: activity.ServiceAuth,
		Details: map[string]any{"phone_number": phone},
	}))
}

// LoginFailed logs a rejected login. userID is empty when the phone
// number matched no account.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, userID, phone, reason string) {
	l.Log(ctx, fromRequest(r, models.ActivityLog{
		UserID:  userID,
		Action:  activity.ActionLoginFailed,
		Service: activity.ServiceAuth,
		Status:  activity.StatusFailure,
		Details: map[string]any{"phone_number": phone, "reason": reason},
	}))
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, fromRequest(r, models.ActivityLog{
		UserID:  userID,
		Action:  activity.ActionLogout,
		Service: activity.ServiceAuth,
	}))
}

// TokenRefresh logs a refresh token exchange.
func (l *Logger) TokenRefresh(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, fromRequest(r, models.ActivityLog{
		UserID:  userID,
		Action:  activity.ActionTokenRefresh,
		Service: activity.ServiceAuth,
	}))
}

// --- Admin Events ---

// Admin logs an admin dashboard action. targetUserID, when set, is added
// to details as target_user_id.
func (l *Logger) Admin(ctx context.Context, r *http.Request, adminID, action, targetUserID string, details map[string]any) {
	d := make(map[string]any, len(details)+1)
	for k, v := range details {
		d[k] = v
	}
	if targetUserID != "" {
		d["target_user_id"] = targetUserID
	}
	if len(d) == 0 {
		d = nil
	}
	l.Log(ctx, fromRequest(r, models.ActivityLog{
		UserID:  adminID,
		Action:  action,
		Service: activity.ServiceAdminDashboard,
		Details: d,
	}))
}
