// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const minJWTSecretLen = 32

// appConfigKeys defines the configuration keys for the admin backend.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: AGRIADMIN_MONGO_URI, AGRIADMIN_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "agribizboost", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tokens
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Access token signing key (at least 32 characters)"},
	{Name: "access_token_ttl", Default: "30m", Desc: "Access token lifetime (e.g., 30m, 1h)"},
	{Name: "refresh_token_ttl", Default: "168h", Desc: "Refresh token lifetime (e.g., 168h)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// SuperAdmin bootstrap
	{Name: "superadmin_phone", Default: "", Desc: "Phone number of the super admin (promotes/creates on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Password used when the super admin account has to be created"},
	{Name: "superadmin_name", Default: "Super Admin", Desc: "Display name used when the super admin account has to be created"},

	// Rate limits
	{Name: "login_ip_limit", Default: 20, Desc: "Login attempts per minute per client IP"},
	{Name: "login_phone_limit", Default: 5, Desc: "Login attempts per 15 minutes per phone number"},

	// CORS
	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to call the API (blank allows any, without credentials)"},

	// Background jobs
	{Name: "token_cleanup_schedule", Default: "@hourly", Desc: "Cron spec for removing stale refresh tokens"},
	{Name: "limiter_sweep_interval", Default: "5m", Desc: "How often idle rate-limit buckets are dropped"},

	// Metrics
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document database work"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for paged lists and counts"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for dashboard aggregation"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, AGRIADMIN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AGRIADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		AccessTokenTTL:  appValues.Duration("access_token_ttl", 30*time.Minute),
		RefreshTokenTTL: appValues.Duration("refresh_token_ttl", 7*24*time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		SuperAdminPhone:    appValues.String("superadmin_phone"),
		SuperAdminPassword: appValues.String("superadmin_password"),
		SuperAdminName:     appValues.String("superadmin_name"),

		LoginIPLimit:    appValues.Int("login_ip_limit"),
		LoginPhoneLimit: appValues.Int("login_phone_limit"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		TokenCleanupSchedule: appValues.String("token_cleanup_schedule"),
		LimiterSweepInterval: appValues.Duration("limiter_sweep_interval", 5*time.Minute),

		MetricsEnabled: appValues.Bool("metrics_enabled"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI, token settings, limits and the cleanup cron spec are
// checked here so mistakes surface before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if len(appCfg.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d characters", minJWTSecretLen)
	}
	if appCfg.AccessTokenTTL <= 0 || appCfg.RefreshTokenTTL <= appCfg.AccessTokenTTL {
		return fmt.Errorf("refresh_token_ttl (%s) must exceed access_token_ttl (%s)", appCfg.RefreshTokenTTL, appCfg.AccessTokenTTL)
	}
	for _, mode := range []string{appCfg.AuditLogAuth, appCfg.AuditLogAdmin} {
		switch mode {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("audit log mode %q must be one of all, db, log, off", mode)
		}
	}
	if appCfg.LoginIPLimit <= 0 || appCfg.LoginPhoneLimit <= 0 {
		return fmt.Errorf("login rate limits must be positive")
	}
	if _, err := cron.ParseStandard(appCfg.TokenCleanupSchedule); err != nil {
		return fmt.Errorf("invalid token_cleanup_schedule: %w", err)
	}
	if appCfg.SuperAdminPhone != "" {
		if _, err := normalize.Phone(appCfg.SuperAdminPhone); err != nil {
			return fmt.Errorf("invalid superadmin_phone: %w", err)
		}
	}
	if appCfg.SuperAdminPhone != "" && appCfg.SuperAdminPassword == "" {
		logger.Warn("superadmin_password not set; the super admin can only be promoted, not created")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.CORSAllowedOrigins) == 0 {
		logger.Warn("cors_allowed_origins is empty in prod; any origin may call the API")
	}
	return nil
}
