// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig carries everything specific to the admin backend: the
// MongoDB connection, token signing, audit logging, the super admin seed,
// rate limits, background jobs and handler timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name shared with the farmer-facing services
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret       string        // HMAC key for access tokens (>= 32 bytes)
	AccessTokenTTL  time.Duration // access token lifetime
	RefreshTokenTTL time.Duration // refresh token lifetime

	// Activity logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// SuperAdmin bootstrap (skipped when the phone is blank)
	SuperAdminPhone    string
	SuperAdminPassword string
	SuperAdminName     string

	// Login throttling
	LoginIPLimit    int // attempts per minute per client IP
	LoginPhoneLimit int // attempts per 15 minutes per phone number

	// Browser access to the API
	CORSAllowedOrigins []string

	// Background jobs
	TokenCleanupSchedule string        // cron spec for the refresh-token cleanup
	LimiterSweepInterval time.Duration // how often idle rate-limit buckets are dropped

	// Prometheus metrics at /metrics
	MetricsEnabled bool

	// Handler timeouts (zero keeps the default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
