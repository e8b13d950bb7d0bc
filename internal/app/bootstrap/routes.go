// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activitylogsfeature "github.com/agribizboost/agriadmin/internal/app/features/activitylogs"
	adminusersfeature "github.com/agribizboost/agriadmin/internal/app/features/adminusers"
	dashboardfeature "github.com/agribizboost/agriadmin/internal/app/features/dashboard"
	errorsfeature "github.com/agribizboost/agriadmin/internal/app/features/errors"
	farmersfeature "github.com/agribizboost/agriadmin/internal/app/features/farmers"
	healthfeature "github.com/agribizboost/agriadmin/internal/app/features/health"
	healthassessmentfeature "github.com/agribizboost/agriadmin/internal/app/features/healthassessment"
	loginfeature "github.com/agribizboost/agriadmin/internal/app/features/login"
	logoutfeature "github.com/agribizboost/agriadmin/internal/app/features/logout"
	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/middleware"
	"github.com/agribizboost/agriadmin/internal/app/system/tokens"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the MongoDB handles and the shared Runtime
//   - logger: the fully configured zap.Logger for this app
//
// The router layers request ids, access logging, panic recovery, CORS and
// metrics, then mounts the public token endpoints, the mobile-app
// health-assessment endpoints and the bearer-protected /admin tree.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	rt := deps.Runtime

	issuer := tokens.NewIssuer(appCfg.JWTSecret, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL)

	// The fetcher reloads the caller on every request, so deactivations and
	// permission changes take effect immediately.
	authn := auth.NewAuthenticator(issuer, userstore.NewFetcher(db), logger)

	audit := auditlog.New(activity.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(appCfg.CORSAllowedOrigins))
	if rt.Metrics != nil {
		r.Use(rt.Metrics.Middleware)
		r.Handle("/metrics", rt.Metrics.Handler())
	}
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Token endpoints
	loginHandler := loginfeature.NewHandler(db, issuer, rt.LoginLimiter, audit, logger)
	logoutHandler := logoutfeature.NewHandler(db, audit, logger)
	r.Route("/auth", func(ar chi.Router) {
		loginfeature.AddRoutes(ar, loginHandler, authn.RequireUser)
		logoutfeature.AddRoutes(ar, logoutHandler, authn.RequireUser)
	})

	// Mobile-app health assessment: anonymous callers allowed, attributed
	// when a token is sent.
	haHandler := healthassessmentfeature.NewHandler(db, logger)
	r.With(authn.OptionalUser).Mount("/health-assessment", healthassessmentfeature.SaveRoutes(haHandler, rt.Limits))
	r.Mount("/health_assessment", healthassessmentfeature.CalculateRoutes(haHandler, rt.Limits))

	// Admin API: every route needs a valid bearer token; features add
	// their own admin/permission guards.
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(authn.RequireUser)

		dashboardHandler := dashboardfeature.NewHandler(db, audit, logger)
		ar.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, rt.Limits))
		ar.Mount("/trends", dashboardfeature.TrendRoutes(dashboardHandler, rt.Limits))

		farmersHandler := farmersfeature.NewHandler(db, audit, logger)
		ar.Mount("/farmers", farmersfeature.Routes(farmersHandler, rt.Limits))

		logsHandler := activitylogsfeature.NewHandler(db, audit, logger)
		ar.Mount("/activity-logs", activitylogsfeature.Routes(logsHandler, rt.Limits))

		adminsHandler := adminusersfeature.NewHandler(db, audit, logger)
		ar.Mount("/users", adminusersfeature.Routes(adminsHandler, rt.Limits))

		ar.With(auth.RequireAdmin).Get("/health", healthHandler.ServeAdmin)
	})

	return r, nil
}
