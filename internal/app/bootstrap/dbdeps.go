// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/agribizboost/agriadmin/internal/app/system/middleware"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/app/system/tasks"
	"github.com/agribizboost/agriadmin/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app, plus the
// process-wide helpers that Startup, BuildHandler and Shutdown share.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Runtime *Runtime
}

// Runtime is built once in ConnectDB. Startup starts the background work,
// BuildHandler hands the limiters to routes and Shutdown stops everything.
type Runtime struct {
	Limits       *ratelimit.Registry
	LoginLimiter *ratelimit.LoginLimiter
	Jobs         *tasks.Scheduler
	Sweeper      *workers.LimiterSweep
	Metrics      *middleware.Metrics
}
