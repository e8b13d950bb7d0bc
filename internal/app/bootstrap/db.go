// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/system/indexes"
	"github.com/agribizboost/agriadmin/internal/app/system/middleware"
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/app/system/tasks"
	"github.com/agribizboost/agriadmin/internal/app/system/validators"
	"github.com/agribizboost/agriadmin/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens the MongoDB client, verifies it with a ping and builds
// the shared Runtime.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("agriadmin").
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Runtime:       newRuntime(appCfg, logger),
	}, nil
}

func newRuntime(appCfg AppConfig, logger *zap.Logger) *Runtime {
	limits := ratelimit.NewRegistry()
	login := ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, time.Minute, appCfg.LoginPhoneLimit, 15*time.Minute)

	rt := &Runtime{
		Limits:       limits,
		LoginLimiter: login,
		Jobs:         tasks.NewScheduler(logger),
		Sweeper:      workers.NewLimiterSweep(logger, appCfg.LimiterSweepInterval, 30*time.Minute, limits, login),
	}
	if appCfg.MetricsEnabled {
		rt.Metrics = middleware.NewMetrics()
	}
	return rt
}

// EnsureSchema creates collections with their validators, then reconciles
// the indexes every store declares.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("collection validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index reconciliation failed", zap.Error(err))
		return err
	}
	return nil
}
