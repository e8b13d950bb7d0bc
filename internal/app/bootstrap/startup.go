// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/agribizboost/agriadmin/internal/app/store/refreshtokens"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/tasks"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: handler
// timeouts, the super admin seed and the background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminPhone, appCfg.SuperAdminPassword, appCfg.SuperAdminName, logger); err != nil {
		logger.Error("super admin bootstrap failed", zap.Error(err))
		return err
	}

	rt := deps.Runtime
	if err := rt.Jobs.Add(tasks.RefreshTokenCleanupJob(refreshtokens.New(deps.MongoDatabase), appCfg.TokenCleanupSchedule, logger)); err != nil {
		return err
	}
	rt.Jobs.Start()
	rt.Sweeper.Start()
	return nil
}

// ensureSuperAdmin makes sure the configured phone number belongs to a
// super admin. An existing account is promoted; otherwise one is created
// with the configured password. A blank phone disables the seed.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, phone, password, name string, logger *zap.Logger) error {
	if phone == "" {
		return nil
	}
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.IsAdmin && existing.IsSuperAdmin && existing.IsActive {
			logger.Debug("super admin already present", zap.String("user_id", existing.ID.Hex()))
			return nil
		}
		if err := users.GrantAdmin(ctx, existing.ID, true, dto.AllPermissions); err != nil {
			return fmt.Errorf("promote super admin: %w", err)
		}
		logger.Info("promoted existing user to super admin", zap.String("user_id", existing.ID.Hex()))
		return nil
	case !errors.Is(err, userstore.ErrNotFound):
		return fmt.Errorf("look up super admin: %w", err)
	}

	if password == "" {
		logger.Warn("super admin account missing and no password configured; skipping creation")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}
	u, err := users.Create(ctx, models.User{
		Name:           name,
		PhoneNumber:    phone,
		HashedPassword: string(hash),
		IsActive:       true,
		IsAdmin:        true,
		IsSuperAdmin:   true,
		Permissions:    dto.AllPermissions,
	})
	if err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}
	logger.Info("created super admin", zap.String("user_id", u.ID.Hex()))
	return nil
}
