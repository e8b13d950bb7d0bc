package tasks

import (
	"context"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/refreshtokens"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// RefreshTokenCleanupJob removes expired and revoked refresh tokens on
// the cron spec, hourly when spec is empty.
func RefreshTokenCleanupJob(store *refreshtokens.Store, spec string, logger *zap.Logger) Job {
	return Job{
		Name:     "refresh-token-cleanup",
		Spec:     spec,
		Interval: time.Hour,
		Timeout:  timeouts.Batch(),
		Run: func(ctx context.Context) error {
			count, err := store.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("removed stale refresh tokens", zap.Int64("count", count))
			}
			return nil
		},
	}
}
