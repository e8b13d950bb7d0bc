// internal/app/features/activitylogs/handler.go
package activitylogs

import (
	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin activity log.
type Handler struct {
	Activity *activity.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Activity: activity.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}
