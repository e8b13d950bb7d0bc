// internal/app/features/dashboard/handler.go
package dashboard

import (
	"github.com/agribizboost/agriadmin/internal/app/store/queries/dashboardqueries"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Queries  *dashboardqueries.Queries
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Queries:  dashboardqueries.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}
