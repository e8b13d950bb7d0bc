// internal/app/features/farmers/handler.go
package farmers

import (
	"github.com/agribizboost/agriadmin/internal/app/store/queries/dashboardqueries"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the /admin/farmers endpoints.
type Handler struct {
	Queries  *dashboardqueries.Queries
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Queries:  dashboardqueries.New(db),
		Users:    userstore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}
