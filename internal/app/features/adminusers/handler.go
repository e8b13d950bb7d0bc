// internal/app/features/adminusers/handler.go
package adminusers

import (
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/app/system/auditlog"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves admin account management under /admin/users.
type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	// BcryptCost hashes passwords of newly created accounts.
	BcryptCost int
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		AuditLog:   audit,
		Log:        logger,
		BcryptCost: bcrypt.DefaultCost,
	}
}

func toDTO(u models.User) dto.AdminUser {
	return dto.AdminUser{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		PhoneNumber:  u.PhoneNumber,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
		Permissions:  authz.EffectivePermissions(u.IsSuperAdmin, u.Permissions),
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}
