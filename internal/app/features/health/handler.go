package health

import (
	"context"
	"net/http"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// AdminServiceName identifies the admin service in health responses.
const AdminServiceName = "admin_dashboard"

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
	now    func() time.Time
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Log:    logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return h.Client.Ping(ctx, readpref.Primary())
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "timestamp":"…" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthStatus{
		Status:    "ok",
		Database:  "connected",
		Timestamp: h.now(),
	}

	if err := h.ping(r.Context()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		respond.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	respond.OK(w, resp)
}

// ServeAdmin handles GET /admin/health. It reports "healthy" while the
// database answers and "degraded" (still 200) when it does not, so the
// monitoring page can show both states.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthStatus{
		Status:    "healthy",
		Service:   AdminServiceName,
		Database:  "connected",
		Timestamp: h.now(),
	}
	if err := h.ping(r.Context()); err != nil {
		h.Log.Warn("admin health: mongo ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
	}
	respond.OK(w, resp)
}
