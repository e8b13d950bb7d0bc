package healthassessment

import (
	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// SaveRoutes mounts at /health-assessment.
func SaveRoutes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()
	r.With(limits.PerMinute(60)).Post("/", h.HandleSave)
	return r
}

// CalculateRoutes mounts at /health_assessment.
func CalculateRoutes(h *Handler, limits *ratelimit.Registry) chi.Router {
	r := chi.NewRouter()
	r.With(limits.PerMinute(60)).Post("/", h.HandleCalculate)
	return r
}
