package healthassessment

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/app/system/htmlsanitize"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"go.uber.org/zap"
)

// decode reads the crop body and answers 400 itself when it is unusable.
func decode(w http.ResponseWriter, r *http.Request) (dto.CropData, bool) {
	var in dto.CropData
	if err := respond.DecodeJSON(r, &in); err != nil {
		if errors.Is(err, respond.ErrEmptyBody) {
			respond.BadRequest(w, "Request body is required")
			return in, false
		}
		respond.BadRequest(w, "Invalid JSON body")
		return in, false
	}
	if missing := in.Missing(); len(missing) > 0 {
		respond.BadRequest(w, "Missing required fields: "+strings.Join(missing, ", "))
		return in, false
	}
	return in, true
}

// HandleSave handles POST /health-assessment: the record is stored as sent
// and echoed back with its id and timestamp.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}

	rec := models.HealthAssessment{
		CropType:            htmlsanitize.Strip(*in.CropType),
		GovernmentSubsidy:   *in.GovernmentSubsidy,
		SalePricePerQuintal: *in.SalePricePerQuintal,
		TotalCost:           *in.TotalCost,
		QuantitySold:        *in.QuantitySold,
	}
	if u, ok := auth.CurrentUser(r); ok {
		rec.UserID = u.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	saved, err := h.Store.Create(ctx, rec)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to save health assessment", err,
			zap.String("crop_type", rec.CropType))
		return
	}

	respond.OK(w, dto.SavedResponse[models.HealthAssessment]{Message: SavedMessage, Data: saved})
}

// HandleCalculate handles POST /health_assessment. Nothing is stored.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}
	respond.OK(w, Calculate(*in.GovernmentSubsidy, *in.SalePricePerQuintal, *in.TotalCost, *in.QuantitySold))
}
