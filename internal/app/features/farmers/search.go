// internal/app/features/farmers/search.go
package farmers

import (
	"context"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/system/authz"
	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/agribizboost/agriadmin/internal/app/system/respond"
	"github.com/agribizboost/agriadmin/internal/app/system/timeouts"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/dalemusser/waffle/pantry/query"
)

const (
	minQueryLen        = 2
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// ServeSearch handles GET /admin/farmers/search?q=&limit=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	if utf8.RuneCountInString(q) < minQueryLen {
		respond.BadRequest(w, "q must be at least 2 characters")
		return
	}
	limit := defaultSearchLimit
	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxSearchLimit {
			respond.BadRequest(w, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Users.Search(ctx, q, int64(limit))
	if err != nil {
		respond.ServerError(w, h.Log, "failed to search farmers", err)
		return
	}

	results := make([]dto.FarmerSearchResult, 0, len(users))
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = "Unknown"
		}
		results = append(results, dto.FarmerSearchResult{
			ID:          u.ID.Hex(),
			Name:        name,
			PhoneNumber: u.PhoneNumber,
			Location:    u.Location,
			IsActive:    u.IsActive,
		})
	}

	adminID, _ := authz.UserID(r)
	h.AuditLog.Admin(ctx, r, adminID, activity.ActionSearchFarmers, "", map[string]any{
		"query":         q,
		"results_count": len(results),
	})

	respond.OK(w, dto.FarmerSearchResults{Results: results, Count: len(results)})
}
