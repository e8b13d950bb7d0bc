// internal/app/features/logout/routes.go
package logout

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AddRoutes registers the logout endpoints on the /auth router.
func AddRoutes(r chi.Router, h *Handler, requireUser func(http.Handler) http.Handler) {
	r.Post("/logout", h.HandleLogout)
	r.With(requireUser).Post("/logout-all", h.HandleLogoutAll)
}
