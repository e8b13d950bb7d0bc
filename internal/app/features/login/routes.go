// internal/app/features/login/routes.go
package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AddRoutes registers the token endpoints on the /auth router.
// requireUser guards GET /me.
func AddRoutes(r chi.Router, h *Handler, requireUser func(http.Handler) http.Handler) {
	r.Post("/login-with-json", h.HandleLogin)
	r.Post("/refresh", h.HandleRefresh)
	r.With(requireUser).Get("/me", h.ServeMe)
}
