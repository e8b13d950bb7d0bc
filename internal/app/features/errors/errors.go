// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/system/respond"
)

// Handler answers requests the router cannot match.
// No DB needed.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound is the router's fallback for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.NotFound(w, "Not Found")
}

// MethodNotAllowed is the router's fallback for known paths hit with the
// wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Detail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
