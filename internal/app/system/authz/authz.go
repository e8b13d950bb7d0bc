// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// UserID returns the caller's id and whether a caller is present.
func UserID(r *http.Request) (string, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", false
	}
	return u.ID, true
}

// IsSuperAdmin reports whether the caller is a super admin.
func IsSuperAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsAdmin && u.IsSuperAdmin
}

// IsAdmin reports whether the caller is an admin of any kind.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsAdmin
}

// Can reports whether the caller holds perm.
func Can(r *http.Request, perm string) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.Can(perm)
}

// CanViewLogsOf reports whether the caller may read activity logs of
// userID. Super admins may read anyone's; other admins only their own.
func CanViewLogsOf(r *http.Request, userID string) bool {
	if IsSuperAdmin(r) {
		return true
	}
	me, ok := UserID(r)
	return ok && userID != "" && userID == me
}

// SanitizePermissions keeps known permissions, drops duplicates and
// preserves the canonical order.
func SanitizePermissions(in []string) []string {
	want := make(map[string]bool, len(in))
	for _, p := range in {
		want[p] = true
	}
	out := make([]string, 0, len(in))
	for _, p := range dto.AllPermissions {
		if want[p] {
			out = append(out, p)
		}
	}
	return out
}

// EffectivePermissions is what an admin can actually do: everything for
// super admins, their stored list otherwise.
func EffectivePermissions(isSuper bool, stored []string) []string {
	if isSuper {
		return append([]string(nil), dto.AllPermissions...)
	}
	return SanitizePermissions(stored)
}
