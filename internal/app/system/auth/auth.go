package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/agribizboost/agriadmin/internal/app/system/tokens"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the authenticated caller, loaded fresh from the users collection
// on every request so revoked privileges take effect immediately.
type User struct {
	ID           string
	Name         string
	Phone        string
	IsActive     bool
	IsAdmin      bool
	IsSuperAdmin bool
	Permissions  []string
}

// Can reports whether the user holds perm. Super admins hold everything.
func (u *User) Can(perm string) bool {
	if u == nil || !u.IsAdmin {
		return false
	}
	return u.IsSuperAdmin || slices.Contains(u.Permissions, perm)
}

// UserFetcher resolves the subject of an access token to a User. It
// returns nil when the account does not exist.
type UserFetcher interface {
	FetchUser(ctx context.Context, phone string) *User
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok && u != nil
}

// WithTestUser puts u into the request context, bypassing token checks.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer middleware                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// Authenticator validates bearer access tokens.
type Authenticator struct {
	tokens *tokens.Issuer
	users  UserFetcher
	log    *zap.Logger
}

// NewAuthenticator builds an Authenticator.
func NewAuthenticator(iss *tokens.Issuer, users UserFetcher, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: iss, users: users, log: logger}
}

// RequireUser rejects requests without a valid bearer token with 401 and
// loads the caller into the request context otherwise.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}

		claims, err := a.tokens.Parse(raw)
		if err != nil {
			if errors.Is(err, tokens.ErrTokenExpired) {
				unauthorized(w, "Token has expired")
				return
			}
			unauthorized(w, "Could not validate credentials")
			return
		}

		u := a.users.FetchUser(r.Context(), claims.Subject)
		if u == nil {
			unauthorized(w, "Could not validate credentials")
			return
		}
		if !u.IsActive {
			a.log.Info("rejected token for inactive user", zap.String("user_id", u.ID))
			writeDetail(w, http.StatusForbidden, "Inactive user")
			return
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// OptionalUser loads the caller when a valid bearer token is present and
// passes anonymous or invalid requests through unchanged.
func (a *Authenticator) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := a.tokens.Parse(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if u := a.users.FetchUser(r.Context(), claims.Subject); u != nil && u.IsActive {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only admins. It must run after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}
		if !u.IsAdmin {
			writeDetail(w, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin allows only super admins.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}
		if !u.IsAdmin || !u.IsSuperAdmin {
			writeDetail(w, http.StatusForbidden, "Access denied. Super admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission allows admins holding perm.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				unauthorized(w, "Not authenticated")
				return
			}
			if !u.Can(perm) {
				writeDetail(w, http.StatusForbidden, "Access denied. Missing required permission: "+perm)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
