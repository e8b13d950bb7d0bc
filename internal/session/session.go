// Package session holds the signed-in admin for the lifetime of the
// process, backed by the persisted token store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/agribizboost/agriadmin/internal/client/tokenstore"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"go.uber.org/zap"
)

// User is the locally known admin. Only the phone number is confirmed by
// the server at login; the rest is a local placeholder.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// API is the part of the admin client the session needs.
type API interface {
	Login(ctx context.Context, phone, password string) (*dto.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context) error
}

// ErrMissingCredentials is returned by Login for a blank phone or password.
var ErrMissingCredentials = errors.New("phone number and password are required")

// Session is safe for concurrent use.
type Session struct {
	api     API
	store   tokenstore.Store
	log     *zap.Logger
	onLeave func()

	mu      sync.RWMutex
	user    *User
	loading bool
}

// New returns a Session in the loading state; call Restore to settle it.
// onLogout runs after every logout (the "go to login" step); it may be nil.
func New(api API, store tokenstore.Store, logger *zap.Logger, onLogout func()) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{api: api, store: store, log: logger, onLeave: onLogout, loading: true}
}

// Restore loads the persisted user when both an access token and user
// data are stored. Corrupt user data is discarded with the access token.
func (s *Session) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	tok, hasTok := s.store.Get(tokenstore.AccessToken)
	raw, hasUser := s.store.Get(tokenstore.UserData)
	if !hasTok || tok == "" || !hasUser || raw == "" {
		return
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn("discarding unreadable user data", zap.Error(err))
		if err := s.store.Delete(tokenstore.AccessToken, tokenstore.UserData); err != nil {
			s.log.Warn("clear stored credentials", zap.Error(err))
		}
		return
	}
	s.user = &u
}

// Login exchanges credentials for tokens, persists them and records a
// local user for phone.
func (s *Session) Login(ctx context.Context, phone, password string) error {
	if phone == "" || password == "" {
		return ErrMissingCredentials
	}

	s.setLoading(true)
	defer s.setLoading(false)

	pair, err := s.api.Login(ctx, phone, password)
	if err != nil {
		s.log.Debug("login failed", zap.String("phone", phone), zap.Error(err))
		return err
	}

	u := User{ID: "1", Name: "Admin User", Phone: phone, Role: "Super Admin"}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.store.Set(tokenstore.AccessToken, pair.AccessToken); err != nil {
		return err
	}
	if err := s.store.Set(tokenstore.RefreshToken, pair.RefreshToken); err != nil {
		return err
	}
	if err := s.store.Set(tokenstore.UserData, string(raw)); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.log.Debug("login succeeded", zap.String("phone", phone))
	return nil
}

// Logout revokes the refresh token on a best-effort basis, clears the
// persisted state and runs the logout hook.
func (s *Session) Logout(ctx context.Context) {
	if rt, ok := s.store.Get(tokenstore.RefreshToken); ok && rt != "" {
		if err := s.api.Logout(ctx, rt); err != nil {
			s.log.Debug("server logout failed", zap.Error(err))
		}
	}
	if err := tokenstore.Clear(s.store); err != nil {
		s.log.Warn("clear stored credentials", zap.Error(err))
	}
	s.Expire()
}

// Expire forgets the in-memory user and runs the logout hook. The API
// client calls it after it has already cleared the stored credentials.
func (s *Session) Expire() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if s.onLeave != nil {
		s.onLeave()
	}
}

// RefreshToken renews the token pair and logs out when that fails.
func (s *Session) RefreshToken(ctx context.Context) error {
	if err := s.api.RefreshToken(ctx); err != nil {
		s.log.Debug("token refresh failed", zap.Error(err))
		s.Logout(ctx)
		return err
	}
	return nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoading reports whether Restore or Login is in progress.
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
