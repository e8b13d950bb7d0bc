package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	url       string
	tokens    string
	downloads string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer a1" {
				writeJSON(w, http.StatusUnauthorized, dto.ErrorBody{Detail: "Not authenticated"})
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login-with-json", func(w http.ResponseWriter, r *http.Request) {
		var in dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.PhoneNumber != "+251911000001" || in.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorBody{Detail: "Incorrect phone number or password"})
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenPair{AccessToken: "a1", RefreshToken: "r1", TokenType: "bearer"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.Message{Message: "Successfully logged out"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorBody{Detail: "Invalid refresh token"})
	})
	mux.HandleFunc("GET /auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.CurrentUser{Name: "Root", PhoneNumber: "+251911000001", IsAdmin: true, IsSuperAdmin: true})
	}))
	mux.HandleFunc("GET /admin/dashboard/summary", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.DashboardSummary{
			TotalFarmers:         12,
			ActiveFarmers:        9,
			AuthUsage:            dto.AuthUsage{TotalLogins: 30},
			ExpenseTrackingUsage: dto.ExpenseTrackingUsage{TotalEntries: 5},
			RegionalDistribution: map[string]int64{"Oromia": 12},
			TimeFilter:           dto.TimeFilter(r.URL.Query().Get("time_filter")),
		})
	}))
	mux.HandleFunc("GET /admin/farmers", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.FarmersPage{
			Farmers: []dto.FarmerData{
				{Activity: dto.FarmerActivity{UserID: "f1", Name: "Abebe, Kebede", PhoneNumber: "+251911000010", Location: "Oromia", IsActive: true}, RiskLevel: dto.RiskLow, EngagementScore: 64},
				{Activity: dto.FarmerActivity{UserID: "f2", Name: "Almaz", PhoneNumber: "+251911000011", Location: "Amhara"}, RiskLevel: dto.RiskHigh, NeedsAttention: true},
			},
			TotalCount: 40, Page: 1, PageSize: 20, TotalPages: 2,
		})
	}))
	mux.HandleFunc("GET /admin/users", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.AdminUsers{Users: []dto.AdminUser{
			{ID: "u1", Name: "Root", PhoneNumber: "+251911000001", IsAdmin: true, IsSuperAdmin: true, IsActive: true},
		}, Count: 1})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newEnv(t *testing.T, url string) env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return env{
		url:       url,
		tokens:    filepath.Join(home, "session.json"),
		downloads: filepath.Join(home, "downloads"),
	}
}

func (e env) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	args = append(args, "--api-url", e.url, "--token-file", e.tokens, "--out-dir", e.downloads)
	var out, errw bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &out, &errw)
	return code, out.String(), errw.String()
}

func TestUsageAndBadFlags(t *testing.T) {
	var errw bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}, &errw))
	assert.Contains(t, errw.String(), "usage: agriadminctl")

	e := newEnv(t, "http://127.0.0.1:1")
	code, _, stderr := e.run(t, "", "dashboard", "--no-such-flag")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: agriadminctl dashboard")

	code, _, _ = e.run(t, "", "bogus")
	assert.Equal(t, 2, code)
}

func TestLoginDashboardLogout(t *testing.T) {
	srv := backend(t)
	e := newEnv(t, srv.URL)

	code, _, stderr := e.run(t, "", "dashboard")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Not signed in")

	code, _, stderr = e.run(t, "wrong\n", "login", "--phone", "+251911000001")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Incorrect phone number or password")

	code, stdout, _ := e.run(t, "secret\n", "login", "--phone", "+251911000001")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed in as +251911000001 (Super Admin)")

	raw, err := os.ReadFile(e.tokens)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"access_token": "a1"`)

	code, stdout, _ = e.run(t, "", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Admin User")
	assert.Contains(t, stdout, "super=yes")

	code, stdout, _ = e.run(t, "", "dashboard", "-t", "weekly", "--export", "txt")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Dashboard (weekly)")
	assert.Contains(t, stdout, "35") // 30 logins + 5 entries
	assert.Contains(t, stdout, "Saved ")

	files, err := filepath.Glob(filepath.Join(e.downloads, "dashboard_weekly_*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	report, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(report), "AgriBizBoost Dashboard Report")

	code, _, _ = e.run(t, "", "logout")
	require.Equal(t, 0, code)
	code, stdout, _ = e.run(t, "", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Not signed in.")
}

func TestFarmersExportCSV(t *testing.T) {
	srv := backend(t)
	e := newEnv(t, srv.URL)
	code, _, _ := e.run(t, "", "login", "--phone", "+251911000001", "--password", "secret")
	require.Equal(t, 0, code)

	code, stdout, _ := e.run(t, "", "farmers", "--risk", "high")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Almaz")
	assert.NotContains(t, stdout, "Abebe")
	assert.Contains(t, stdout, "Showing 1 of 40 farmers (page 1 of 2)")

	code, _, _ = e.run(t, "", "farmers", "-e", "csv")
	require.Equal(t, 0, code)
	files, err := filepath.Glob(filepath.Join(e.downloads, "farmers_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	blob, err := os.ReadFile(files[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(blob)), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"Abebe, Kebede"`)
}

func TestAdminsList(t *testing.T) {
	srv := backend(t)
	e := newEnv(t, srv.URL)
	code, _, _ := e.run(t, "", "login", "--phone", "+251911000001", "--password", "secret")
	require.Equal(t, 0, code)

	code, stdout, _ := e.run(t, "", "admins", "list", "-e", "json")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "total 1  active 1  super 1  regional 0")
	files, _ := filepath.Glob(filepath.Join(e.downloads, "admins_*.json"))
	assert.Len(t, files, 1)

	code, _, stderr := e.run(t, "", "admins", "create", "--name", "X")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "create needs")
}

func TestExpiredSessionLogsOut(t *testing.T) {
	srv := backend(t)
	e := newEnv(t, srv.URL)
	code, _, _ := e.run(t, "", "login", "--phone", "+251911000001", "--password", "secret")
	require.Equal(t, 0, code)

	// Swap in a token the server rejects; refresh also fails.
	raw, err := os.ReadFile(e.tokens)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.tokens, bytes.Replace(raw, []byte(`"a1"`), []byte(`"stale"`), 1), 0o600))

	code, _, stderr := e.run(t, "", "dashboard")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Signed out.")
	assert.Contains(t, stderr, "agriadminctl login")

	code, stdout, _ := e.run(t, "", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Not signed in.")
}

func TestNetworkFailureHint(t *testing.T) {
	srv := backend(t)
	e := newEnv(t, srv.URL)
	code, _, _ := e.run(t, "", "login", "--phone", "+251911000001", "--password", "secret")
	require.Equal(t, 0, code)

	srv.Close()
	code, _, stderr := e.run(t, "", "analytics")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Unable to connect to the server")
	assert.Contains(t, stderr, "retry: agriadminctl analytics")
}
