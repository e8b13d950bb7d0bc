package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/agribizboost/agriadmin/internal/client"
	"github.com/agribizboost/agriadmin/internal/client/tokenstore"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorBody{Detail: msg})
}

func newClient(t *testing.T, h http.Handler) (*client.Client, *tokenstore.Memory, *atomic.Int32) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemory()
	var logouts atomic.Int32
	c := client.New(srv.URL, store, client.WithLogoutHook(func() { logouts.Add(1) }))
	return c, store, &logouts
}

func seed(t *testing.T, s tokenstore.Store, access, refresh string) {
	t.Helper()
	if access != "" {
		require.NoError(t, s.Set(tokenstore.AccessToken, access))
	}
	if refresh != "" {
		require.NoError(t, s.Set(tokenstore.RefreshToken, refresh))
	}
	require.NoError(t, s.Set(tokenstore.UserData, `{"id":"1"}`))
}

func TestAuthHeader_OnlyWhenTokenStored(t *testing.T) {
	var seen atomic.Value
	c, store, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, dto.DashboardSummary{TotalFarmers: 3})
	}))
	ctx := context.Background()

	_, err := c.DashboardSummary(ctx, dto.TimeMonthly)
	require.NoError(t, err)
	assert.Equal(t, "", seen.Load())

	require.NoError(t, store.Set(tokenstore.AccessToken, "abc"))
	got, err := c.DashboardSummary(ctx, dto.TimeMonthly)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", seen.Load())
	assert.EqualValues(t, 3, got.TotalFarmers)
}

func TestUnauthorized_RefreshesOnceAndReplays(t *testing.T) {
	var summaryCalls, refreshCalls atomic.Int32
	var refreshAuth atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		summaryCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			detail(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		writeJSON(w, http.StatusOK, dto.DashboardSummary{ActiveFarmers: 7})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		refreshAuth.Store(r.Header.Get("Authorization"))
		var in dto.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.RefreshToken != "r1" {
			detail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenPair{AccessToken: "fresh", RefreshToken: "r2", TokenType: "bearer"})
	})

	c, store, logouts := newClient(t, mux)
	seed(t, store, "stale", "r1")

	got, err := c.DashboardSummary(context.Background(), dto.TimeAll)
	require.NoError(t, err)
	assert.EqualValues(t, 7, got.ActiveFarmers)

	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.EqualValues(t, 2, summaryCalls.Load())
	assert.Equal(t, "", refreshAuth.Load(), "refresh must not carry the stale bearer")
	assert.EqualValues(t, 0, logouts.Load())

	access, _ := store.Get(tokenstore.AccessToken)
	refresh, _ := store.Get(tokenstore.RefreshToken)
	assert.Equal(t, "fresh", access)
	assert.Equal(t, "r2", refresh)
}

func TestUnauthorized_SecondRejectionLogsOut(t *testing.T) {
	var summaryCalls, refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		summaryCalls.Add(1)
		detail(w, http.StatusUnauthorized, "Could not validate credentials")
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, dto.TokenPair{AccessToken: "a2", RefreshToken: "r2"})
	})

	c, store, logouts := newClient(t, mux)
	seed(t, store, "a1", "r1")

	_, err := c.AdminUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, client.StatusOf(err))
	assert.Equal(t, "Could not validate credentials", err.Error())

	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.EqualValues(t, 2, summaryCalls.Load())
	assert.EqualValues(t, 1, logouts.Load())
	for _, k := range []string{tokenstore.AccessToken, tokenstore.RefreshToken, tokenstore.UserData} {
		_, ok := store.Get(k)
		assert.False(t, ok, "%s should be cleared", k)
	}
}

func TestUnauthorized_RefreshFailureLogsOut(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/health", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		detail(w, http.StatusUnauthorized, "Token has expired")
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		detail(w, http.StatusUnauthorized, "Invalid refresh token")
	})

	c, store, logouts := newClient(t, mux)
	seed(t, store, "a1", "r1")

	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, client.StatusOf(err))
	assert.EqualValues(t, 1, calls.Load(), "no replay after a failed refresh")
	assert.EqualValues(t, 1, logouts.Load())
	_, ok := store.Get(tokenstore.AccessToken)
	assert.False(t, ok)
}

func TestUnauthorized_NoRefreshTokenLogsOut(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/farmers", func(w http.ResponseWriter, r *http.Request) {
		detail(w, http.StatusUnauthorized, "Not authenticated")
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	c, store, logouts := newClient(t, mux)
	seed(t, store, "a1", "")

	_, err := c.Farmers(context.Background(), dto.FarmerFilters{})
	require.Error(t, err)
	assert.EqualValues(t, 0, refreshCalls.Load())
	assert.EqualValues(t, 1, logouts.Load())
}

func TestLogin_BypassesInterceptor(t *testing.T) {
	var refreshCalls atomic.Int32
	var loginAuth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login-with-json", func(w http.ResponseWriter, r *http.Request) {
		loginAuth.Store(r.Header.Get("Authorization"))
		var in dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret" {
			detail(w, http.StatusUnauthorized, "Incorrect phone number or password")
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "bearer"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	c, store, logouts := newClient(t, mux)
	seed(t, store, "old", "old-r")
	ctx := context.Background()

	_, err := c.Login(ctx, "+251911000001", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect phone number or password", err.Error())
	assert.Equal(t, "", loginAuth.Load())
	assert.EqualValues(t, 0, refreshCalls.Load())
	assert.EqualValues(t, 0, logouts.Load())

	pair, err := c.Login(ctx, "+251911000001", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "r", pair.RefreshToken)
}

func TestHTTPError_Detail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/farmers/missing", func(w http.ResponseWriter, r *http.Request) {
		detail(w, http.StatusNotFound, "Farmer not found")
	})
	mux.HandleFunc("/admin/farmers/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c, _, _ := newClient(t, mux)
	ctx := context.Background()

	_, err := c.Farmer(ctx, "missing", dto.TimeAll)
	var he *client.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Farmer not found", he.Detail)

	_, err = c.Farmer(ctx, "broken", dto.TimeAll)
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "HTTP error! status: 502", err.Error())
	assert.False(t, errors.Is(err, client.ErrNetwork))
}

func TestHTTPError_RawBodyTrimmedOnRuneBoundary(t *testing.T) {
	// 100 three-byte runes; byte 200 falls inside the 67th.
	page := strings.Repeat("ሀ", 100)
	c, _, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(page))
	}))

	_, err := c.Farmer(context.Background(), "any", dto.TimeAll)
	var he *client.HTTPError
	require.ErrorAs(t, err, &he)
	assert.True(t, utf8.ValidString(he.Detail), "detail must stay valid UTF-8")
	assert.LessOrEqual(t, len(he.Detail), 200)
	assert.Equal(t, strings.Repeat("ሀ", 66), he.Detail)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(url, tokenstore.NewMemory())
	_, err := c.DashboardSummary(context.Background(), dto.TimeAll)
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrNetwork))
	var ne *client.NetworkError
	assert.ErrorAs(t, err, &ne)

	_, err = c.Login(context.Background(), "p", "x")
	assert.True(t, errors.Is(err, client.ErrNetwork))
}

func TestCanceledContext_NotNetworkError(t *testing.T) {
	c, _, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.DashboardSummary{})
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.DashboardSummary(ctx, dto.TimeAll)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, client.ErrNetwork))
}

func TestFarmers_QueryEncoding(t *testing.T) {
	var raw atomic.Value
	c, _, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw.Store(r.URL.RawQuery)
		writeJSON(w, http.StatusOK, dto.FarmersPage{Page: 2, PageSize: 20})
	}))

	active := true
	minScore := 12.5
	_, err := c.Farmers(context.Background(), dto.FarmerFilters{
		Region:             "Oromia",
		IsActive:           &active,
		MinEngagementScore: &minScore,
		Page:               2,
		PageSize:           20,
		SortBy:             "engagement_score",
		SortOrder:          "desc",
	})
	require.NoError(t, err)

	rawQuery, ok := raw.Load().(string)
	require.True(t, ok, "server saw no request")
	q, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oromia"}, q["region"])
	assert.Equal(t, []string{"true"}, q["is_active"])
	assert.Equal(t, []string{"12.5"}, q["min_engagement_score"])
	assert.Equal(t, []string{"2"}, q["page"])
	assert.Equal(t, []string{"engagement_score"}, q["sort_by"])
	assert.NotContains(t, q, "time_filter")
	assert.NotContains(t, q, "needs_attention")
}

func TestAdminUsers_CRUD(t *testing.T) {
	type hit struct{ method, path string }
	hits := make(chan hit, 8)

	c, store, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- hit{r.Method, r.URL.Path}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, dto.AdminUsers{Users: []dto.AdminUser{{ID: "u1", Name: "Abebe"}}, Count: 1})
		case http.MethodPost:
			var in dto.CreateAdminRequest
			_ = json.NewDecoder(r.Body).Decode(&in)
			writeJSON(w, http.StatusCreated, dto.AdminUser{ID: "u2", Name: in.Name, IsAdmin: true})
		case http.MethodPut:
			writeJSON(w, http.StatusOK, dto.AdminUser{ID: "u2", Name: "Renamed"})
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, dto.Message{Message: "Admin privileges removed successfully"})
		}
	}))
	seed(t, store, "a", "r")
	ctx := context.Background()

	users, err := c.AdminUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Abebe", users[0].Name)

	created, err := c.CreateAdminUser(ctx, dto.CreateAdminRequest{Name: "Sara", PhoneNumber: "+251911000002", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Sara", created.Name)

	name := "Renamed"
	updated, err := c.UpdateAdminUser(ctx, "u2", dto.UpdateAdminRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, c.DeleteAdminUser(ctx, "u2"))

	want := []hit{
		{http.MethodGet, "/admin/users"},
		{http.MethodPost, "/admin/users"},
		{http.MethodPut, "/admin/users/u2"},
		{http.MethodDelete, "/admin/users/u2"},
	}
	for _, w := range want {
		assert.Equal(t, w, <-hits)
	}
}
