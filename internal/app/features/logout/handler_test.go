package logout_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/features/logout"
	"github.com/agribizboost/agriadmin/internal/app/store/refreshtokens"
	"github.com/agribizboost/agriadmin/internal/app/system/tokens"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleLogout_RevokesToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := refreshtokens.New(db)
	raw, hash, _ := tokens.NewRefresh()
	if _, err := store.Create(ctx, "u1", hash, time.Hour); err != nil {
		t.Fatalf("Create: %v", err)
	}

	h := logout.NewHandler(db, nil, zap.NewNop())
	rec := testutil.NewRecorder()
	h.HandleLogout(rec, testutil.NewJSONRequest(t, "POST", "/auth/logout", dto.RefreshRequest{RefreshToken: raw}))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Successfully logged out")
	if _, err := store.FindValid(ctx, hash, time.Now()); err == nil {
		t.Error("token should be revoked")
	}

	// logging out again is harmless
	rec = testutil.NewRecorder()
	h.HandleLogout(rec, testutil.NewJSONRequest(t, "POST", "/auth/logout", dto.RefreshRequest{RefreshToken: raw}))
	rec.AssertStatus(t, http.StatusOK)
}

func TestHandleLogout_MissingToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := logout.NewHandler(db, nil, zap.NewNop())

	rec := testutil.NewRecorder()
	h.HandleLogout(rec, testutil.NewJSONRequest(t, "POST", "/auth/logout", map[string]string{}))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleLogoutAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := testutil.Farmer()
	store := refreshtokens.New(db)
	_, _ = store.Create(ctx, user.ID, "h1", time.Hour)
	_, _ = store.Create(ctx, user.ID, "h2", time.Hour)

	h := logout.NewHandler(db, nil, zap.NewNop())
	rec := testutil.NewRecorder()
	h.HandleLogoutAll(rec, testutil.NewAuthenticatedRequest("POST", "/auth/logout-all", user))
	rec.AssertStatus(t, http.StatusOK)

	if _, err := store.FindValid(ctx, "h1", time.Now()); err == nil {
		t.Error("h1 should be revoked")
	}
}
