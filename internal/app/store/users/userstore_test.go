package userstore_test

import (
	"context"
	"errors"
	"testing"

	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	"github.com/agribizboost/agriadmin/internal/domain/models"
	"github.com/agribizboost/agriadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_NormalizesPhoneAndName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	created, err := store.Create(ctx, models.User{Name: "  Almaz   Tesfaye ", PhoneNumber: "0911223344", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.PhoneNumber != "+251911223344" {
		t.Errorf("PhoneNumber = %q, want +251 form", created.PhoneNumber)
	}
	if created.Name != "Almaz Tesfaye" {
		t.Errorf("Name = %q", created.Name)
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_DuplicatePhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Name: "A", PhoneNumber: "+251911223344"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := store.Create(ctx, models.User{Name: "B", PhoneNumber: "0911223344"})
	if !errors.Is(err, userstore.ErrDuplicatePhone) {
		t.Errorf("err = %v, want ErrDuplicatePhone", err)
	}
}

func TestStore_GetByPhone_AnyForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateFarmer(ctx, "Local", "0922000000", "Amhara")

	u, err := store.GetByPhone(ctx, "+251922000000")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if u.Name != "Local" {
		t.Errorf("Name = %q", u.Name)
	}

	if _, err := store.GetByPhone(ctx, "+251933000000"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateFarmer(ctx, "Chala", "+251911000001", "West Oromia")
	fx.CreateFarmer(ctx, "Bekele", "+251911000002", "Oromia")
	fx.CreateFarmer(ctx, "Alemu", "+251911000003", "Tigray")

	q := userstore.FarmerQuery{Region: "oromia"}
	n, err := store.Count(ctx, q)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}

	list, err := store.List(ctx, q, "name", false, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Bekele" {
		t.Errorf("List order = %v", names(list))
	}

	page2, _ := store.List(ctx, userstore.FarmerQuery{}, "name", false, 2, 2)
	if len(page2) != 1 || page2[0].Name != "Chala" {
		t.Errorf("page 2 = %v", names(page2))
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateFarmer(ctx, "Tsehay", "+251911555000", "Amhara")
	fx.CreateFarmer(ctx, "Other", "+251922000000", "Amhara")

	byName, _ := store.Search(ctx, "tseh", 10)
	if len(byName) != 1 {
		t.Errorf("search by name found %d", len(byName))
	}
	byPhone, _ := store.Search(ctx, "555", 10)
	if len(byPhone) != 1 {
		t.Errorf("search by phone found %d", len(byPhone))
	}
	// regex metacharacters are literal
	none, _ := store.Search(ctx, ".*", 10)
	if len(none) != 0 {
		t.Errorf("metacharacters should not match everything, got %d", len(none))
	}
}

func TestStore_AdminLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateFarmer(ctx, "Future Admin", "+251911000100", "Sidama")

	if err := store.GrantAdmin(ctx, u.ID, false, []string{"view_all_farmers"}); err != nil {
		t.Fatalf("GrantAdmin: %v", err)
	}
	admins, _ := store.ListAdmins(ctx)
	if len(admins) != 1 || !admins[0].IsAdmin {
		t.Fatalf("ListAdmins = %v", names(admins))
	}

	super := true
	perms := []string{"export_data"}
	if err := store.UpdateAdmin(ctx, u.ID, userstore.AdminUpdate{IsSuperAdmin: &super, Permissions: &perms}); err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}
	got, _ := store.GetByID(ctx, u.ID)
	if !got.IsSuperAdmin || len(got.Permissions) != 1 {
		t.Errorf("after update: super=%v perms=%v", got.IsSuperAdmin, got.Permissions)
	}

	if err := store.RevokeAdmin(ctx, u.ID); err != nil {
		t.Fatalf("RevokeAdmin: %v", err)
	}
	got, _ = store.GetByID(ctx, u.ID)
	if got.IsAdmin || got.IsSuperAdmin {
		t.Error("privileges should be removed")
	}
	if err := store.RevokeAdmin(ctx, u.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("second revoke err = %v, want ErrNotFound", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Boss", "+251911000200", true)
	f := userstore.NewFetcher(db)

	u := f.FetchUser(ctx, "0911000200")
	if u == nil {
		t.Fatal("expected user")
	}
	if u.ID != admin.ID.Hex() || !u.IsSuperAdmin {
		t.Errorf("got %+v", u)
	}
	if f.FetchUser(context.Background(), "+251999999999") != nil {
		t.Error("unknown phone should return nil")
	}
}

func names(us []models.User) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.Name
	}
	return out
}
