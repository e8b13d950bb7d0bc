package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agribizboost/agriadmin/internal/app/system/auth"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SuperAdmin returns a super admin caller.
func SuperAdmin() *auth.User {
	return &auth.User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         "Test Super Admin",
		Phone:        "+251911000001",
		IsActive:     true,
		IsAdmin:      true,
		IsSuperAdmin: true,
		Permissions:  dto.AllPermissions,
	}
}

// Admin returns an admin caller holding perms.
func Admin(perms ...string) *auth.User {
	return &auth.User{
		ID:          primitive.NewObjectID().Hex(),
		Name:        "Test Admin",
		Phone:       "+251911000002",
		IsActive:    true,
		IsAdmin:     true,
		Permissions: perms,
	}
}

// Farmer returns a caller without admin rights.
func Farmer() *auth.User {
	return &auth.User{
		ID:       primitive.NewObjectID().Hex(),
		Name:     "Test Farmer",
		Phone:    "+251911000003",
		IsActive: true,
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with u in context.
func NewAuthenticatedRequest(method, target string, u *auth.User) *http.Request {
	return auth.WithTestUser(httptest.NewRequest(method, target, nil), u)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// AssertDetail checks a {"detail": ...} error body.
func (r *ResponseRecorder) AssertDetail(t interface{ Errorf(string, ...any) }, expected string) {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Body.Bytes(), &body); err != nil {
		t.Errorf("decode detail: %v", err)
		return
	}
	if body.Detail != expected {
		t.Errorf("detail: got %q, want %q", body.Detail, expected)
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, r.Body.String())
	}
}
