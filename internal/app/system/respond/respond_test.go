package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Detail(rec, http.StatusTeapot, "short and stout")

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"detail":"short and stout"}` {
		t.Errorf("body = %s", got)
	}
}

func TestServerError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	ServerError(rec, nil, "database error", errors.New("connection refused to 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("internal error leaked to client")
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ A int }

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"A": 3}`))
	if err := DecodeJSON(r, &v); err != nil || v.A != 3 {
		t.Errorf("DecodeJSON = %v, A=%d", err, v.A)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(``))
	if err := DecodeJSON(r, &v); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("empty body err = %v", err)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	if err := DecodeJSON(r, &v); err == nil {
		t.Error("expected error for malformed body")
	}
}
