package tokens

import (
	"errors"
	"testing"
	"time"
)

func TestAccess_RoundTrip(t *testing.T) {
	iss := NewIssuer("test-secret-that-is-long-enough-123456", time.Minute, time.Hour)

	raw, err := iss.Access("abc123", "+251911223344")
	if err != nil {
		t.Fatalf("Access: %v", err)
	}
	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "+251911223344" || claims.UserID != "abc123" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParse_Expired(t *testing.T) {
	iss := NewIssuer("test-secret-that-is-long-enough-123456", time.Minute, time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := iss.Access("abc123", "+251911223344")
	if err != nil {
		t.Fatal(err)
	}

	iss.now = time.Now
	if _, err := iss.Parse(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	a := NewIssuer("secret-a-secret-a-secret-a-secret-a", time.Minute, time.Hour)
	b := NewIssuer("secret-b-secret-b-secret-b-secret-b", time.Minute, time.Hour)
	raw, _ := a.Access("u", "p")

	if _, err := b.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
	if _, err := b.Parse("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage: err = %v", err)
	}
}

func TestNewRefresh(t *testing.T) {
	raw1, hash1, err := NewRefresh()
	if err != nil {
		t.Fatal(err)
	}
	raw2, _, _ := NewRefresh()
	if raw1 == raw2 {
		t.Error("refresh tokens must be unique")
	}
	if HashRefresh(raw1) != hash1 {
		t.Error("hash must be deterministic")
	}
	if hash1 == raw1 {
		t.Error("hash must differ from raw token")
	}
}
