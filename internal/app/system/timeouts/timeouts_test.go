package timeouts

import (
	"context"
	"testing"
	"time"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default", Medium())
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Ping: time.Minute})
	Reset()
	if Ping() != DefaultPing {
		t.Errorf("Ping() = %v after Reset, want %v", Ping(), DefaultPing)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, nil, "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}
