package workers_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/system/ratelimit"
	"github.com/agribizboost/agriadmin/internal/app/system/workers"
	"go.uber.org/zap"
)

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep(time.Duration) int {
	c.calls.Add(1)
	return 0
}

func TestLimiterSweep_SweepOnce(t *testing.T) {
	l := ratelimit.New(5, time.Minute)
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	time.Sleep(time.Millisecond)

	w := workers.NewLimiterSweep(zap.NewNop(), time.Hour, 0, l)
	if got := w.SweepOnce(); got != 2 {
		t.Errorf("SweepOnce() = %d, want 2", got)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", l.Len())
	}
}

func TestLimiterSweep_RunsOnTicker(t *testing.T) {
	c := &countingSweeper{}
	w := workers.NewLimiterSweep(zap.NewNop(), 10*time.Millisecond, time.Minute, c)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for c.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if c.calls.Load() < 2 {
		t.Errorf("calls = %d, want >= 2", c.calls.Load())
	}
}
