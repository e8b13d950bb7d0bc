// internal/app/system/workers/limitersweep.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper holds per-key state that can go idle.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// LimiterSweep is a background worker that drops idle rate-limit buckets
// so the per-IP and per-phone maps do not grow without bound.
type LimiterSweep struct {
	sweepers []Sweeper
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLimiterSweep creates a sweeper worker.
//
// Parameters:
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 5 minutes)
//   - idle: how long a bucket must be untouched before it is dropped
//   - sweepers: the limiters to sweep
func NewLimiterSweep(logger *zap.Logger, interval, idle time.Duration, sweepers ...Sweeper) *LimiterSweep {
	return &LimiterSweep{
		sweepers: sweepers,
		log:      logger,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *LimiterSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("limiter sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle", w.idle))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *LimiterSweep) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("limiter sweep worker stopped")
}

func (w *LimiterSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce sweeps every limiter now and returns the number of buckets
// dropped.
func (w *LimiterSweep) SweepOnce() int {
	n := 0
	for _, s := range w.sweepers {
		n += s.Sweep(w.idle)
	}
	if n > 0 {
		w.log.Debug("dropped idle rate-limit buckets", zap.Int("count", n))
	}
	return n
}
