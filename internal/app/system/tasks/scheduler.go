// Package tasks runs periodic maintenance jobs on a cron scheduler.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one periodic task, run on a cron Spec ("0 * * * *", "@hourly")
// or, when Spec is empty, every Interval. Run receives a context bounded
// by Timeout.
type Job struct {
	Name     string
	Spec     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs Jobs on a robfig/cron instance. Overlapping runs of the
// same job are skipped and panics are recovered.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler builds an idle Scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:     logger,
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers j, replacing any job of the same name.
func (s *Scheduler) Add(j Job) error {
	sched, err := schedule(j)
	if err != nil {
		return fmt.Errorf("job %s: %w", j.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[j.Name]; ok {
		s.cron.Remove(id)
	}
	s.entries[j.Name] = s.cron.Schedule(sched, cron.FuncJob(func() { _ = s.RunNow(j) }))
	s.log.Info("scheduled job",
		zap.String("job", j.Name),
		zap.String("spec", j.Spec),
		zap.Duration("interval", j.Interval))
	return nil
}

func schedule(j Job) (cron.Schedule, error) {
	if j.Spec != "" {
		return cron.ParseStandard(j.Spec)
	}
	if j.Interval <= 0 {
		return nil, errors.New("either a spec or a positive interval is required")
	}
	return cron.Every(j.Interval), nil
}

// RunNow executes j once on the calling goroutine.
func (s *Scheduler) RunNow(j Job) error {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := j.Run(ctx); err != nil {
		s.log.Error("job failed", zap.String("job", j.Name), zap.Error(err))
		return err
	}
	s.log.Debug("job finished", zap.String("job", j.Name), zap.Duration("took", time.Since(start)))
	return nil
}

// Len reports the number of scheduled jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
