// Package scheduler triggers a function periodically. Cron runs on
// robfig/cron; Manual is driven explicitly, for tests.
package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidInterval is returned when Start is called with a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Scheduler runs a function at a fixed interval.
// Start and Stop are idempotent. Starting a running scheduler with a
// different interval restarts it.
type Scheduler interface {
	Start(interval time.Duration, fn func()) error
	Stop()
	Running() bool
	Interval() time.Duration
}

// Cron is a Scheduler backed by robfig/cron with an "@every" spec.
// Overlapping runs are skipped.
type Cron struct {
	mu       sync.Mutex
	cron     *cron.Cron
	interval time.Duration
	logger   *slog.Logger
}

// NewCron creates a stopped Cron scheduler.
func NewCron(logger *slog.Logger) *Cron {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cron{logger: logger}
}

// Compile-time check that Cron implements Scheduler.
var _ Scheduler = (*Cron)(nil)

// Start schedules fn every interval.
func (c *Cron) Start(interval time.Duration, fn func()) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		if c.interval == interval {
			return nil
		}
		c.cron.Stop()
		c.cron = nil
	}

	l := cronLogger{logger: c.logger}
	cr := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := cr.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("scheduler: add func %q: %w", spec, err)
	}
	cr.Start()

	c.cron = cr
	c.interval = interval
	c.logger.Info("scheduler started", slog.String("spec", spec))
	return nil
}

// Stop cancels future runs. A run in progress is not interrupted.
func (c *Cron) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron == nil {
		return
	}
	c.cron.Stop()
	c.cron = nil
	c.interval = 0
	c.logger.Info("scheduler stopped")
}

// Running reports whether the scheduler is started.
func (c *Cron) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cron != nil
}

// Interval returns the active interval, or zero when stopped.
func (c *Cron) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}

// Manual is a Scheduler that only runs when Tick is called.
type Manual struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	starts   int
}

// NewManual creates a stopped Manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Compile-time check that Manual implements Scheduler.
var _ Scheduler = (*Manual)(nil)

// Start registers fn. Restarting with a new interval counts as a new start.
func (m *Manual) Start(interval time.Duration, fn func()) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fn != nil && m.interval == interval {
		return nil
	}
	m.fn = fn
	m.interval = interval
	m.starts++
	return nil
}

// Stop unregisters the function.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = nil
	m.interval = 0
}

// Running reports whether a function is registered.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

// Interval returns the registered interval, or zero when stopped.
func (m *Manual) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Starts returns how many times the scheduler was (re)started.
func (m *Manual) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Tick runs the registered function synchronously. It reports whether
// anything ran.
func (m *Manual) Tick() bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
