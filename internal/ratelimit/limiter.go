// Package ratelimit guards provider adapters with a minimum call interval and
// a cool-down breaker that serves degraded records after a rate-limit response.
// Spacing is a one-token bucket from golang.org/x/time/rate driven by the
// injected clock.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/source"
	"golang.org/x/time/rate"
)

const (
	// DefaultMinInterval is the minimum spacing between two calls to one provider.
	DefaultMinInterval = time.Second
	// DefaultCooldown is how long a provider is skipped after a rate-limit response.
	DefaultCooldown = 5 * time.Minute
)

// Result is the outcome of a guarded call.
type Result struct {
	Records []source.RawRecord
	HasMore bool
	// Degraded is true when Records came from the fallback provider.
	Degraded bool
}

// State is a point-in-time view of a limiter.
type State struct {
	Source        string    `json:"source"`
	LastCallAt    time.Time `json:"lastCallAt,omitempty"`
	CooldownUntil time.Time `json:"cooldownUntil,omitempty"`
	CoolingDown   bool      `json:"coolingDown"`
	RateLimitHits int       `json:"rateLimitHits"`
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the clock used for spacing and cool-down checks.
func WithClock(c clock.Clock) Option {
	return func(l *Limiter) {
		l.clock = c
	}
}

// WithMinInterval sets the minimum spacing between calls.
func WithMinInterval(d time.Duration) Option {
	return func(l *Limiter) {
		if d >= 0 {
			l.minInterval = d
		}
	}
}

// WithCooldown sets the cool-down applied after a rate-limit response.
func WithCooldown(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.cooldown = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Limiter wraps one adapter. It is safe for concurrent use.
type Limiter struct {
	adapter     source.Adapter
	fallback    source.FallbackProvider
	clock       clock.Clock
	minInterval time.Duration
	cooldown    time.Duration
	logger      *slog.Logger

	mu            sync.Mutex
	spacing       *rate.Limiter
	lastCallAt    time.Time
	cooldownUntil time.Time
	hits          int
}

// New creates a Limiter for adapter serving fallback records during cool-down.
func New(adapter source.Adapter, fallback source.FallbackProvider, opts ...Option) *Limiter {
	l := &Limiter{
		adapter:     adapter,
		fallback:    fallback,
		clock:       clock.Real{},
		minInterval: DefaultMinInterval,
		cooldown:    DefaultCooldown,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.spacing = newSpacing(l.minInterval)
	return l
}

// newSpacing admits one call immediately, then one per interval.
// A zero interval yields rate.Inf, which never delays.
func newSpacing(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Source returns the wrapped adapter's name.
func (l *Limiter) Source() string { return l.adapter.Name() }

// Call invokes the adapter unless the limiter is cooling down.
// A rate-limit response starts the cool-down and yields fallback records
// with a nil error. Other adapter errors are returned unchanged.
func (l *Limiter) Call(ctx context.Context, searchTerm, location string, pageSize int) (Result, error) {
	name := l.adapter.Name()

	l.mu.Lock()
	now := l.clock.Now()
	if now.Before(l.cooldownUntil) {
		until := l.cooldownUntil
		l.mu.Unlock()
		l.logger.Debug("provider cooling down, serving fallback",
			slog.String("source", name),
			slog.Time("until", until),
		)
		return l.degraded(searchTerm, location), nil
	}
	// Reserve the next slot so concurrent callers queue behind it.
	wait := l.spacing.ReserveN(now, 1).DelayFrom(now)
	l.lastCallAt = now.Add(wait)
	l.mu.Unlock()

	if err := l.clock.Sleep(ctx, wait); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", source.ErrProviderUnavailable, name, err)
	}

	records, hasMore, err := l.adapter.Fetch(ctx, searchTerm, location, pageSize)
	if err == nil {
		return Result{Records: records, HasMore: hasMore}, nil
	}
	if !errors.Is(err, source.ErrRateLimited) {
		return Result{}, err
	}

	l.mu.Lock()
	l.cooldownUntil = l.clock.Now().Add(l.cooldown)
	l.hits++
	until := l.cooldownUntil
	l.mu.Unlock()

	l.logger.Warn("provider rate limited, cooling down",
		slog.String("source", name),
		slog.Time("until", until),
		slog.String("error", err.Error()),
	)
	return l.degraded(searchTerm, location), nil
}

func (l *Limiter) degraded(searchTerm, location string) Result {
	var records []source.RawRecord
	if l.fallback != nil {
		records = l.fallback.Fallback(l.adapter.Name(), searchTerm, location)
	}
	return Result{Records: records, Degraded: true}
}

// State returns a copy of the limiter's state.
func (l *Limiter) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		Source:        l.adapter.Name(),
		LastCallAt:    l.lastCallAt,
		CooldownUntil: l.cooldownUntil,
		CoolingDown:   l.clock.Now().Before(l.cooldownUntil),
		RateLimitHits: l.hits,
	}
}

// Reset clears the cool-down and call history.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastCallAt = time.Time{}
	l.cooldownUntil = time.Time{}
	l.spacing = newSpacing(l.minInterval)
}
