// Package notify delivers refreshed job lists to registered subscribers.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/maauso/jobsync-api/internal/job"
)

// Handle identifies a subscription.
type Handle string

// Handler receives the job list produced by a sync cycle.
// Handlers must not modify jobs; each call gets its own copy.
type Handler interface {
	HandleJobs(ctx context.Context, jobs []job.Job) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, jobs []job.Job) error

// HandleJobs calls f.
func (f HandlerFunc) HandleJobs(ctx context.Context, jobs []job.Job) error {
	return f(ctx, jobs)
}

type subscription struct {
	handle  Handle
	handler Handler
}

// Registry keeps subscribers in registration order.
type Registry struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Subscribe registers h and returns the handle that removes it.
func (r *Registry) Subscribe(h Handler) Handle {
	handle := Handle(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, subscription{handle: handle, handler: h})
	return handle
}

// Unsubscribe removes the subscription. It reports whether it existed.
func (r *Registry) Unsubscribe(handle Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.handle == handle {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish calls every handler in registration order. A handler that fails
// or panics is logged and does not affect the others. It returns the number
// of handlers that failed.
func (r *Registry) Publish(ctx context.Context, jobs []job.Job) int {
	r.mu.RLock()
	subs := append([]subscription(nil), r.subs...)
	r.mu.RUnlock()

	failed := 0
	for _, s := range subs {
		if err := r.deliver(ctx, s, job.CloneAll(jobs)); err != nil {
			failed++
			r.logger.Error("subscriber failed",
				slog.String("handle", string(s.handle)),
				slog.String("error", err.Error()),
			)
		}
	}
	return failed
}

func (r *Registry) deliver(ctx context.Context, s subscription, jobs []job.Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("notify: subscriber panic: %v", rec)
		}
	}()
	return s.handler.HandleJobs(ctx, jobs)
}

// Len returns the number of subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Clear removes every subscriber.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = nil
}
