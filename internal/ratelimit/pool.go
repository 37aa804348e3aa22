package ratelimit

import (
	"sort"
	"sync"

	"github.com/maauso/jobsync-api/internal/source"
)

// Pool hands out one long-lived Limiter per adapter name.
type Pool struct {
	fallback source.FallbackProvider
	opts     []Option

	mu       sync.Mutex
	limiters map[string]*Limiter
}

// NewPool creates a pool whose limiters share fallback and opts.
func NewPool(fallback source.FallbackProvider, opts ...Option) *Pool {
	return &Pool{
		fallback: fallback,
		opts:     opts,
		limiters: make(map[string]*Limiter),
	}
}

// For returns the limiter for adapter, creating it on first use.
func (p *Pool) For(adapter source.Adapter) *Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[adapter.Name()]; ok {
		return l
	}
	l := New(adapter, p.fallback, p.opts...)
	p.limiters[adapter.Name()] = l
	return l
}

// States returns the state of every limiter, sorted by source.
func (p *Pool) States() []State {
	p.mu.Lock()
	limiters := make([]*Limiter, 0, len(p.limiters))
	for _, l := range p.limiters {
		limiters = append(limiters, l)
	}
	p.mu.Unlock()

	out := make([]State, 0, len(limiters))
	for _, l := range limiters {
		out = append(out, l.State())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}
