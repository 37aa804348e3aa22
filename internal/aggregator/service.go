// Package aggregator runs sync cycles: it pulls postings from the configured
// sources through their rate limiters, normalizes and deduplicates them,
// replaces the job cache and notifies subscribers.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/dedup"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/normalize"
	"github.com/maauso/jobsync-api/internal/notify"
	"github.com/maauso/jobsync-api/internal/ratelimit"
	"github.com/maauso/jobsync-api/internal/scheduler"
	"github.com/maauso/jobsync-api/internal/source"
)

// Static errors for service operations.
var (
	// ErrNotInitialized is returned by operations that need a configuration.
	ErrNotInitialized = errors.New("aggregator: not initialized")
	// ErrSyncRunning is returned by RefreshFromSource while a cycle is in progress.
	ErrSyncRunning = errors.New("aggregator: sync already running")
)

// DefaultInterCallDelay is the pause between two provider calls within a source.
const DefaultInterCallDelay = 500 * time.Millisecond

// Service owns the job cache and the sync status.
type Service struct {
	registry       *source.Registry
	limiters       *ratelimit.Pool
	normalizer     *normalize.Normalizer
	store          job.Store
	notifier       *notify.Registry
	scheduler      scheduler.Scheduler
	clock          clock.Clock
	logger         *slog.Logger
	interCallDelay time.Duration

	running atomic.Bool

	mu          sync.RWMutex
	cfg         Configuration
	status      Status
	initialized bool
	runCtx      context.Context
}

// Option configures a Service.
type Option func(*Service)

// WithStore sets the job cache.
func WithStore(store job.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithNotifier sets the subscriber registry.
func WithNotifier(n *notify.Registry) Option {
	return func(s *Service) { s.notifier = n }
}

// WithScheduler sets the periodic trigger.
func WithScheduler(sch scheduler.Scheduler) Option {
	return func(s *Service) { s.scheduler = sch }
}

// WithClock sets the clock used for delays and timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithLimiters sets the rate limiter pool.
func WithLimiters(p *ratelimit.Pool) Option {
	return func(s *Service) { s.limiters = p }
}

// WithNormalizer sets the normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) { s.normalizer = n }
}

// WithInterCallDelay sets the pause between provider calls.
func WithInterCallDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.interCallDelay = d
		}
	}
}

// NewService creates a Service over the adapters in registry.
// Dependencies not supplied through options get in-process defaults.
func NewService(registry *source.Registry, opts ...Option) *Service {
	s := &Service{
		registry:       registry,
		interCallDelay: DefaultInterCallDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.store == nil {
		s.store = job.NewMemoryStore()
	}
	if s.notifier == nil {
		s.notifier = notify.NewRegistry(s.logger)
	}
	if s.scheduler == nil {
		s.scheduler = scheduler.NewCron(s.logger)
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New(normalize.WithClock(s.clock))
	}
	if s.limiters == nil {
		s.limiters = ratelimit.NewPool(source.StaticFallback{},
			ratelimit.WithClock(s.clock),
			ratelimit.WithLogger(s.logger),
		)
	}
	s.status = Status{}.clone()
	return s
}

// Initialize stores cfg, runs one sync cycle and starts the scheduler when
// cfg.AutoRefresh is set. Cycles run detached from ctx's cancellation so a
// cycle in progress always completes; Cleanup stops further cycles.
func (s *Service) Initialize(ctx context.Context, cfg Configuration) error {
	if err := s.checkConfiguration(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg.clone()
	s.initialized = true
	s.runCtx = context.WithoutCancel(ctx)
	runCtx := s.runCtx
	s.mu.Unlock()

	s.logger.Info("aggregator initialized",
		slog.Any("sources", cfg.Sources),
		slog.Int("interval_minutes", cfg.SyncIntervalMinutes),
		slog.Bool("auto_refresh", cfg.AutoRefresh),
	)

	s.PerformSync(runCtx)
	return s.applySchedule(cfg)
}

func (s *Service) checkConfiguration(cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, name := range cfg.Sources {
		if _, err := s.registry.Get(name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
	}
	return nil
}

func (s *Service) applySchedule(cfg Configuration) error {
	if !cfg.AutoRefresh {
		s.scheduler.Stop()
		return nil
	}
	return s.scheduler.Start(cfg.Interval(), s.scheduledSync)
}

func (s *Service) scheduledSync() {
	s.mu.RLock()
	ctx := s.runCtx
	s.mu.RUnlock()
	if ctx == nil {
		return
	}
	s.PerformSync(ctx)
}

// sourceResult is what one source contributed to a cycle.
type sourceResult struct {
	jobs     []job.Job
	skipped  int
	degraded bool
}

// PerformSync runs one sync cycle. If a cycle is already running it returns
// the current status without starting another.
func (s *Service) PerformSync(ctx context.Context) Status {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Info("sync already running, skipping")
		return s.Status()
	}
	defer s.running.Store(false)

	s.mu.Lock()
	cfg := s.cfg.clone()
	initialized := s.initialized
	s.status.IsRunning = true
	s.status.Errors = []string{}
	s.status.SuccessfulSources = []string{}
	s.status.FailedSources = []string{}
	s.mu.Unlock()

	if !initialized {
		s.mu.Lock()
		s.status.IsRunning = false
		s.status.Errors = []string{ErrNotInitialized.Error()}
		st := s.status.clone()
		s.mu.Unlock()
		return s.withSourceStates(st)
	}

	started := s.clock.Now()
	s.logger.Info("sync started", slog.Int("sources", len(cfg.Sources)))

	next := Status{
		SuccessfulSources: []string{},
		FailedSources:     []string{},
		Errors:            []string{},
	}
	var all []job.Job
	for _, name := range cfg.Sources {
		res, err := s.syncFromSource(ctx, name, cfg)
		if err != nil {
			next.FailedSources = append(next.FailedSources, name)
			next.Errors = append(next.Errors, fmt.Sprintf("%s: %v", name, err))
			s.logger.Warn("source sync failed",
				slog.String("source", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		next.SuccessfulSources = append(next.SuccessfulSources, name)
		if res.degraded {
			next.DegradedSources = append(next.DegradedSources, name)
		}
		next.SkippedRecords += res.skipped
		all = append(all, res.jobs...)
	}

	if cfg.EnableDeduplication {
		all, next.DuplicatesRemoved = dedup.Deduplicate(all)
	}
	s.store.Replace(all)

	finished := s.clock.Now()
	next.LastSyncTime = finished
	next.NextSyncTime = finished.Add(cfg.Interval())
	next.TotalJobsSynced = len(all)

	s.mu.Lock()
	s.status = next
	s.mu.Unlock()

	if failed := s.notifier.Publish(ctx, all); failed > 0 {
		s.logger.Warn("some subscribers failed", slog.Int("failed", failed))
	}

	s.logger.Info("sync completed",
		slog.Int("jobs", next.TotalJobsSynced),
		slog.Int("succeeded", len(next.SuccessfulSources)),
		slog.Int("failed", len(next.FailedSources)),
		slog.Int("duplicates_removed", next.DuplicatesRemoved),
		slog.Duration("took", finished.Sub(started)),
	)
	return s.withSourceStates(next.clone())
}

// syncFromSource fetches every (term, location) pair from one source, up to
// cfg.MaxJobsPerSource records, and normalizes them.
func (s *Service) syncFromSource(ctx context.Context, name string, cfg Configuration) (sourceResult, error) {
	adapter, err := s.registry.Get(name)
	if err != nil {
		return sourceResult{}, err
	}
	limiter := s.limiters.For(adapter)

	var (
		records  []source.RawRecord
		degraded bool
		calls    int
	)
fetch:
	for _, term := range cfg.SearchQueries {
		for _, location := range cfg.Locations {
			remaining := cfg.MaxJobsPerSource - len(records)
			if remaining <= 0 {
				break fetch
			}
			if calls > 0 {
				if err := s.clock.Sleep(ctx, s.interCallDelay); err != nil {
					return sourceResult{}, fmt.Errorf("%w: %s: %w", source.ErrProviderUnavailable, name, err)
				}
			}
			calls++

			res, err := limiter.Call(ctx, term, location, remaining)
			if err != nil {
				return sourceResult{}, err
			}
			if len(res.Records) > remaining {
				res.Records = res.Records[:remaining]
			}
			records = append(records, res.Records...)
			if res.Degraded {
				// Every further call in this cycle would hit the same cool-down.
				degraded = true
				break fetch
			}
		}
	}

	jobs, skipped := s.normalizer.NormalizeAll(records)
	for _, sk := range skipped {
		s.logger.Warn("skipping malformed record",
			slog.String("source", sk.Source),
			slog.String("provider_id", sk.ProviderID),
			slog.String("error", sk.Err.Error()),
		)
	}
	s.logger.Debug("source synced",
		slog.String("source", name),
		slog.Int("calls", calls),
		slog.Int("records", len(records)),
		slog.Int("jobs", len(jobs)),
	)
	return sourceResult{jobs: jobs, skipped: len(skipped), degraded: degraded}, nil
}

// RefreshFromSource syncs a single source outside the regular cycle. Its
// fresh jobs replace that source's previous entries in the cache. It returns
// the source's jobs as cached after the merge.
func (s *Service) RefreshFromSource(ctx context.Context, name string) ([]job.Job, error) {
	s.mu.RLock()
	cfg := s.cfg.clone()
	initialized := s.initialized
	s.mu.RUnlock()
	if !initialized {
		return nil, ErrNotInitialized
	}
	if _, err := s.registry.Get(name); err != nil {
		return nil, err
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncRunning
	}
	defer s.running.Store(false)

	res, err := s.syncFromSource(ctx, name, cfg)
	if err != nil {
		s.logger.Warn("source refresh failed",
			slog.String("source", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	current := s.store.All()
	merged := make([]job.Job, 0, len(current)+len(res.jobs))
	for _, j := range current {
		if j.Source != name {
			merged = append(merged, j)
		}
	}
	merged = append(merged, res.jobs...)
	if cfg.EnableDeduplication {
		merged, _ = dedup.Deduplicate(merged)
	}
	s.store.Replace(merged)

	s.mu.Lock()
	s.status.TotalJobsSynced = len(merged)
	s.mu.Unlock()

	s.notifier.Publish(ctx, merged)
	s.logger.Info("source refreshed",
		slog.String("source", name),
		slog.Int("jobs", len(res.jobs)),
		slog.Int("total", len(merged)),
	)
	return s.store.FindBySource(name), nil
}

// FilteredJobs returns the cached jobs matching f.
func (s *Service) FilteredJobs(f job.Filters) []job.Job {
	return f.Apply(s.store.All())
}

// Job returns one cached job.
func (s *Service) Job(id int64) (job.Job, error) {
	return s.store.FindByID(id)
}

// JobStatistics aggregates the current cache.
func (s *Service) JobStatistics() job.Statistics {
	return job.ComputeStatistics(s.store.All())
}

// Status returns a copy of the sync status.
func (s *Service) Status() Status {
	s.mu.RLock()
	st := s.status.clone()
	s.mu.RUnlock()
	st.IsRunning = s.running.Load()
	return s.withSourceStates(st)
}

func (s *Service) withSourceStates(st Status) Status {
	st.SourceStates = s.limiters.States()
	return st
}

// Configuration returns a copy of the active configuration.
func (s *Service) Configuration() Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.clone()
}

// Sources returns the identifiers of every registered adapter.
func (s *Service) Sources() []string {
	return s.registry.Sources()
}

// UpdateConfiguration merges u into the active configuration. Toggling
// AutoRefresh starts or stops the scheduler; changing the interval while
// running restarts it.
func (s *Service) UpdateConfiguration(u ConfigurationUpdate) (Configuration, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return Configuration{}, ErrNotInitialized
	}
	next := u.Apply(s.cfg)
	if err := s.checkConfiguration(next); err != nil {
		s.mu.Unlock()
		return Configuration{}, err
	}
	s.cfg = next.clone()
	s.mu.Unlock()

	if err := s.applySchedule(next); err != nil {
		return Configuration{}, err
	}
	s.logger.Info("configuration updated",
		slog.Any("sources", next.Sources),
		slog.Int("interval_minutes", next.SyncIntervalMinutes),
		slog.Bool("auto_refresh", next.AutoRefresh),
	)
	return next, nil
}

// Subscribe registers h for the job list of every completed cycle.
func (s *Service) Subscribe(h notify.Handler) notify.Handle {
	return s.notifier.Subscribe(h)
}

// Unsubscribe removes a subscription.
func (s *Service) Unsubscribe(handle notify.Handle) bool {
	return s.notifier.Unsubscribe(handle)
}

// Initialized reports whether Initialize has been called since the last Cleanup.
func (s *Service) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// SchedulerRunning reports whether periodic syncs are active.
func (s *Service) SchedulerRunning() bool {
	return s.scheduler.Running()
}

// Cleanup stops the scheduler and clears the cache and the subscribers.
func (s *Service) Cleanup() {
	s.scheduler.Stop()
	s.store.Clear()
	s.notifier.Clear()

	s.mu.Lock()
	s.initialized = false
	s.runCtx = nil
	s.mu.Unlock()
	s.logger.Info("aggregator cleaned up")
}
