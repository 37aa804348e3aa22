// Package publish mirrors the aggregated job list into Redis so that other
// services can read the latest snapshot and react to sync events.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/notify"
)

const (
	// DefaultJobsKey holds the JSON array of the latest job list.
	DefaultJobsKey = "jobsync:jobs"
	// DefaultChannel receives one SyncEvent per published job list.
	DefaultChannel = "jobsync:events"
)

// SyncEvent is the message published after each job list update.
type SyncEvent struct {
	Type      string         `json:"type"`
	Count     int            `json:"count"`
	Sources   map[string]int `json:"sources"`
	Timestamp time.Time      `json:"timestamp"`
}

// redisClient is the subset of *redis.Client used by the publisher.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher implements notify.Handler on top of Redis.
type RedisPublisher struct {
	rdb     redisClient
	key     string
	channel string
	ttl     time.Duration
	clock   clock.Clock
	logger  *slog.Logger
}

// Option configures a RedisPublisher.
type Option func(*RedisPublisher)

// WithKey sets the key the job list is stored under.
func WithKey(key string) Option {
	return func(p *RedisPublisher) { p.key = key }
}

// WithChannel sets the pub/sub channel for sync events.
func WithChannel(channel string) Option {
	return func(p *RedisPublisher) { p.channel = channel }
}

// WithTTL sets an expiration on the stored job list. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(p *RedisPublisher) { p.ttl = ttl }
}

// WithClock sets the clock used for event timestamps.
func WithClock(c clock.Clock) Option {
	return func(p *RedisPublisher) { p.clock = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *RedisPublisher) { p.logger = logger }
}

// NewRedisPublisher creates a publisher over an existing client.
func NewRedisPublisher(rdb *redis.Client, opts ...Option) *RedisPublisher {
	return newPublisher(rdb, opts...)
}

func newPublisher(rdb redisClient, opts ...Option) *RedisPublisher {
	p := &RedisPublisher{
		rdb:     rdb,
		key:     DefaultJobsKey,
		channel: DefaultChannel,
		clock:   clock.Real{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Compile-time check that RedisPublisher implements notify.Handler.
var _ notify.Handler = (*RedisPublisher)(nil)

// HandleJobs stores jobs under the configured key and publishes a SyncEvent.
func (p *RedisPublisher) HandleJobs(ctx context.Context, jobs []job.Job) error {
	if jobs == nil {
		jobs = []job.Job{}
	}
	payload, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("marshal jobs: %w", err)
	}
	if err := p.rdb.Set(ctx, p.key, payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", p.key, err)
	}

	event := SyncEvent{
		Type:      "jobs.updated",
		Count:     len(jobs),
		Sources:   countBySource(jobs),
		Timestamp: p.clock.Now().UTC(),
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	receivers, err := p.rdb.Publish(ctx, p.channel, msg).Result()
	if err != nil {
		return fmt.Errorf("redis PUBLISH %s: %w", p.channel, err)
	}

	p.logger.Debug("jobs published to redis",
		slog.String("key", p.key),
		slog.Int("jobs", len(jobs)),
		slog.Int64("receivers", receivers),
	)
	return nil
}

func countBySource(jobs []job.Job) map[string]int {
	counts := make(map[string]int)
	for _, j := range jobs {
		counts[j.Source]++
	}
	return counts
}
