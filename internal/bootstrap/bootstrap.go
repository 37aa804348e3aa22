// Package bootstrap provides dependency initialization for the job sync API.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maauso/jobsync-api/internal/adzuna"
	"github.com/maauso/jobsync-api/internal/aggregator"
	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/config"
	"github.com/maauso/jobsync-api/internal/jsearch"
	"github.com/maauso/jobsync-api/internal/normalize"
	"github.com/maauso/jobsync-api/internal/publish"
	"github.com/maauso/jobsync-api/internal/ratelimit"
	"github.com/maauso/jobsync-api/internal/remotive"
	"github.com/maauso/jobsync-api/internal/scheduler"
	"github.com/maauso/jobsync-api/internal/source"
	"github.com/maauso/jobsync-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Service *aggregator.Service
	// SyncConfig is the configuration passed to Service.Initialize.
	SyncConfig aggregator.Configuration

	redis *redis.Client
}

// Close releases external connections. The service itself is cleaned up by
// the caller.
func (d *Dependencies) Close() error {
	var errs []error
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// NewDependencies creates and initializes all dependencies for the application.
// Subscribers are registered on the service; Initialize is left to the caller.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	registry, err := initSources(cfg, logger)
	if err != nil {
		return nil, err
	}

	syncCfg, err := cfg.SyncConfiguration(registry.Sources())
	if err != nil {
		return nil, fmt.Errorf("sync configuration: %w", err)
	}

	clk := clock.Real{}
	limiters := ratelimit.NewPool(source.StaticFallback{},
		ratelimit.WithClock(clk),
		ratelimit.WithMinInterval(time.Duration(cfg.MinIntervalMs)*time.Millisecond),
		ratelimit.WithCooldown(time.Duration(cfg.CooldownSec)*time.Second),
		ratelimit.WithLogger(logger),
	)

	svc := aggregator.NewService(registry,
		aggregator.WithClock(clk),
		aggregator.WithLogger(logger),
		aggregator.WithLimiters(limiters),
		aggregator.WithNormalizer(normalize.New(normalize.WithClock(clk))),
		aggregator.WithScheduler(scheduler.NewCron(logger)),
		aggregator.WithInterCallDelay(time.Duration(cfg.InterCallDelayMs)*time.Millisecond),
	)

	deps := &Dependencies{Service: svc, SyncConfig: syncCfg}

	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc.Subscribe(storage.NewExporter(store,
		storage.WithPrefix(cfg.S3Prefix),
		storage.WithKeep(cfg.SnapshotKeep),
		storage.WithExporterClock(clk),
		storage.WithExporterLogger(logger),
	))

	if cfg.RedisEnabled() {
		rdb, err := publish.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.redis = rdb
		svc.Subscribe(publish.NewRedisPublisher(rdb,
			publish.WithClock(clk),
			publish.WithLogger(logger),
		))
		logger.Info("redis publisher configured")
	}

	return deps, nil
}

// initSources builds one adapter per provider whose credentials are present.
func initSources(cfg *config.Config, logger *slog.Logger) (*source.Registry, error) {
	registry := source.NewRegistry()

	if cfg.AdzunaEnabled() {
		client, err := adzuna.NewClient(cfg.AdzunaAppID, cfg.AdzunaAppKey, adzuna.WithCountry(cfg.AdzunaCountry))
		if err != nil {
			return nil, fmt.Errorf("create Adzuna client: %w", err)
		}
		registry.Register(source.NewAdzunaAdapter(client))
	}

	if cfg.JSearchEnabled() {
		client, err := jsearch.NewClient(cfg.JSearchAPIKey)
		if err != nil {
			return nil, fmt.Errorf("create JSearch client: %w", err)
		}
		registry.Register(source.NewJSearchAdapter(client))
	}

	if cfg.RemotiveEnabled {
		registry.Register(source.NewRemotiveAdapter(remotive.NewClient()))
	}

	if cfg.StubEnabled {
		registry.Register(source.NewStub(0))
	}

	names := registry.Sources()
	if len(names) == 0 {
		return nil, config.ErrNoSourcesEnabled
	}
	logger.Info("job sources configured", slog.Any("sources", names))
	return registry, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(ctx, cfg.SnapshotDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.SnapshotDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("snapshot_dir", cfg.SnapshotDir),
	)
	return localStore, nil
}
