// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrAdzunaCredentialsIncomplete is returned when only one of
	// ADZUNA_APP_ID and ADZUNA_APP_KEY is set.
	ErrAdzunaCredentialsIncomplete = errors.New("config: ADZUNA_APP_ID and ADZUNA_APP_KEY must be set together")
	// ErrNoSourcesEnabled is returned when no job source can be built.
	ErrNoSourcesEnabled = errors.New("config: no job sources enabled")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Adzuna settings
	AdzunaAppID   string `env:"ADZUNA_APP_ID" json:"adzuna_app_id,omitempty"`
	AdzunaAppKey  string `env:"ADZUNA_APP_KEY" json:"-"` // Masked in JSON
	AdzunaCountry string `env:"ADZUNA_COUNTRY, default=us" json:"adzuna_country"`

	// JSearch (RapidAPI) settings
	JSearchAPIKey string `env:"JSEARCH_API_KEY" json:"-"` // Masked in JSON

	// Remotive needs no credentials
	RemotiveEnabled bool `env:"REMOTIVE_ENABLED, default=true" json:"remotive_enabled"`

	// Offline sample source
	StubEnabled bool `env:"ENABLE_STUB_SOURCE, default=true" json:"stub_enabled"`

	// Sync defaults; SYNC_CONFIG_FILE overrides them when set
	SyncConfigFile      string   `env:"SYNC_CONFIG_FILE" json:"sync_config_file,omitempty"`
	SyncSources         []string `env:"SYNC_SOURCES" json:"sync_sources,omitempty"`
	SyncQueries         []string `env:"SYNC_QUERIES, default=software developer" json:"sync_queries"`
	SyncLocations       []string `env:"SYNC_LOCATIONS, default=remote" json:"sync_locations"`
	SyncIntervalMinutes int      `env:"SYNC_INTERVAL_MINUTES, default=60" json:"sync_interval_minutes"`
	MaxJobsPerSource    int      `env:"MAX_JOBS_PER_SOURCE, default=50" json:"max_jobs_per_source"`
	EnableDeduplication bool     `env:"ENABLE_DEDUPLICATION, default=true" json:"enable_deduplication"`
	AutoRefresh         bool     `env:"AUTO_REFRESH, default=true" json:"auto_refresh"`

	// Rate limiting
	InterCallDelayMs int `env:"INTER_CALL_DELAY_MS, default=500" json:"inter_call_delay_ms"`
	MinIntervalMs    int `env:"MIN_CALL_INTERVAL_MS, default=1000" json:"min_call_interval_ms"`
	CooldownSec      int `env:"RATE_LIMIT_COOLDOWN_SEC, default=300" json:"rate_limit_cooldown_sec"`

	// Snapshot settings
	SnapshotDir  string `env:"SNAPSHOT_DIR, default=/tmp/jobsync" json:"snapshot_dir"`
	SnapshotKeep int    `env:"SNAPSHOT_KEEP, default=24" json:"snapshot_keep"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	S3Prefix           string `env:"S3_PREFIX, default=jobsync" json:"s3_prefix"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Optional Redis settings
	RedisURL string `env:"REDIS_URL" json:"-"` // May carry a password

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// AdzunaEnabled returns true if Adzuna credentials are provided.
func (c *Config) AdzunaEnabled() bool {
	return c.AdzunaAppID != "" && c.AdzunaAppKey != ""
}

// JSearchEnabled returns true if a RapidAPI key is provided.
func (c *Config) JSearchEnabled() bool {
	return c.JSearchAPIKey != ""
}

// RedisEnabled returns true if a Redis URL is provided.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if (c.AdzunaAppID == "") != (c.AdzunaAppKey == "") {
		return ErrAdzunaCredentialsIncomplete
	}
	if !c.AdzunaEnabled() && !c.JSearchEnabled() && !c.RemotiveEnabled && !c.StubEnabled {
		return ErrNoSourcesEnabled
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, Adzuna: %t, JSearch: %t, Remotive: %t, Stub: %t, SyncIntervalMinutes: %d, SnapshotDir: %s, S3Bucket: %s, S3Region: %s, Redis: %t, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.AdzunaEnabled(),
		c.JSearchEnabled(),
		c.RemotiveEnabled,
		c.StubEnabled,
		c.SyncIntervalMinutes,
		c.SnapshotDir,
		c.S3Bucket,
		c.S3Region,
		c.RedisEnabled(),
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
