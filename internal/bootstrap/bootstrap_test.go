package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/jobsync-api/internal/config"
	"github.com/maauso/jobsync-api/internal/source"
	"github.com/maauso/jobsync-api/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StubEnabled:         true,
		SyncQueries:         []string{"software developer"},
		SyncLocations:       []string{"remote"},
		SyncIntervalMinutes: 60,
		MaxJobsPerSource:    20,
		EnableDeduplication: true,
		MinIntervalMs:       0,
		CooldownSec:         300,
		SnapshotDir:         t.TempDir(),
		SnapshotKeep:        3,
		S3Prefix:            "jobsync",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDependencies_StubOnly(t *testing.T) {
	cfg := testConfig(t)

	deps, err := NewDependencies(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer func() { _ = deps.Close() }()

	assert.Equal(t, []string{source.StubName}, deps.Service.Sources())
	assert.Equal(t, []string{source.StubName}, deps.SyncConfig.Sources)
	assert.False(t, deps.SyncConfig.AutoRefresh)
}

func TestNewDependencies_ProvidersFromCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdzunaAppID = "id"
	cfg.AdzunaAppKey = "key"
	cfg.AdzunaCountry = "gb"
	cfg.JSearchAPIKey = "rapid"
	cfg.RemotiveEnabled = true

	deps, err := NewDependencies(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer func() { _ = deps.Close() }()

	assert.Equal(t,
		[]string{source.AdzunaName, source.JSearchName, source.RemotiveName, source.StubName},
		deps.Service.Sources(),
	)
}

func TestNewDependencies_NoSources(t *testing.T) {
	cfg := testConfig(t)
	cfg.StubEnabled = false

	_, err := NewDependencies(context.Background(), cfg, discardLogger())
	assert.ErrorIs(t, err, config.ErrNoSourcesEnabled)
}

func TestNewDependencies_UnknownConfiguredSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.SyncSources = []string{"adzuna"}

	deps, err := NewDependencies(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	// adzuna has no credentials, so it is not registered
	err = deps.Service.Initialize(context.Background(), deps.SyncConfig)
	require.ErrorIs(t, err, source.ErrUnknownSource)
}

func TestNewDependencies_InitialSyncExportsSnapshot(t *testing.T) {
	cfg := testConfig(t)

	deps, err := NewDependencies(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer func() { _ = deps.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, deps.Service.Initialize(ctx, deps.SyncConfig))
	defer deps.Service.Cleanup()

	st := deps.Service.Status()
	assert.Equal(t, []string{source.StubName}, st.SuccessfulSources)
	assert.Positive(t, st.TotalJobsSynced)

	_, err = os.Stat(filepath.Join(cfg.SnapshotDir, storage.LatestName))
	assert.NoError(t, err)
}

func TestNewDependencies_InvalidRedisURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "not-a-url"

	_, err := NewDependencies(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}
