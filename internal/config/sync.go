package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/maauso/jobsync-api/internal/aggregator"
)

// ErrSyncConfigFile is returned when SYNC_CONFIG_FILE cannot be read or parsed.
var ErrSyncConfigFile = errors.New("config: invalid sync config file")

// SyncConfiguration builds the initial aggregator configuration from the
// SYNC_* variables, overlaid with SYNC_CONFIG_FILE when set. Keys missing
// from the file keep their environment values. When no sources are named,
// defaultSources is used.
func (c *Config) SyncConfiguration(defaultSources []string) (aggregator.Configuration, error) {
	sc := aggregator.Configuration{
		Sources:             append([]string(nil), c.SyncSources...),
		SearchQueries:       append([]string(nil), c.SyncQueries...),
		Locations:           append([]string(nil), c.SyncLocations...),
		SyncIntervalMinutes: c.SyncIntervalMinutes,
		MaxJobsPerSource:    c.MaxJobsPerSource,
		EnableDeduplication: c.EnableDeduplication,
		AutoRefresh:         c.AutoRefresh,
	}

	if c.SyncConfigFile != "" {
		data, err := os.ReadFile(c.SyncConfigFile)
		if err != nil {
			return aggregator.Configuration{}, fmt.Errorf("%w: %w", ErrSyncConfigFile, err)
		}
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return aggregator.Configuration{}, fmt.Errorf("%w: %w", ErrSyncConfigFile, err)
		}
	}

	if len(sc.Sources) == 0 {
		sc.Sources = append([]string(nil), defaultSources...)
	}

	if err := sc.Validate(); err != nil {
		return aggregator.Configuration{}, err
	}
	return sc, nil
}
