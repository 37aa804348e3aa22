package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfiguration is returned when a configuration fails validation.
var ErrInvalidConfiguration = errors.New("aggregator: invalid configuration")

// Configuration controls what a sync cycle fetches and how often.
type Configuration struct {
	Sources             []string `json:"sources" yaml:"sources" validate:"required,min=1,dive,required"`
	SearchQueries       []string `json:"searchQueries" yaml:"searchQueries" validate:"required,min=1,dive,required"`
	Locations           []string `json:"locations" yaml:"locations" validate:"required,min=1,dive,required"`
	SyncIntervalMinutes int      `json:"syncIntervalMinutes" yaml:"syncIntervalMinutes" validate:"min=1,max=10080"`
	MaxJobsPerSource    int      `json:"maxJobsPerSource" yaml:"maxJobsPerSource" validate:"min=1,max=1000"`
	EnableDeduplication bool     `json:"enableDeduplication" yaml:"enableDeduplication"`
	AutoRefresh         bool     `json:"autoRefresh" yaml:"autoRefresh"`
}

// DefaultConfiguration returns a configuration that syncs the stub source.
func DefaultConfiguration() Configuration {
	return Configuration{
		Sources:             []string{"stub"},
		SearchQueries:       []string{"software developer"},
		Locations:           []string{"remote"},
		SyncIntervalMinutes: 60,
		MaxJobsPerSource:    50,
		EnableDeduplication: true,
		AutoRefresh:         true,
	}
}

var validate = validator.New()

// Validate checks the configuration's field constraints.
func (c Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

// Interval returns the sync interval as a duration.
func (c Configuration) Interval() time.Duration {
	return time.Duration(c.SyncIntervalMinutes) * time.Minute
}

func (c Configuration) clone() Configuration {
	out := c
	out.Sources = append([]string(nil), c.Sources...)
	out.SearchQueries = append([]string(nil), c.SearchQueries...)
	out.Locations = append([]string(nil), c.Locations...)
	return out
}

// ConfigurationUpdate is a partial configuration. Nil fields are left unchanged.
type ConfigurationUpdate struct {
	Sources             []string `json:"sources,omitempty"`
	SearchQueries       []string `json:"searchQueries,omitempty"`
	Locations           []string `json:"locations,omitempty"`
	SyncIntervalMinutes *int     `json:"syncIntervalMinutes,omitempty"`
	MaxJobsPerSource    *int     `json:"maxJobsPerSource,omitempty"`
	EnableDeduplication *bool    `json:"enableDeduplication,omitempty"`
	AutoRefresh         *bool    `json:"autoRefresh,omitempty"`
}

// Apply merges u into c and returns the result. c is not modified.
func (u ConfigurationUpdate) Apply(c Configuration) Configuration {
	out := c.clone()
	if u.Sources != nil {
		out.Sources = append([]string(nil), u.Sources...)
	}
	if u.SearchQueries != nil {
		out.SearchQueries = append([]string(nil), u.SearchQueries...)
	}
	if u.Locations != nil {
		out.Locations = append([]string(nil), u.Locations...)
	}
	if u.SyncIntervalMinutes != nil {
		out.SyncIntervalMinutes = *u.SyncIntervalMinutes
	}
	if u.MaxJobsPerSource != nil {
		out.MaxJobsPerSource = *u.MaxJobsPerSource
	}
	if u.EnableDeduplication != nil {
		out.EnableDeduplication = *u.EnableDeduplication
	}
	if u.AutoRefresh != nil {
		out.AutoRefresh = *u.AutoRefresh
	}
	return out
}
