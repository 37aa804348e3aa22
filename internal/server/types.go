// Package server provides the HTTP server for the job sync API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import (
	"github.com/maauso/jobsync-api/internal/aggregator"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/ratelimit"
)

// JobsQuery holds the parsed query parameters of GET /jobs.
type JobsQuery struct {
	Query          string  `validate:"max=200"`
	Location       string  `validate:"max=200"`
	Company        string  `validate:"max=200"`
	EmploymentType string  `validate:"omitempty,max=50"`
	MinSalary      float64 `validate:"min=0"`
	Limit          int     `validate:"min=0,max=1000"`
}

// Filters converts the query into job filters.
func (q JobsQuery) Filters() job.Filters {
	return job.Filters{
		Query:          q.Query,
		Location:       q.Location,
		Company:        q.Company,
		EmploymentType: q.EmploymentType,
		MinSalary:      q.MinSalary,
		Limit:          q.Limit,
	}
}

// JobsResponse is the HTTP response for listing jobs.
type JobsResponse struct {
	// Count is the number of jobs returned.
	Count int `json:"count"`
	// Jobs holds the matching jobs in cache order.
	Jobs []job.Job `json:"jobs"`
}

// UpdateConfigRequest is the HTTP request body for PATCH /config.
// Omitted fields keep their current value.
type UpdateConfigRequest struct {
	Sources             []string `json:"sources,omitempty" validate:"omitempty,min=1,dive,required"`
	SearchQueries       []string `json:"searchQueries,omitempty" validate:"omitempty,min=1,dive,required"`
	Locations           []string `json:"locations,omitempty" validate:"omitempty,min=1,dive,required"`
	SyncIntervalMinutes *int     `json:"syncIntervalMinutes,omitempty" validate:"omitempty,min=1,max=10080"`
	MaxJobsPerSource    *int     `json:"maxJobsPerSource,omitempty" validate:"omitempty,min=1,max=1000"`
	EnableDeduplication *bool    `json:"enableDeduplication,omitempty"`
	AutoRefresh         *bool    `json:"autoRefresh,omitempty"`
}

// Update converts the request into a configuration update.
func (r UpdateConfigRequest) Update() aggregator.ConfigurationUpdate {
	return aggregator.ConfigurationUpdate{
		Sources:             r.Sources,
		SearchQueries:       r.SearchQueries,
		Locations:           r.Locations,
		SyncIntervalMinutes: r.SyncIntervalMinutes,
		MaxJobsPerSource:    r.MaxJobsPerSource,
		EnableDeduplication: r.EnableDeduplication,
		AutoRefresh:         r.AutoRefresh,
	}
}

// ConfigResponse is the HTTP response for the configuration endpoints.
type ConfigResponse struct {
	aggregator.Configuration
	// SchedulerRunning reports whether periodic syncs are active.
	SchedulerRunning bool `json:"schedulerRunning"`
}

// RefreshResponse is the HTTP response after refreshing one source.
type RefreshResponse struct {
	Source string    `json:"source"`
	Count  int       `json:"count"`
	Jobs   []job.Job `json:"jobs"`
}

// SourceInfo describes one registered source.
type SourceInfo struct {
	ID string `json:"id"`
	// Enabled is true when the source is part of the active configuration.
	Enabled bool             `json:"enabled"`
	State   *ratelimit.State `json:"state,omitempty"`
}

// SourcesResponse is the HTTP response for GET /sources.
type SourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
	// Jobs is the number of cached jobs.
	Jobs int `json:"jobs"`
	// LastSyncTime is zero until the first cycle completes.
	LastSyncTime string `json:"lastSyncTime,omitempty"`
}
