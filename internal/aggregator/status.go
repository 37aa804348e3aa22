package aggregator

import (
	"time"

	"github.com/maauso/jobsync-api/internal/ratelimit"
)

// Status describes the outcome of the latest sync cycle. It is overwritten,
// not appended to, at the end of every cycle.
type Status struct {
	LastSyncTime      time.Time `json:"lastSyncTime"`
	NextSyncTime      time.Time `json:"nextSyncTime"`
	TotalJobsSynced   int       `json:"totalJobsSynced"`
	SuccessfulSources []string  `json:"successfulSources"`
	FailedSources     []string  `json:"failedSources"`
	Errors            []string  `json:"errors"`
	IsRunning         bool      `json:"isRunning"`
	// DegradedSources served fallback records because of a rate-limit cool-down.
	DegradedSources   []string `json:"degradedSources,omitempty"`
	DuplicatesRemoved int      `json:"duplicatesRemoved"`
	SkippedRecords    int      `json:"skippedRecords"`
	// SourceStates is filled on read from the rate limiters.
	SourceStates []ratelimit.State `json:"sourceStates,omitempty"`
}

func (s Status) clone() Status {
	out := s
	out.SuccessfulSources = append([]string{}, s.SuccessfulSources...)
	out.FailedSources = append([]string{}, s.FailedSources...)
	out.Errors = append([]string{}, s.Errors...)
	out.DegradedSources = append([]string(nil), s.DegradedSources...)
	out.SourceStates = append([]ratelimit.State(nil), s.SourceStates...)
	return out
}
