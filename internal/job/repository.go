package job

import (
	"errors"
)

// ErrJobNotFound is returned when a job cannot be found by ID.
var ErrJobNotFound = errors.New("job not found")

// Store defines the interface for the job cache.
// Writers replace the whole snapshot; readers always observe a complete one.
type Store interface {
	// Replace swaps the cached snapshot for jobs.
	Replace(jobs []Job)

	// All returns a copy of every cached job in snapshot order.
	All() []Job

	// FindByID retrieves a job by its identifier.
	// Returns ErrJobNotFound if the job does not exist.
	FindByID(id int64) (Job, error)

	// FindBySource returns copies of the cached jobs that came from source.
	FindBySource(source string) []Job

	// Len returns the number of cached jobs.
	Len() int

	// Clear empties the cache.
	Clear()
}
