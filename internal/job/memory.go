package job

import (
	"sync/atomic"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// snapshot is immutable once published.
type snapshot struct {
	jobs  []Job
	index map[int64]int
}

// MemoryStore is an in-memory implementation of Store.
// Replace publishes a new snapshot with a single pointer swap, so readers
// see either the previous or the new complete job list.
type MemoryStore struct {
	current atomic.Pointer[snapshot]
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.current.Store(&snapshot{index: map[int64]int{}})
	return s
}

// Replace stores a clone of jobs as the new snapshot.
func (s *MemoryStore) Replace(jobs []Job) {
	snap := &snapshot{
		jobs:  CloneAll(jobs),
		index: make(map[int64]int, len(jobs)),
	}
	for i, j := range snap.jobs {
		if _, dup := snap.index[j.ID]; !dup {
			snap.index[j.ID] = i
		}
	}
	s.current.Store(snap)
}

// All returns clones to prevent external mutations.
func (s *MemoryStore) All() []Job {
	return CloneAll(s.current.Load().jobs)
}

// FindByID retrieves a job by its ID.
func (s *MemoryStore) FindByID(id int64) (Job, error) {
	snap := s.current.Load()
	i, ok := snap.index[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return snap.jobs[i].Clone(), nil
}

// FindBySource returns clones of the jobs whose Source equals source.
func (s *MemoryStore) FindBySource(source string) []Job {
	var out []Job
	for _, j := range s.current.Load().jobs {
		if j.Source == source {
			out = append(out, j.Clone())
		}
	}
	return out
}

// Len returns the number of jobs in the current snapshot.
func (s *MemoryStore) Len() int {
	return len(s.current.Load().jobs)
}

// Clear replaces the snapshot with an empty one.
func (s *MemoryStore) Clear() {
	s.Replace(nil)
}
