package jobs

import (
	"errors"
	"sync"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// ErrJobNotFound is returned when polling an identifier that was never
// issued (or, with an evicting store, has expired).
var ErrJobNotFound = errors.New("job not found")

// Store is the job registry. Implementations must be safe for concurrent
// insert, update and read; reads return snapshots so a status poll racing
// a task update observes either the pre- or post-update record, never a
// torn one.
type Store interface {
	Put(job *Job)
	Get(id string) (types.JobView, error)
	Update(id string, fn func(*Job)) error
}

// MemoryStore keeps jobs in a mutex-guarded map for the life of the
// process. Nothing evicts entries; a store with expiry can be swapped in
// without touching the orchestrator.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates an empty in-memory registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

// Put registers a job. Identifiers are unique per process lifetime, so an
// existing entry is simply replaced.
func (s *MemoryStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get returns a snapshot of the job, or ErrJobNotFound.
func (s *MemoryStore) Get(id string) (types.JobView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return types.JobView{}, ErrJobNotFound
	}
	return job.View(), nil
}

// Update applies fn to the job under the write lock.
func (s *MemoryStore) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(job)
	return nil
}
