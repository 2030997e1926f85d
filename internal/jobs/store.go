package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"viralengine/internal/services"
)

// Store is a concurrency-safe in-memory registry of jobs. The index map is
// guarded by an RWMutex for insert and lookup only; each record carries its
// own lock so updates to one job never contend with updates to another.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string

	now func() time.Time
}

type entry struct {
	mu  sync.Mutex
	job *Job
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates a new pending job for the request and inserts it
// atomically. The returned snapshot is independent of the stored record.
func (s *Store) Create(req Request) *Job {
	now := s.now()
	job := &Job{
		ID:          uuid.NewString(),
		Status:      StatusPending,
		Progress:    0,
		CurrentStep: "Initializing project...",
		Request:     req,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.entries[job.ID] = &entry{job: job}
	s.order = append(s.order, job.ID)
	s.mu.Unlock()

	return job.Clone()
}

// Get returns an independent snapshot of the job or services.ErrNotFound.
func (s *Store) Get(id string) (*Job, error) {
	ent, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.job.Clone(), nil
}

// Update applies the mutation under exclusive access to that job's record
// only. The mutator sees the live record; UpdatedAt is stamped afterwards.
func (s *Store) Update(id string, mutate func(*Job)) error {
	ent, err := s.lookup(id)
	if err != nil {
		return err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	mutate(ent.job)
	ent.job.UpdatedAt = s.now()
	return nil
}

// List returns snapshots of all jobs ordered by creation time. Each snapshot
// is internally consistent; the listing as a whole is not linearized against
// concurrent updates.
func (s *Store) List() []*Job {
	s.mu.RLock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	out := make([]*Job, 0, len(ids))
	for _, id := range ids {
		if job, err := s.Get(id); err == nil {
			out = append(out, job)
		}
	}
	return out
}

// Len reports the number of stored jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	ent, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %q: %w", id, services.ErrNotFound)
	}
	return ent, nil
}
