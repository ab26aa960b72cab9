package jobstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the task map in process memory. Used in tests and as
// the JOB_STORE=memory deployment mode.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(ctx context.Context, taskID, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[taskID]; exists {
		return nil
	}
	s.records[taskID] = Record{Provider: providerID, CreatedAt: time.Now().UTC()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, taskID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[taskID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

var _ Store = (*MemoryStore)(nil)
