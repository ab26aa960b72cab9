package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore persists the task map as a single flat JSON file. It is loaded
// once at startup and rewritten atomically on every save; a corrupt or
// missing file simply starts the map empty.
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]Record
}

// NewFileStore initializes a FileStore at path, loading any existing map.
func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("jobstore: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jobstore: ensure directory: %w", err)
	}
	s := &FileStore{path: path, records: make(map[string]Record)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("jobstore: read %s: %w", path, err)
	}
	// A corrupt map is discarded, not fatal: the file is a cache.
	_ = json.Unmarshal(raw, &s.records)
	if s.records == nil {
		s.records = make(map[string]Record)
	}
	return s, nil
}

func (s *FileStore) Save(ctx context.Context, taskID, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[taskID]; exists {
		return nil
	}
	s.records[taskID] = Record{Provider: providerID, CreatedAt: time.Now().UTC()}
	return s.flushLocked()
}

func (s *FileStore) Get(ctx context.Context, taskID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[taskID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Prune drops records older than the retention window and reports how many
// were removed.
func (s *FileStore) Prune(retention time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().UTC().Add(-retention)
	removed := 0
	for id, rec := range s.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.records, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	raw, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("jobstore: encode map: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("jobstore: write map: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("jobstore: replace map: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
