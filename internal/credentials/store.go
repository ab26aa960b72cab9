// Package credentials holds the single upstream API key in server-stored
// mode: clients manage it through /key and never send it per request.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store guards the upstream API key. When a path is configured the key is
// persisted there so it survives restarts; persistence failures are
// surfaced to the operator via the setter, never to generation callers.
type Store struct {
	mu   sync.RWMutex
	path string
	key  string
}

// NewStore loads any previously persisted key from path. An empty path
// keeps the key in memory only.
func NewStore(path string) (*Store, error) {
	s := &Store{path: strings.TrimSpace(path)}
	if s.path == "" {
		return s, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("credentials: ensure directory: %w", err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("credentials: read %s: %w", s.path, err)
	}
	s.key = strings.TrimSpace(string(raw))
	return s, nil
}

// Key returns the stored key, or "" when none is configured.
func (s *Store) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// HasKey reports whether a key is configured.
func (s *Store) HasKey() bool {
	return s.Key() != ""
}

// SetKey stores and persists a new key. Blank keys are rejected.
func (s *Store) SetKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("credentials: api key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("credentials: persist key: %w", err)
	}
	return nil
}
