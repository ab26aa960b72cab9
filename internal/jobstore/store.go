// Package jobstore maps upstream task identifiers to the provider that
// created them. The mapping is a cache, not a ledger: it may be empty after
// a restart and every caller must treat a missing record as a normal
// outcome, falling back to probing providers in order.
package jobstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for a task identifier.
// Callers are expected to handle it as routine, not as a failure.
var ErrNotFound = errors.New("jobstore: record not found")

// Record ties a task to the provider that created it.
type Record struct {
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the task→provider map. Save never overwrites an existing record
// with a different provider: routing for a task must stay stable once set.
type Store interface {
	Save(ctx context.Context, taskID, providerID string) error
	Get(ctx context.Context, taskID string) (*Record, error)
}
