package jobstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Save(ctx, "abc123", "kling-2.5-pro"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	rec, err := s.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Provider != "kling-2.5-pro" || rec.CreatedAt.IsZero() {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestMemoryStoreFirstWriteWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Save(ctx, "abc123", "kling-2.5-pro"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Save(ctx, "abc123", "kling-2.1-pro"); err != nil {
		t.Fatalf("re-save must not fail: %v", err)
	}
	rec, err := s.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Provider != "kling-2.5-pro" {
		t.Fatalf("provider was overwritten: %s", rec.Provider)
	}
}
