package credentials

import (
	"path/filepath"
	"testing"
)

func TestSetAndGetKey(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if s.HasKey() {
		t.Fatal("fresh store should have no key")
	}
	if err := s.SetKey(" sk-test "); err != nil {
		t.Fatalf("SetKey error: %v", err)
	}
	if s.Key() != "sk-test" {
		t.Fatalf("expected trimmed key, got %q", s.Key())
	}
	if !s.HasKey() {
		t.Fatal("expected HasKey after set")
	}
}

func TestSetKeyEmpty(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if err := s.SetKey("  "); err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestKeyPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apikey")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if err := s.SetKey("sk-persisted"); err != nil {
		t.Fatalf("SetKey error: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	if reopened.Key() != "sk-persisted" {
		t.Fatalf("expected persisted key, got %q", reopened.Key())
	}
}
