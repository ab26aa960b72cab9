package kling

import (
	"strings"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	r := NewRegistry("https://api.example.com")
	for _, input := range []string{"", "bogus", "  ", "KLING-2.5-PRO"} {
		if got := r.Resolve(input); got.ID != ProviderKling21Pro {
			t.Fatalf("Resolve(%q) = %s, want default %s", input, got.ID, ProviderKling21Pro)
		}
	}
}

func TestResolveExactMatch(t *testing.T) {
	r := NewRegistry("https://api.example.com")
	if got := r.Resolve("kling-2.5-pro"); got.ID != ProviderKling25Pro {
		t.Fatalf("Resolve(kling-2.5-pro) = %s", got.ID)
	}
	if got := r.Resolve(" kling-2.1-pro "); got.ID != ProviderKling21Pro {
		t.Fatalf("Resolve with whitespace = %s", got.ID)
	}
}

func TestOrderIsCanonical(t *testing.T) {
	r := NewRegistry("https://api.example.com")
	order := r.Order()
	if len(order) != 2 || order[0].ID != ProviderKling21Pro || order[1].ID != ProviderKling25Pro {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestStatusPathMismatch(t *testing.T) {
	r := NewRegistry("https://api.example.com/")
	p25 := r.Resolve(ProviderKling25Pro)
	create := p25.CreateURL()
	status := p25.StatusURL("abc123")
	if !strings.HasSuffix(create, "/image-to-video/kling-2.5-pro") {
		t.Fatalf("unexpected create url: %s", create)
	}
	if !strings.HasSuffix(status, "/image-to-video/kling-2.5/abc123") {
		t.Fatalf("unexpected status url: %s", status)
	}

	p21 := r.Resolve(ProviderKling21Pro)
	if p21.StatusURL("x") != "https://api.example.com/v1/ai/image-to-video/kling-2.1-pro/x" {
		t.Fatalf("unexpected 2.1 status url: %s", p21.StatusURL("x"))
	}
}

func TestStatusURLEscapesTaskID(t *testing.T) {
	r := NewRegistry("https://api.example.com")
	got := r.Resolve("").StatusURL("a/b c")
	if strings.Contains(got, " ") || strings.Contains(got, "a/b") {
		t.Fatalf("task id not escaped: %s", got)
	}
}

func TestTailSupportIsPerProfile(t *testing.T) {
	r := NewRegistry("https://api.example.com")
	if r.Resolve(ProviderKling21Pro).SupportsTail {
		t.Fatal("2.1 should not accept a tail image")
	}
	if !r.Resolve(ProviderKling25Pro).SupportsTail {
		t.Fatal("2.5 should accept a tail image")
	}
}
