package kling

import (
	"net/url"
	"strings"
)

// ProviderProfile describes one upstream model variant: where tasks are
// created and where their status is polled. The two paths are independent
// fields because they do not always agree (see the 2.5 entry below), and
// keeping the mismatch in data means adding a third variant never touches
// routing logic.
type ProviderProfile struct {
	ID           string
	SupportsTail bool

	createPath string
	statusPath string
	baseURL    string
}

// CreateURL returns the endpoint for submitting a new generation task.
func (p ProviderProfile) CreateURL() string {
	return p.baseURL + "/v1/ai/image-to-video/" + p.createPath
}

// StatusURL returns the polling endpoint for the given task.
func (p ProviderProfile) StatusURL(taskID string) string {
	return p.baseURL + "/v1/ai/image-to-video/" + p.statusPath + "/" + url.PathEscape(taskID)
}

const (
	// ProviderKling21Pro is the default variant.
	ProviderKling21Pro = "kling-2.1-pro"
	// ProviderKling25Pro is the newer variant. Its status route does not
	// match its create route upstream, and it is the only variant that
	// accepts a tail image.
	ProviderKling25Pro = "kling-2.5-pro"
)

// Registry holds the immutable provider table. Built once at startup.
type Registry struct {
	profiles map[string]ProviderProfile
	order    []string
}

// NewRegistry builds the provider table against the given upstream base URL.
func NewRegistry(baseURL string) *Registry {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	profiles := []ProviderProfile{
		{
			ID:         ProviderKling21Pro,
			createPath: "kling-2.1-pro",
			statusPath: "kling-2.1-pro",
			baseURL:    baseURL,
		},
		{
			ID:           ProviderKling25Pro,
			SupportsTail: true,
			createPath:   "kling-2.5-pro",
			statusPath:   "kling-2.5",
			baseURL:      baseURL,
		},
	}
	r := &Registry{profiles: make(map[string]ProviderProfile, len(profiles))}
	for _, p := range profiles {
		r.profiles[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// Resolve maps any caller-supplied provider string to a profile. Unknown or
// empty input falls back to the default provider rather than failing, so a
// mistyped provider still produces a working request.
func (r *Registry) Resolve(input string) ProviderProfile {
	if p, ok := r.Lookup(input); ok {
		return p
	}
	return r.profiles[ProviderKling21Pro]
}

// Lookup reports whether the trimmed input names a known provider.
func (r *Registry) Lookup(input string) (ProviderProfile, bool) {
	p, ok := r.profiles[strings.TrimSpace(input)]
	return p, ok
}

// Order returns all profiles in the canonical probing order.
func (r *Registry) Order() []ProviderProfile {
	out := make([]ProviderProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out
}
