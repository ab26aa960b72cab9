package kling

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// Resolution pairs an upstream status response with the provider that
// produced it.
type Resolution struct {
	Provider ProviderProfile
	Envelope *Envelope
}

// Resolver locates the provider that owns a task when the mapping is
// uncertain. It probes candidates strictly in order so the first hit
// short-circuits the remaining billable calls.
type Resolver struct {
	registry *Registry
	fetcher  *Fetcher
	logger   *infra.Logger
}

// NewResolver constructs a resolver over the provider table.
func NewResolver(registry *Registry, fetcher *Fetcher, logger *infra.Logger) *Resolver {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Resolver{registry: registry, fetcher: fetcher, logger: logger}
}

// ResolveStatus polls the task's status, trying the preferred provider first
// when it names a known profile, then the rest in canonical order.
//
// A 2xx ends the search. A 401/403 also ends it: the key itself is bad and
// no other provider can fix that. Any other failure is remembered and the
// next candidate is tried, so the caller always gets a real upstream
// response when at least one provider answered. Only transport exhaustion
// inside the fetcher returns an error.
func (r *Resolver) ResolveStatus(ctx context.Context, taskID, apiKey, preferred string) (*Resolution, error) {
	var last *Resolution
	for _, profile := range r.candidates(preferred) {
		env, err := r.fetcher.FetchJSON(ctx, http.MethodGet, profile.StatusURL(taskID), authHeader(apiKey), nil)
		if err != nil {
			return nil, err
		}
		res := &Resolution{Provider: profile, Envelope: env}
		if env.OK {
			fallbackProbes.WithLabelValues(profile.ID, "hit").Inc()
			return res, nil
		}
		if env.HTTPStatus == http.StatusUnauthorized || env.HTTPStatus == http.StatusForbidden {
			fallbackProbes.WithLabelValues(profile.ID, "auth").Inc()
			return res, nil
		}
		fallbackProbes.WithLabelValues(profile.ID, "miss").Inc()
		r.logger.Debug().
			Str("provider", profile.ID).
			Str("task_id", taskID).
			Int("http_status", env.HTTPStatus).
			Msg("status probe missed, trying next provider")
		last = res
	}
	return last, nil
}

func (r *Resolver) candidates(preferred string) []ProviderProfile {
	var out []ProviderProfile
	seen := map[string]bool{}
	if p, ok := r.registry.Lookup(preferred); ok {
		out = append(out, p)
		seen[p.ID] = true
	}
	for _, p := range r.registry.Order() {
		if !seen[p.ID] {
			out = append(out, p)
			seen[p.ID] = true
		}
	}
	return out
}
