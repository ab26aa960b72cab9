package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/credentials"
	"server/internal/infra"
	"server/internal/jobstore"
	"server/internal/kling"
)

// App bundles the dependencies shared by all handlers.
type App struct {
	Logger   *infra.Logger
	Registry *kling.Registry
	Client   *kling.Client
	Resolver *kling.Resolver
	Jobs     jobstore.Store
	Keys     *credentials.Store
}

// NewApp wires the handler container.
func NewApp(logger *infra.Logger, registry *kling.Registry, client *kling.Client, resolver *kling.Resolver, jobs jobstore.Store, keys *credentials.Store) *App {
	return &App{
		Logger:   logger,
		Registry: registry,
		Client:   client,
		Resolver: resolver,
		Jobs:     jobs,
		Keys:     keys,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]any{"error": msg})
}

// requireKey fetches the server-stored upstream key, writing the
// configuration error itself when none is set.
func (a *App) requireKey(w http.ResponseWriter) (string, bool) {
	key := a.Keys.Key()
	if key == "" {
		a.error(w, http.StatusBadRequest, "API key is not configured; set it via POST /key")
		return "", false
	}
	return key, true
}
