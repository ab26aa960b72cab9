package handlers

import "net/http"

// Ping is the liveness probe.
func (a *App) Ping(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}
