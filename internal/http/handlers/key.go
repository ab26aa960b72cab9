package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type setKeyRequest struct {
	Key string `json:"key"`
}

// GetKey reports whether an upstream API key is configured without ever
// echoing the key itself.
func (a *App) GetKey(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"hasKey": a.Keys.HasKey()})
}

// SetKey stores the upstream API key.
func (a *App) SetKey(w http.ResponseWriter, r *http.Request) {
	var req setKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		a.error(w, http.StatusBadRequest, "key must not be empty")
		return
	}
	if err := a.Keys.SetKey(req.Key); err != nil {
		a.Logger.Error().Err(err).Msg("failed to persist api key")
		a.error(w, http.StatusInternalServerError, "failed to store key")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}
