package handlers

import (
	"net/http"
	"strings"
)

type resultResponse struct {
	VideoURL string `json:"videoUrl"`
	Provider string `json:"provider"`
}

// Result returns the generated video URL for a completed task.
func (a *App) Result(w http.ResponseWriter, r *http.Request) {
	res, known, ok := a.resolveTask(w, r)
	if !ok {
		return
	}
	if !res.Envelope.OK {
		a.json(w, res.Envelope.HTTPStatus, map[string]any{
			"error":    "upstream status check failed",
			"provider": res.Provider.ID,
			"detail":   res.Envelope.Body,
		})
		return
	}
	a.backfill(r, res, known)

	raw := res.Envelope.DataString("status")
	if !strings.EqualFold(raw, "COMPLETED") {
		a.json(w, http.StatusBadRequest, map[string]any{
			"error":      "video is not ready yet",
			"raw_status": raw,
		})
		return
	}
	generated := res.Envelope.DataStrings("generated")
	if len(generated) == 0 || strings.TrimSpace(generated[0]) == "" {
		// Upstream says COMPLETED but handed back nothing; that is its
		// integrity problem, logged here and reported to the client.
		a.Logger.Error().
			Str("provider", res.Provider.ID).
			Interface("body", res.Envelope.Body).
			Msg("completed task has no generated URL")
		a.error(w, http.StatusBadRequest, "generation completed but no video URL was returned")
		return
	}
	a.json(w, http.StatusOK, resultResponse{VideoURL: generated[0], Provider: res.Provider.ID})
}
