package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"server/internal/kling"
)

const maxUploadBytes = 32 << 20

type generateResponse struct {
	JobID    string `json:"jobId"`
	Provider string `json:"provider"`
}

// Generate accepts a multipart form with an image plus generation
// parameters, submits it upstream, and records which provider owns the
// resulting task.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	apiKey, ok := a.requireKey(w)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		a.error(w, http.StatusBadRequest, "image file is empty or unreadable")
		return
	}

	profile := a.Registry.Resolve(r.FormValue("provider"))
	cfgScale := 0.5
	if v := r.FormValue("cfg_scale"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfgScale = parsed
		}
	}
	req := kling.GenerationRequest{
		Image:          image,
		Prompt:         r.FormValue("prompt"),
		NegativePrompt: r.FormValue("negative_prompt"),
		Duration:       r.FormValue("duration"),
		CfgScale:       cfgScale,
		ImageTail:      r.FormValue("image_tail"),
		WebhookURL:     r.FormValue("webhook_url"),
	}

	// Upstream work is not tied to the caller's connection: an abandoned
	// request must not cancel a billable create call mid-flight.
	ctx := context.WithoutCancel(r.Context())
	taskID, env, err := a.Client.CreateTask(ctx, apiKey, profile, req)
	if err != nil {
		if errors.Is(err, kling.ErrMissingTaskID) {
			a.Logger.Error().Str("provider", profile.ID).Interface("body", env.Body).Msg("create succeeded without task id")
			a.error(w, http.StatusInternalServerError, "upstream accepted the task but returned no task id")
			return
		}
		a.Logger.Error().Err(err).Str("provider", profile.ID).Msg("create task failed")
		a.error(w, http.StatusInternalServerError, "upstream is unreachable")
		return
	}
	if !env.OK {
		a.json(w, env.HTTPStatus, map[string]any{
			"error":    "upstream rejected the generation request",
			"provider": profile.ID,
			"detail":   env.Body,
		})
		return
	}

	if err := a.Jobs.Save(ctx, taskID, profile.ID); err != nil {
		// The map is advisory; losing a write only costs a fallback probe later.
		a.Logger.Warn().Err(err).Str("task_id", taskID).Msg("failed to record task provider")
	}
	a.json(w, http.StatusOK, generateResponse{JobID: taskID, Provider: profile.ID})
}
