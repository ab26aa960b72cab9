package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/jobstore"
	"server/internal/kling"
)

type statusResponse struct {
	Status    kling.Status `json:"status"`
	RawStatus *string      `json:"raw_status"`
	Provider  string       `json:"provider"`
	Progress  *float64     `json:"progress"`
}

// Status polls the upstream status of a task, falling back across provider
// variants when the owning provider is unknown.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
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

	var rawStatus *string
	if raw := res.Envelope.DataString("status"); raw != "" {
		rawStatus = &raw
	}
	a.json(w, http.StatusOK, statusResponse{
		Status:    kling.Normalize(res.Envelope.DataString("status")),
		RawStatus: rawStatus,
		Provider:  res.Provider.ID,
		Progress:  nil,
	})
}

// resolveTask runs the shared lookup for status and result: read the
// advisory job map, probe providers, and translate transport failure. The
// second return reports whether the map already knew the task.
func (a *App) resolveTask(w http.ResponseWriter, r *http.Request) (*kling.Resolution, bool, bool) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "job id is required")
		return nil, false, false
	}
	apiKey, ok := a.requireKey(w)
	if !ok {
		return nil, false, false
	}

	ctx := context.WithoutCancel(r.Context())
	preferred := ""
	known := false
	rec, err := a.Jobs.Get(ctx, jobID)
	switch {
	case err == nil:
		preferred = rec.Provider
		known = true
	case errors.Is(err, jobstore.ErrNotFound):
		// Normal: the map is best-effort and may have been cleared.
	default:
		a.Logger.Warn().Err(err).Str("task_id", jobID).Msg("job map lookup failed")
	}

	res, err := a.Resolver.ResolveStatus(ctx, jobID, apiKey, preferred)
	if err != nil {
		a.Logger.Error().Err(err).Str("task_id", jobID).Msg("status resolution failed")
		a.error(w, http.StatusInternalServerError, "upstream is unreachable")
		return nil, false, false
	}
	return res, known, true
}

// backfill repairs the job map after a successful probe found the task
// without a prior record.
func (a *App) backfill(r *http.Request, res *kling.Resolution, known bool) {
	if known {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	jobID := chi.URLParam(r, "jobID")
	if err := a.Jobs.Save(ctx, jobID, res.Provider.ID); err != nil {
		a.Logger.Warn().Err(err).Str("task_id", jobID).Msg("failed to backfill task provider")
	}
}
