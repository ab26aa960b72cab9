package kling

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingTaskID indicates a 2xx create response without a task identifier,
// which means the upstream contract is broken rather than the request.
var ErrMissingTaskID = errors.New("kling: create response missing data.task_id")

// GenerationRequest captures one image-to-video submission. It lives only
// for the duration of the create call and is never persisted.
type GenerationRequest struct {
	Image          []byte
	Prompt         string
	NegativePrompt string
	Duration       string
	CfgScale       float64
	ImageTail      string
	WebhookURL     string
}

// Client submits generation tasks to a provider's create endpoint.
type Client struct {
	fetcher *Fetcher
	logger  *infra.Logger
}

// NewClient constructs a create-task client around the given fetcher.
func NewClient(fetcher *Fetcher, logger *infra.Logger) *Client {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{fetcher: fetcher, logger: logger}
}

// CreateTask submits req to the profile's create endpoint and returns the
// upstream task identifier. A non-2xx upstream response is returned in the
// envelope with an empty task ID and a nil error; the caller decides how to
// relay it.
func (c *Client) CreateTask(ctx context.Context, apiKey string, profile ProviderProfile, req GenerationRequest) (string, *Envelope, error) {
	duration := strings.TrimSpace(req.Duration)
	if duration != "5" && duration != "10" {
		duration = "5"
	}
	cfgScale := req.CfgScale
	if cfgScale < 0 || cfgScale > 1 {
		cfgScale = 0.5
	}

	payload := map[string]any{
		"image":           base64.StdEncoding.EncodeToString(req.Image),
		"prompt":          req.Prompt,
		"negative_prompt": req.NegativePrompt,
		"duration":        duration,
		"cfg_scale":       cfgScale,
	}
	if tail := strings.TrimSpace(req.ImageTail); profile.SupportsTail && tail != "" && !strings.EqualFold(tail, "null") {
		payload["image_tail"] = tail
	}
	if webhook := strings.TrimSpace(req.WebhookURL); webhook != "" {
		payload["callback_url"] = webhook
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("kling: encode create payload: %w", err)
	}

	env, err := c.fetcher.FetchJSON(ctx, http.MethodPost, profile.CreateURL(), authHeader(apiKey), body)
	if err != nil {
		return "", nil, err
	}
	if !env.OK {
		return "", env, nil
	}
	taskID := strings.TrimSpace(env.DataString("task_id"))
	if taskID == "" {
		return "", env, ErrMissingTaskID
	}
	c.logger.Info().
		Str("provider", profile.ID).
		Str("task_id", taskID).
		Msg("generation task created")
	return taskID, env, nil
}

func authHeader(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+apiKey)
	return h
}
