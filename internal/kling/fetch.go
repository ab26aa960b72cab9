package kling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrTransport wraps connection-level failures (timeout, DNS, reset) that
// survived every retry attempt. A received HTTP response, whatever its
// status code, is never a transport error.
var ErrTransport = errors.New("kling: upstream unreachable")

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 45 * time.Second

	backoffBase = 900 * time.Millisecond
	backoffStep = 1100 * time.Millisecond
)

// Envelope is one received upstream response: the raw status code plus the
// parsed JSON body. Non-JSON bodies are preserved under a "raw" key.
type Envelope struct {
	OK         bool
	HTTPStatus int
	Body       map[string]any
}

// Data returns the "data" object of the body, or nil.
func (e *Envelope) Data() map[string]any {
	data, _ := e.Body["data"].(map[string]any)
	return data
}

// DataString returns data.<key> as a string, or "".
func (e *Envelope) DataString(key string) string {
	s, _ := e.Data()[key].(string)
	return s
}

// DataStrings returns data.<key> as a string slice, skipping non-string
// elements.
func (e *Envelope) DataStrings(key string) []string {
	raw, _ := e.Data()[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// FetcherOptions configures the retrying upstream client.
type FetcherOptions struct {
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxAttempts int
	Logger      *infra.Logger
}

// Fetcher performs single outbound JSON calls with a per-attempt timeout.
// Transport failures retry with a linear backoff; any received response is
// returned immediately so a 4xx/5xx is never replayed against a billable
// endpoint.
type Fetcher struct {
	httpClient  *http.Client
	timeout     time.Duration
	maxAttempts int
	logger      *infra.Logger
	sleep       func(time.Duration)
}

// NewFetcher constructs a fetcher with sane defaults and injected dependencies.
func NewFetcher(opts FetcherOptions) *Fetcher {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Fetcher{
		httpClient:  httpClient,
		timeout:     timeout,
		maxAttempts: attempts,
		logger:      logger,
		sleep:       time.Sleep,
	}
}

// FetchJSON issues one logical upstream call. The body, if non-nil, is sent
// as JSON. Each attempt runs under its own timeout derived from ctx.
func (f *Fetcher) FetchJSON(ctx context.Context, method, url string, header http.Header, body []byte) (*Envelope, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			f.sleep(backoffBase + time.Duration(attempt-1)*backoffStep)
		}
		env, err := f.attempt(ctx, method, url, header, body)
		if err == nil {
			upstreamRequests.WithLabelValues("response").Inc()
			return env, nil
		}
		upstreamRequests.WithLabelValues("transport").Inc()
		lastErr = err
		f.logger.Warn().
			Err(err).
			Str("method", method).
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("upstream attempt failed")
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrTransport, f.maxAttempts, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, method, url string, header http.Header, body []byte) (*Envelope, error) {
	actx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(actx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	upstreamDuration.Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Envelope{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		HTTPStatus: resp.StatusCode,
		Body:       parseBody(raw),
	}, nil
}

// parseBody decodes the response text. Empty bodies become an empty object;
// non-JSON bodies are kept verbatim under "raw".
func parseBody(raw []byte) map[string]any {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return map[string]any{}
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil || parsed == nil {
		return map[string]any{"raw": text}
	}
	return parsed
}
