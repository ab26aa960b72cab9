package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/credentials"
	"server/internal/infra"
	"server/internal/jobstore"
	"server/internal/kling"
)

// newTestApp wires an App against a fake upstream and an in-memory job map.
func newTestApp(t *testing.T, upstream http.HandlerFunc) (*App, *jobstore.MemoryStore) {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	discard := zerolog.New(io.Discard)
	logger := infra.Logger(discard)

	registry := kling.NewRegistry(ts.URL)
	fetcher := kling.NewFetcher(kling.FetcherOptions{MaxAttempts: 1, Logger: &logger})
	jobs := jobstore.NewMemoryStore()
	keys, err := credentials.NewStore("")
	if err != nil {
		t.Fatalf("credentials store: %v", err)
	}
	if err := keys.SetKey("sk-test"); err != nil {
		t.Fatalf("set key: %v", err)
	}

	app := NewApp(&logger, registry, kling.NewClient(fetcher, &logger), kling.NewResolver(registry, fetcher, &logger), jobs, keys)
	return app, jobs
}

// serve routes the request through chi so URL params resolve as in production.
func serve(app *App, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/generate", app.Generate)
	r.Get("/status/{jobID}", app.Status)
	r.Get("/result/{jobID}", app.Result)
	r.Get("/key", app.GetKey)
	r.Post("/key", app.SetKey)
	r.Get("/ping", app.Ping)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func newEmptyKeyStore(t *testing.T) *credentials.Store {
	t.Helper()
	keys, err := credentials.NewStore("")
	if err != nil {
		t.Fatalf("credentials store: %v", err)
	}
	return keys
}

func TestPing(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	rec := serve(app, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected code: %d", rec.Code)
	}
	if body := decode(t, rec); body["ok"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}
