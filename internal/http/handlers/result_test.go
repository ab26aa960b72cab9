package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResultCompleted(t *testing.T) {
	app, jobs := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ai/image-to-video/kling-2.1-pro/abc123" {
			t.Fatalf("unexpected upstream path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"status":"COMPLETED","generated":["https://cdn/video.mp4"]}}`))
	})
	if err := jobs.Save(context.Background(), "abc123", "kling-2.1-pro"); err != nil {
		t.Fatal(err)
	}

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/result/abc123", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected code: %d body %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["videoUrl"] != "https://cdn/video.mp4" || resp["provider"] != "kling-2.1-pro" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestResultNotReady(t *testing.T) {
	app, jobs := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"IN_PROGRESS"}}`))
	})
	if err := jobs.Save(context.Background(), "abc123", "kling-2.1-pro"); err != nil {
		t.Fatal(err)
	}

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/result/abc123", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unfinished task, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["raw_status"] != "IN_PROGRESS" {
		t.Fatalf("raw_status must accompany the error: %v", resp)
	}
}

func TestResultCompletedCaseInsensitive(t *testing.T) {
	app, jobs := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"completed","generated":["https://cdn/v.mp4"]}}`))
	})
	if err := jobs.Save(context.Background(), "abc123", "kling-2.1-pro"); err != nil {
		t.Fatal(err)
	}

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/result/abc123", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("lowercase completed must be accepted, got %d", rec.Code)
	}
}

func TestResultCompletedButEmpty(t *testing.T) {
	app, jobs := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"COMPLETED","generated":[]}}`))
	})
	if err := jobs.Save(context.Background(), "abc123", "kling-2.1-pro"); err != nil {
		t.Fatal(err)
	}

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/result/abc123", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("completed without a URL is a 400, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["error"] == nil {
		t.Fatalf("expected error body: %v", resp)
	}
}
