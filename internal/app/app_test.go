package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/streambuddy/cli/internal/config"
)

// scenarioBackend is a minimal in-process StreamBuddy backend.
type scenarioBackend struct {
	mu     sync.Mutex
	videos []map[string]any
	tokens []string
	calls  []string
}

func (b *scenarioBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": "u1", "email": "a@b.com"},
			"token": "T1",
		})
	})

	mux.HandleFunc("GET /api/videos/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(b.videos)
	})

	mux.HandleFunc("DELETE /api/videos/{title}/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.mu.Lock()
		b.videos = nil
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func (b *scenarioBackend) record(r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.tokens = append(b.tokens, r.Header.Get("Authorization"))
	b.mu.Unlock()
}

func TestLoginListDeleteFlow(t *testing.T) {
	backend := &scenarioBackend{videos: []map[string]any{{
		"id":                "1",
		"title":             "clip",
		"display_title":     "Clip",
		"original_filename": "clip.mp4",
		"uploaded_at":       "2026-01-01T00:00:00Z",
		"processed":         true,
	}}}

	server := httptest.NewServer(backend.handler())
	defer server.Close()

	cfg := config.Config{
		BaseURL:      server.URL,
		StateBackend: "memory",
		LogLevel:     "error",
	}

	ctx := context.Background()
	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer a.Close()

	if _, active := a.Session.Current(); active {
		t.Fatal("expected no session before login")
	}

	if err := a.Session.Login(ctx, "a@b.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if a.Session.Token() != "T1" {
		t.Fatalf("expected token T1 got %q", a.Session.Token())
	}

	// The presence transition triggered exactly one refresh, authenticated
	// with the stored token.
	videos := a.Catalog.Videos()
	if len(videos) != 1 || videos[0].ID != "1" {
		t.Fatalf("expected one entry with id 1 got %+v", videos)
	}

	backend.mu.Lock()
	listCalls := 0
	for i, call := range backend.calls {
		if call == "GET /api/videos/" {
			listCalls++
			if backend.tokens[i] != "Token T1" {
				t.Fatalf("expected authenticated list call got %q", backend.tokens[i])
			}
		}
	}
	backend.mu.Unlock()
	if listCalls != 1 {
		t.Fatalf("expected exactly one refresh after login got %d", listCalls)
	}

	if err := a.Catalog.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	backend.mu.Lock()
	deleted := false
	for _, call := range backend.calls {
		if call == "DELETE /api/videos/clip/" {
			deleted = true
		}
	}
	backend.mu.Unlock()
	if !deleted {
		t.Fatalf("expected DELETE /api/videos/clip/ in %v", backend.calls)
	}

	if got := a.Catalog.Videos(); len(got) != 0 {
		t.Fatalf("expected empty catalog got %+v", got)
	}
}

func TestRestoreFeedsCatalogOnStartup(t *testing.T) {
	backend := &scenarioBackend{}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	cfg := config.Config{
		BaseURL:      server.URL,
		StateBackend: "memory",
		LogLevel:     "error",
	}

	ctx := context.Background()
	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer a.Close()

	// A fresh vault has nothing to restore, so no refresh happened.
	backend.mu.Lock()
	calls := len(backend.calls)
	backend.mu.Unlock()
	if calls != 0 {
		t.Fatalf("expected no backend calls without a session got %v", backend.calls)
	}
}
