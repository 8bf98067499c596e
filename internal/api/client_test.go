package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientAttachesTokenOnceArmed(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)

	if _, err := client.ListVideos(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	client.SetToken("T1")
	if _, err := client.ListVideos(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	client.ClearToken()
	if _, err := client.ListVideos(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"", "Token T1", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d: expected authorization %q got %q", i, want[i], got[i])
		}
	}
}

func TestClientLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login/" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"a@b.com"`) {
			t.Fatalf("unexpected payload %s", body)
		}
		w.Write([]byte(`{"user":{"id":"u1","email":"a@b.com"},"token":"T1"}`))
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)

	creds, err := client.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if creds.User.ID != "u1" || creds.Token != "T1" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestClientStatusErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"error field", http.StatusBadRequest, `{"error":"bad file"}`, "bad file"},
		{"detail field", http.StatusUnauthorized, `{"detail":"invalid token"}`, "invalid token"},
		{"throttle shape", http.StatusTooManyRequests, `{"error":"rate_limit_exceeded","message":"Too many requests. Please try again later."}`, "Too many requests. Please try again later."},
		{"non field errors", http.StatusBadRequest, `{"non_field_errors":["Unable to log in with provided credentials."]}`, "Unable to log in with provided credentials."},
		{"no body", http.StatusInternalServerError, ``, "Internal Server Error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := New(server.URL, 0, nil)

			_, err := client.ListVideos(context.Background())
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError got %v", err)
			}
			if statusErr.Code != tc.code {
				t.Fatalf("expected code %d got %d", tc.code, statusErr.Code)
			}
			if statusErr.Message != tc.want {
				t.Fatalf("expected message %q got %q", tc.want, statusErr.Message)
			}
		})
	}
}

func TestClientListVideosRejectsNonList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"unexpected object"}`))
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)

	if _, err := client.ListVideos(context.Background()); err == nil {
		t.Fatal("expected error for non-list response body")
	}
}

func TestClientUploadVideoMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos/upload/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "clip" {
			t.Fatalf("expected title %q got %q", "clip", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "clip.mp4" {
			t.Fatalf("expected filename clip.mp4 got %q", header.Filename)
		}
		contents, _ := io.ReadAll(file)
		if string(contents) != "raw video bytes" {
			t.Fatalf("unexpected file contents %q", contents)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)

	err := client.UploadVideo(context.Background(), "clip", "clip.mp4", strings.NewReader("raw video bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
}

func TestClientDeleteVideoEscapesTitle(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		path = r.URL.EscapedPath()
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)

	if err := client.DeleteVideo(context.Background(), "my clip"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if path != "/api/videos/my%20clip/" {
		t.Fatalf("unexpected path %q", path)
	}
}
