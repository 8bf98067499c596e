package player

import (
	"context"
	"errors"
	"testing"

	"github.com/streambuddy/cli/internal/models"
)

func TestManifestURLFallsBackToDemo(t *testing.T) {
	if got := ManifestURL(models.Video{ManifestURL: "https://cdn.example/v1.mpd"}); got != "https://cdn.example/v1.mpd" {
		t.Fatalf("unexpected manifest %q", got)
	}
	if got := ManifestURL(models.Video{}); got != DemoManifestURL {
		t.Fatalf("expected demo manifest got %q", got)
	}
}

func TestPlayHandsManifestToBinary(t *testing.T) {
	var gotBinary string
	var gotArgs []string

	p := New("mpv", 0)
	p.Run = func(_ context.Context, binary string, args ...string) error {
		gotBinary = binary
		gotArgs = args
		return nil
	}

	video := models.Video{DisplayTitle: "Clip", ManifestURL: "https://cdn.example/clip.mpd"}
	if err := p.Play(context.Background(), video); err != nil {
		t.Fatalf("play: %v", err)
	}

	if gotBinary != "mpv" {
		t.Fatalf("unexpected binary %q", gotBinary)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "https://cdn.example/clip.mpd" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
}

func TestPlayWrapsRunnerError(t *testing.T) {
	p := New("", 0)
	p.Run = func(context.Context, string, ...string) error {
		return errors.New("exit status 2")
	}

	err := p.Play(context.Background(), models.Video{DisplayTitle: "Clip"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewDefaultsBinary(t *testing.T) {
	if p := New("  ", 0); p.Binary != "mpv" {
		t.Fatalf("expected default binary mpv got %q", p.Binary)
	}
}
