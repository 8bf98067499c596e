// Package player hands a streaming manifest URL to an external
// adaptive-bitrate player. Manifest parsing and segment selection belong to
// the player binary; this package only resolves the URL and launches it.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/streambuddy/cli/internal/models"
)

// DemoManifestURL is played when a catalog entry has no manifest of its own,
// typically because processing has not finished yet.
const DemoManifestURL = "https://dash.akamaized.net/envivio/EnvivioDash3/manifest.mpd"

// ErrPlayerUnavailable indicates no player binary is configured.
var ErrPlayerUnavailable = errors.New("player not configured")

// CommandRunner launches an external command and waits for it to exit.
type CommandRunner func(ctx context.Context, binary string, args ...string) error

// Player shells out to an external playback binary such as mpv or ffplay.
type Player struct {
	Binary  string
	Run     CommandRunner
	Timeout time.Duration
}

// New constructs a Player for the provided binary. A zero timeout means the
// playback process runs until the user closes it.
func New(binary string, timeout time.Duration) *Player {
	if strings.TrimSpace(binary) == "" {
		binary = "mpv"
	}
	return &Player{
		Binary:  binary,
		Run:     defaultCommandRunner,
		Timeout: timeout,
	}
}

// Play resolves the video's manifest URL and hands it to the player binary.
func (p *Player) Play(ctx context.Context, video models.Video) error {
	if p == nil {
		return ErrPlayerUnavailable
	}
	if p.Run == nil {
		p.Run = defaultCommandRunner
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if err := p.Run(ctx, p.Binary, ManifestURL(video)); err != nil {
		return fmt.Errorf("play %s: %w", video.DisplayTitle, err)
	}
	return nil
}

// ManifestURL returns the entry's streaming manifest, falling back to the
// public demo manifest when the entry has none.
func ManifestURL(video models.Video) string {
	if video.ManifestURL != "" {
		return video.ManifestURL
	}
	return DemoManifestURL
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
