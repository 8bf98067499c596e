// Package app is the composition root: it assembles the API client, the
// session and catalog stores, and the player from configuration, and wires
// the session-presence subscription between the two stores.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/streambuddy/cli/internal/api"
	"github.com/streambuddy/cli/internal/catalog"
	"github.com/streambuddy/cli/internal/config"
	"github.com/streambuddy/cli/internal/player"
	"github.com/streambuddy/cli/internal/session"
)

// App aggregates the assembled client components.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	API     *api.Client
	Session *session.Store
	Catalog *catalog.Store
	Player  *player.Player

	vault session.CredentialVault
}

// New builds the application from configuration and restores any persisted
// session. The catalog subscription fires during Restore when a complete
// credential pair was persisted, so the first refresh happens here.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	vault, err := session.OpenVault(cfg.StateBackend, filepath.Join(cfg.StateDir, "credentials"))
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.BaseURL, cfg.RequestsPerMinute, logger)
	sess := session.NewStore(client, vault)
	cat := catalog.NewStore(client)

	sess.Subscribe(func(active bool) {
		cat.SetActive(ctx, active)
	})

	if err := sess.Restore(ctx); err != nil {
		vault.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		API:     client,
		Session: sess,
		Catalog: cat,
		Player:  player.New(cfg.PlayerPath, cfg.PlayerTimeout),
		vault:   vault,
	}, nil
}

// Close releases the credential vault.
func (a *App) Close() error {
	if a == nil || a.vault == nil {
		return nil
	}
	return a.vault.Close()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
