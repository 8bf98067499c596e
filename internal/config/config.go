package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config captures the runtime configuration for the StreamBuddy client.
type Config struct {
	BaseURL           string        `toml:"base_url"`
	StateDir          string        `toml:"state_dir"`
	StateBackend      string        `toml:"state_backend"`
	LogLevel          string        `toml:"log_level"`
	PlayerPath        string        `toml:"player_path"`
	PlayerTimeout     time.Duration `toml:"-"`
	RequestsPerMinute int           `toml:"requests_per_minute"`
}

// DefaultPath returns the location of the client configuration file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config directory: %w", err)
	}
	return filepath.Join(dir, "streambuddy", "config.toml"), nil
}

// Load reads configuration from the optional TOML file at path, then applies
// environment variable overrides and defaults. A missing file is not an error;
// environment variables always win.
func Load(path string) (Config, error) {
	cfg := Config{}

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			decoded, derr := decode(f)
			f.Close()
			if derr != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, derr)
			}
			cfg = decoded
		case errors.Is(err, os.ErrNotExist):
			// fall through to env and defaults
		default:
			return Config{}, fmt.Errorf("open config %s: %w", path, err)
		}
	}

	cfg.BaseURL = getString("STREAMBUDDY_API_BASE_URL", fallback(cfg.BaseURL, "http://localhost"))
	cfg.StateDir = getString("STREAMBUDDY_STATE_DIR", cfg.StateDir)
	cfg.StateBackend = getString("STREAMBUDDY_STATE_BACKEND", fallback(cfg.StateBackend, "badger"))
	cfg.LogLevel = getString("STREAMBUDDY_LOG_LEVEL", fallback(cfg.LogLevel, "warn"))
	cfg.PlayerPath = getString("STREAMBUDDY_PLAYER", fallback(cfg.PlayerPath, "mpv"))
	cfg.PlayerTimeout = getDuration("STREAMBUDDY_PLAYER_TIMEOUT", 0)
	cfg.RequestsPerMinute = getInt("STREAMBUDDY_REQUESTS_PER_MINUTE", fallbackInt(cfg.RequestsPerMinute, 60))

	if cfg.StateDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("determine state directory: %w", err)
		}
		cfg.StateDir = filepath.Join(dir, "streambuddy", "state")
	}

	return cfg, nil
}

// Init writes a starter configuration file at path, creating parent
// directories as needed. It refuses to overwrite an existing file.
func Init(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader) (Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func fallbackInt(value, def int) int {
	if value > 0 {
		return value
	}
	return def
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
