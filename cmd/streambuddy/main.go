package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streambuddy/cli/internal/app"
	"github.com/streambuddy/cli/internal/config"
	"github.com/streambuddy/cli/internal/session"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "streambuddy",
	Short:         "Client for the StreamBuddy video hosting service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, videosCmd, configCmd)
}

// newApp loads configuration and assembles the client. The caller must defer
// a.Close().
func newApp(ctx context.Context) (*app.App, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	return app.New(ctx, cfg)
}

// requireSession is the command-line analog of a session-gated route: when no
// session is present the command refuses to run and points at login.
func requireSession(a *app.App) error {
	if _, ok := a.Session.Current(); !ok {
		return errors.New("not logged in; run 'streambuddy login' first")
	}
	return nil
}

var loginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Authenticate and store the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		if err := a.Session.Login(ctx, args[0], password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		user, _ := a.Session.Current()
		fmt.Printf("Logged in as %s\n", user.Email)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register EMAIL",
	Short: "Create an account and start a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}

		if err := a.Session.Register(ctx, args[0], password, confirm); err != nil {
			if errors.Is(err, session.ErrPasswordMismatch) {
				return err
			}
			return fmt.Errorf("registration failed: %w", err)
		}

		user, _ := a.Session.Current()
		fmt.Printf("Registered and logged in as %s\n", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Session.Logout(ctx)
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := requireSession(a); err != nil {
			return err
		}

		user, _ := a.Session.Current()
		if user.Name != "" {
			fmt.Printf("%s <%s>\n", user.Name, user.Email)
		} else {
			fmt.Println(user.Email)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}

		cfg, err := config.Load("")
		if err != nil {
			return err
		}

		if err := config.Init(path, cfg); err != nil {
			return err
		}

		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		fmt.Printf("Base URL:      %s\n", cfg.BaseURL)
		fmt.Printf("State dir:     %s\n", cfg.StateDir)
		fmt.Printf("State backend: %s\n", cfg.StateBackend)
		fmt.Printf("Player:        %s\n", cfg.PlayerPath)
		fmt.Printf("Log level:     %s\n", cfg.LogLevel)
		return nil
	},
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
