// Package session owns the authenticated identity and its opaque token. The
// store keeps the pair in memory, mirrors it into a durable vault, and arms
// the API client so subsequent requests carry the token.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/streambuddy/cli/internal/logging"
	"github.com/streambuddy/cli/internal/models"
)

// ErrPasswordMismatch indicates the registration confirmation did not match.
// It is raised locally, before any network call.
var ErrPasswordMismatch = errors.New("passwords do not match")

// AuthAPI captures the backend operations the session store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.Credentials, error)
	Register(ctx context.Context, email, password, confirm string) (models.Credentials, error)
	Logout(ctx context.Context) error
	SetToken(token string)
	ClearToken()
}

// Store manages the session lifecycle. All state transitions flow through
// Login, Register, Logout, and Restore.
type Store struct {
	api   AuthAPI
	vault CredentialVault

	onChange func(active bool)

	mu      sync.RWMutex
	user    models.User
	token   string
	active  bool
	loading bool
}

// NewStore constructs a session store over the provided API client and vault.
func NewStore(api AuthAPI, vault CredentialVault) *Store {
	if api == nil || vault == nil {
		panic("session: api and vault must not be nil")
	}
	return &Store{api: api, vault: vault}
}

// Subscribe registers a callback invoked on every session-presence
// transition. The composition root wires this to the catalog store.
func (s *Store) Subscribe(fn func(active bool)) {
	s.onChange = fn
}

// Current returns the authenticated identity, if any.
func (s *Store) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.active
}

// Token returns the opaque credential for the active session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading reports whether a login or register call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Login authenticates against the backend. On success the identity and token
// are stored in memory and in the vault, and the API client is armed. On
// failure every piece of state is left unchanged.
func (s *Store) Login(ctx context.Context, email, password string) error {
	ctx, span := logging.StartSpan(ctx, "session.login")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	creds, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.establish(ctx, creds)
	return nil
}

// Register creates an account. The confirmation password is checked locally
// first; a mismatch fails fast without a network call. On backend success the
// behavior is identical to Login.
func (s *Store) Register(ctx context.Context, email, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}

	ctx, span := logging.StartSpan(ctx, "session.register")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	creds, err := s.api.Register(ctx, email, password, confirm)
	if err != nil {
		return err
	}

	s.establish(ctx, creds)
	return nil
}

// Logout attempts a backend invalidation call and, regardless of its outcome,
// clears the in-memory state, the vault, and the API client token. It never
// fails from the caller's perspective.
func (s *Store) Logout(ctx context.Context) {
	ctx, span := logging.StartSpan(ctx, "session.logout")
	defer span.End()

	logger := logging.FromContext(ctx)

	if err := s.api.Logout(ctx); err != nil {
		logger.Warn("backend logout failed", "error", err)
	}
	if err := s.vault.Clear(); err != nil {
		logger.Warn("clear persisted session", "error", err)
	}
	s.api.ClearToken()

	s.mu.Lock()
	s.user, s.token = models.User{}, ""
	wasActive := s.active
	s.active = false
	s.mu.Unlock()

	if wasActive {
		s.notify(false)
	}
}

// Restore runs once at process start. It reads the vault and, when a complete
// identity and token pair is present, re-arms the API client and in-memory
// state without any network round trip. Otherwise state stays empty.
func (s *Store) Restore(ctx context.Context) error {
	user, token, ok, err := s.vault.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s.api.SetToken(token)

	s.mu.Lock()
	s.user, s.token = user, token
	wasActive := s.active
	s.active = true
	s.mu.Unlock()

	logging.FromContext(ctx).Debug("session restored", "email", user.Email)

	if !wasActive {
		s.notify(true)
	}
	return nil
}

// establish commits a successful authentication: durable copy first, then the
// client token, then in-memory state and the presence notification.
func (s *Store) establish(ctx context.Context, creds models.Credentials) {
	if err := s.vault.Save(creds.User, creds.Token); err != nil {
		// The session is still usable for this process; it just won't
		// survive a restart.
		logging.FromContext(ctx).Warn("persist session", "error", err)
	}

	s.api.SetToken(creds.Token)

	s.mu.Lock()
	s.user, s.token = creds.User, creds.Token
	wasActive := s.active
	s.active = true
	s.mu.Unlock()

	if !wasActive {
		s.notify(true)
	}
}

func (s *Store) notify(active bool) {
	if s.onChange != nil {
		s.onChange(active)
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
