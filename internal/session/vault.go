package session

import (
	"errors"
	"fmt"

	"github.com/streambuddy/cli/internal/models"
)

// Durable storage keys for the persisted session. Both are written and
// removed together; a partial pair is treated as no session.
const (
	userKey  = "streambuddy_user"
	tokenKey = "streambuddy_token"
)

// ErrVaultUnavailable indicates the credential vault is not configured.
var ErrVaultUnavailable = errors.New("credential vault unavailable")

// CredentialVault persists the identity and token pair across process
// restarts. Save and Clear act on both values atomically.
type CredentialVault interface {
	Save(user models.User, token string) error
	Load() (models.User, string, bool, error)
	Clear() error
	Close() error
}

// OpenVault creates a CredentialVault for the configured backend.
func OpenVault(backend, dir string) (CredentialVault, error) {
	switch backend {
	case "", "badger":
		return OpenBadgerVault(dir)
	case "memory":
		return NewMemoryVault(), nil
	default:
		return nil, fmt.Errorf("unknown vault backend: %s", backend)
	}
}
