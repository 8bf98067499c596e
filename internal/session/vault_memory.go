package session

import (
	"sync"

	"github.com/streambuddy/cli/internal/models"
)

// NewMemoryVault returns a CredentialVault backed by process memory, used in
// tests and for throwaway sessions.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

// MemoryVault implements CredentialVault without touching the filesystem.
type MemoryVault struct {
	mu    sync.RWMutex
	user  models.User
	token string
	set   bool
}

// Save stores the pair.
func (v *MemoryVault) Save(user models.User, token string) error {
	v.mu.Lock()
	v.user, v.token, v.set = user, token, true
	v.mu.Unlock()
	return nil
}

// Load returns the stored pair, if any.
func (v *MemoryVault) Load() (models.User, string, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.set || v.token == "" {
		return models.User{}, "", false, nil
	}
	return v.user, v.token, true, nil
}

// Clear removes the pair.
func (v *MemoryVault) Clear() error {
	v.mu.Lock()
	v.user, v.token, v.set = models.User{}, "", false
	v.mu.Unlock()
	return nil
}

// Close is a no-op.
func (v *MemoryVault) Close() error { return nil }

// Has reports whether a complete pair is stored. Useful for tests.
func (v *MemoryVault) Has() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.set
}
