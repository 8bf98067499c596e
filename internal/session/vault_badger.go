package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/streambuddy/cli/internal/models"
)

// BadgerVault stores the credential pair in an embedded badger database under
// the client's state directory. Writes to the two keys share a transaction so
// the pair is always complete or absent.
type BadgerVault struct {
	db *badger.DB
}

// OpenBadgerVault opens (creating if needed) the credential database at dir.
func OpenBadgerVault(dir string) (*BadgerVault, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open credential vault: %w", err)
	}
	return &BadgerVault{db: db}, nil
}

// Close releases the underlying database.
func (v *BadgerVault) Close() error {
	if v == nil || v.db == nil {
		return nil
	}
	return v.db.Close()
}

// Save persists the identity and token in a single transaction.
func (v *BadgerVault) Save(user models.User, token string) error {
	if v == nil || v.db == nil {
		return ErrVaultUnavailable
	}

	buf, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return v.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(userKey), buf); err != nil {
			return err
		}
		return txn.Set([]byte(tokenKey), []byte(token))
	})
}

// Load reads the persisted pair. The boolean is false when either value is
// missing.
func (v *BadgerVault) Load() (models.User, string, bool, error) {
	if v == nil || v.db == nil {
		return models.User{}, "", false, ErrVaultUnavailable
	}

	var (
		user  models.User
		token string
	)

	err := v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKey))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		}); err != nil {
			return err
		}

		item, err = txn.Get([]byte(tokenKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.User{}, "", false, nil
	}
	if err != nil {
		return models.User{}, "", false, fmt.Errorf("load credentials: %w", err)
	}
	if token == "" {
		return models.User{}, "", false, nil
	}

	return user, token, true, nil
}

// Clear removes both values in a single transaction.
func (v *BadgerVault) Clear() error {
	if v == nil || v.db == nil {
		return ErrVaultUnavailable
	}

	return v.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(userKey)); err != nil {
			return err
		}
		return txn.Delete([]byte(tokenKey))
	})
}
