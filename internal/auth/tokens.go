// Package auth persists the storefront bearer token, preferring the
// system keychain with a plaintext local-store fallback.
package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"

	"github.com/meropasal/pasal-cli/internal/localstore"
)

const serviceName = "pasal"

// TokenStore handles bearer-token storage.
type TokenStore struct {
	useKeyring bool
	local      *localstore.Store
}

// NewTokenStore creates a token store. The local store serves as fallback
// when no system keyring is available (and always holds the session flags).
func NewTokenStore(local *localstore.Store) *TokenStore {
	// Skip keyring for tests or when explicitly disabled
	if os.Getenv("PASAL_NO_KEYRING") != "" {
		return &TokenStore{useKeyring: false, local: local}
	}

	testKey := "pasal::test"
	if err := keyring.Set(serviceName, testKey, "test"); err == nil {
		_ = keyring.Delete(serviceName, testKey) // Best-effort cleanup
		return &TokenStore{useKeyring: true, local: local}
	}
	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, token stored in plaintext at %s\n",
		filepath.Dir(local.Path()))
	return &TokenStore{useKeyring: false, local: local}
}

// Token returns the stored bearer token, or "" when not signed in.
// PASAL_TOKEN overrides any stored value.
func (s *TokenStore) Token() string {
	if tok := os.Getenv("PASAL_TOKEN"); tok != "" {
		return tok
	}
	if s.useKeyring {
		tok, err := keyring.Get(serviceName, localstore.KeyAuthToken)
		if err == nil {
			return tok
		}
		return ""
	}
	tok, _ := s.local.Get(localstore.KeyAuthToken)
	return tok
}

// Save stores the bearer token.
func (s *TokenStore) Save(token string) error {
	if s.useKeyring {
		return keyring.Set(serviceName, localstore.KeyAuthToken, token)
	}
	return s.local.Set(localstore.KeyAuthToken, token)
}

// Clear removes the stored token.
func (s *TokenStore) Clear() error {
	if s.useKeyring {
		err := keyring.Delete(serviceName, localstore.KeyAuthToken)
		if err == keyring.ErrNotFound {
			return nil
		}
		return err
	}
	return s.local.Delete(localstore.KeyAuthToken)
}
