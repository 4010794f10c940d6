// Package session keeps console session cookies in the OS keyring.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service name entries are stored under.
const KeyringService = "stackswitch"

// Store holds one cookie header per console origin.
type Store struct {
	service string
}

func NewStore() *Store {
	return &Store{service: KeyringService}
}

// Set saves the Cookie header value used for requests to origin.
func (s *Store) Set(origin, cookie string) error {
	origin = normalizeOrigin(origin)
	cookie = strings.TrimSpace(cookie)
	if origin == "" {
		return fmt.Errorf("origin is required")
	}
	if cookie == "" {
		return fmt.Errorf("cookie is required")
	}
	if err := keyring.Set(s.service, origin, cookie); err != nil {
		return fmt.Errorf("failed to save session for %s: %w", origin, err)
	}
	return nil
}

// Get returns the cookie saved for origin, if any.
func (s *Store) Get(origin string) (string, bool, error) {
	cookie, err := keyring.Get(s.service, normalizeOrigin(origin))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session for %s: %w", origin, err)
	}
	return cookie, true, nil
}

// Clear removes the cookie saved for origin.
func (s *Store) Clear(origin string) error {
	err := keyring.Delete(s.service, normalizeOrigin(origin))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear session for %s: %w", origin, err)
	}
	return nil
}

func normalizeOrigin(origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/")
}
