// Package session owns the current token and user identity and decides when
// the token needs a background refresh.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/binehq/bine-shell/storage"
	"github.com/binehq/bine-shell/token"
)

// Fixed storage keys for the two halves of the session.
const (
	tokenStorageKey = "token"
	userStorageKey  = "user"
)

const defaultRefreshWindow = 2 * time.Minute

// Refresher exchanges the current token for a fresh one.
type Refresher interface {
	Refresh(ctx context.Context, current string) (string, error)
}

// Store is the single source of truth for the current token and user
// identity, backed by a session-scoped string storage medium. It performs no
// locking of its own beyond what the medium provides: concurrent writers
// (a completing refresh racing a fresh login) are resolved last-write-wins.
type Store struct {
	medium    storage.Medium
	refresher Refresher
	window    time.Duration
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithRefreshWindow sets how close to expiry a token must be before
// RefreshIfExpiringSoon acts.
func WithRefreshWindow(window time.Duration) StoreOption {
	return func(s *Store) {
		s.window = window
	}
}

// NewStore initializes a Store with required dependencies.
func NewStore(medium storage.Medium, refresher Refresher, options ...StoreOption) (*Store, error) {
	if medium == nil {
		return nil, errors.New("[NewStore] storage medium is required")
	}
	if refresher == nil {
		return nil, errors.New("[NewStore] refresher is required")
	}

	store := &Store{
		medium:    medium,
		refresher: refresher,
		window:    defaultRefreshWindow,
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// SetToken stores the raw token string; an empty token removes the stored
// one. No validation of token shape is performed here.
func (s *Store) SetToken(tok string) error {
	if tok == "" {
		return errors.Wrap(s.medium.Delete(tokenStorageKey), "[SetToken] medium.Delete")
	}
	return errors.Wrap(s.medium.Set(tokenStorageKey, tok), "[SetToken] medium.Set")
}

// Token returns the raw stored token, "" when absent. No decoding is
// performed.
func (s *Store) Token() (string, error) {
	value, ok, err := s.medium.Get(tokenStorageKey)
	if err != nil {
		return "", errors.Wrap(err, "[Token] medium.Get")
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

// SetUser serializes and stores the user identity; nil removes the stored
// one.
func (s *Store) SetUser(user *UserIdentity) error {
	if user == nil {
		return errors.Wrap(s.medium.Delete(userStorageKey), "[SetUser] medium.Delete")
	}
	serialized, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[SetUser] json.Marshal")
	}
	return errors.Wrap(s.medium.Set(userStorageKey, string(serialized)), "[SetUser] medium.Set")
}

// User returns the stored user identity, nil when absent. A stored record
// that fails to deserialize returns a *CorruptUserError.
func (s *Store) User() (*UserIdentity, error) {
	raw, ok, err := s.medium.Get(userStorageKey)
	if err != nil {
		return nil, errors.Wrap(err, "[User] medium.Get")
	}
	if !ok {
		return nil, nil
	}

	var user UserIdentity
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, &CorruptUserError{Raw: raw, Err: err}
	}
	return &user, nil
}

// SetTokenAndUser stores both halves of the session after a successful login.
// The two writes are independent, not transactional: a failure between them
// leaves a token without a user.
func (s *Store) SetTokenAndUser(tok string, user *UserIdentity) error {
	if err := s.SetToken(tok); err != nil {
		return err
	}
	return s.SetUser(user)
}

// Clear empties the session: user first, then token.
func (s *Store) Clear() error {
	if err := s.SetUser(nil); err != nil {
		return err
	}
	return s.SetToken("")
}

// IsTokenExpired reports whether the session's token can no longer be
// trusted: absent, past its embedded expiration, or undecodable
// (fail-closed).
func (s *Store) IsTokenExpired() bool {
	raw, err := s.Token()
	if err != nil || raw == "" {
		return true
	}
	return token.Expired(raw)
}

// RefreshIfExpiringSoon asks the refresh endpoint for a new token when the
// stored one is inside the refresh window, and overwrites the stored token on
// success. Absent or undecodable tokens are left alone, as are tokens that
// already expired: the backend would reject them, and the guard forces a
// login instead.
func (s *Store) RefreshIfExpiringSoon(ctx context.Context) error {
	raw, err := s.Token()
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	remaining, err := token.TimeToExpiry(raw)
	if err != nil {
		return nil
	}
	if remaining <= 0 || remaining > s.window {
		return nil
	}

	fresh, err := s.refresher.Refresh(ctx, raw)
	if err != nil {
		return errors.Wrap(err, "[RefreshIfExpiringSoon] refresher.Refresh")
	}
	return s.SetToken(fresh)
}
