// Package sessions persists the connected account's auth data across page
// loads and decides when it has expired.
package sessions

import (
	"encoding/json"
	"time"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/rs/zerolog/log"
)

// Store reads and writes the single AuthData record held in a Storage.
type Store struct {
	storage Storage
	now     func() time.Time
}

type StoreOption func(*Store)

// WithClock overrides time.Now, used by the expiry checks
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save replaces any existing record.
func (s *Store) Save(data AuthData) error {
	if data.ConnectedAt.IsZero() {
		data.ConnectedAt = s.now().UTC()
	}

	b, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "[Store Save] json.Marshal")
	}
	if err := s.storage.Set(KeyAuthData, string(b)); err != nil {
		return errors.Wrapf(err, "[Store Save] storage.Set")
	}
	return nil
}

// Load returns the stored record without checking expiry. A record that cannot
// be decoded is removed.
func (s *Store) Load() (*AuthData, error) {
	raw, ok := s.storage.Get(KeyAuthData)
	if !ok || raw == "" {
		return nil, errors.ErrSessionNotFound
	}

	var data AuthData
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data.AccessToken == "" {
		if rmErr := s.storage.Remove(KeyAuthData); rmErr != nil {
			log.Err(rmErr).Msg("[Store Load] failed to remove corrupt session")
		}
		if err == nil {
			return nil, errors.Wrapf(errors.ErrSessionCorrupt, "[Store Load] no access token")
		}
		return nil, errors.Wrapf(errors.ErrSessionCorrupt, "[Store Load] %v", err)
	}
	return &data, nil
}

// IsExpired reports whether now is at or past connectedAt + expiresIn. A
// record without a positive expiresIn never expires.
func (s *Store) IsExpired(data AuthData) bool {
	expiresAt, ok := data.ExpiresAt()
	if !ok {
		return false
	}
	return !s.now().Before(expiresAt)
}

// Restore returns the stored record when it is present and still valid. An
// expired record is purged.
func (s *Store) Restore() (*AuthData, bool) {
	data, err := s.Load()
	if err != nil {
		if !errors.Is(err, errors.ErrSessionNotFound) {
			log.Warn().Err(err).Msg("[Store Restore] discarding stored session")
		}
		return nil, false
	}

	if s.IsExpired(*data) {
		log.Info().Time("connectedAt", data.ConnectedAt).Msg("[Store Restore] session expired")
		if err := s.Clear(); err != nil {
			log.Err(err).Msg("[Store Restore] failed to clear expired session")
		}
		return nil, false
	}
	return data, true
}

func (s *Store) Clear() error {
	if err := s.storage.Remove(KeyAuthData); err != nil {
		return errors.Wrapf(err, "[Store Clear] storage.Remove")
	}
	return nil
}
