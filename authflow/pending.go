package authflow

import (
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/sessions"
)

// PendingAuthorization is what must survive the round trip through the
// authorization server: the state we sent and the verifier for its challenge.
type PendingAuthorization struct {
	State        string
	CodeVerifier string
}

// PendingRepo keeps the pending authorization in session-scoped storage.
type PendingRepo struct {
	storage sessions.Storage
}

func NewPendingRepo(storage sessions.Storage) *PendingRepo {
	return &PendingRepo{storage: storage}
}

// Upsert stores or replaces the pending authorization
func (r *PendingRepo) Upsert(p PendingAuthorization) error {
	if p.State == "" || p.CodeVerifier == "" {
		return errors.New("state and code verifier cannot be empty")
	}
	if err := r.storage.Set(sessions.KeyOAuthState, p.State); err != nil {
		return errors.Wrapf(err, "[PendingRepo Upsert] storage.Set state")
	}
	if err := r.storage.Set(sessions.KeyCodeVerifier, p.CodeVerifier); err != nil {
		return errors.Wrapf(err, "[PendingRepo Upsert] storage.Set verifier")
	}
	return nil
}

func (r *PendingRepo) Get() (*PendingAuthorization, error) {
	state, ok := r.storage.Get(sessions.KeyOAuthState)
	if !ok || state == "" {
		return nil, errors.ErrNoPendingAuth
	}
	verifier, ok := r.storage.Get(sessions.KeyCodeVerifier)
	if !ok || verifier == "" {
		return nil, errors.ErrNoPendingAuth
	}
	return &PendingAuthorization{State: state, CodeVerifier: verifier}, nil
}

// Delete removes both keys. Deleting an absent record is not an error.
func (r *PendingRepo) Delete() error {
	if err := r.storage.Remove(sessions.KeyOAuthState); err != nil {
		return errors.Wrapf(err, "[PendingRepo Delete] storage.Remove state")
	}
	if err := r.storage.Remove(sessions.KeyCodeVerifier); err != nil {
		return errors.Wrapf(err, "[PendingRepo Delete] storage.Remove verifier")
	}
	return nil
}

// Take returns the pending authorization and deletes it, so a record is only
// ever used once.
func (r *PendingRepo) Take() (*PendingAuthorization, error) {
	p, err := r.Get()
	if delErr := r.Delete(); delErr != nil && err == nil {
		return nil, delErr
	}
	return p, err
}
