package authflow

import (
	"context"
	"crypto/subtle"
	"net/url"
	"time"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/pkce"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/jrsteele09/reload-agent-demo/sessions"
	"github.com/rs/zerolog/log"
)

// State is where a Flow is in the authorization round trip.
type State int

const (
	StateUnauthenticated State = iota
	StateAwaitingCallback
	StateExchangingToken
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAwaitingCallback:
		return "awaiting_callback"
	case StateExchangingToken:
		return "exchanging_token"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Exchanger swaps an authorization code and verifier for a token. The client
// secret lives behind this interface and never reaches the Flow.
type Exchanger interface {
	ExchangeToken(ctx context.Context, req oauth2.ExchangeRequest) (*oauth2.TokenResponse, error)
}

// ExchangerFunc adapts a function to the Exchanger interface
type ExchangerFunc func(ctx context.Context, req oauth2.ExchangeRequest) (*oauth2.TokenResponse, error)

func (f ExchangerFunc) ExchangeToken(ctx context.Context, req oauth2.ExchangeRequest) (*oauth2.TokenResponse, error) {
	return f(ctx, req)
}

// Flow is one browser's authorization state machine. It is not safe for
// concurrent use.
type Flow struct {
	client    ClientConfig
	pending   *PendingRepo
	store     *sessions.Store
	exchanger Exchanger
	now       func() time.Time
	state     State
}

type FlowOption func(*Flow)

func WithClock(now func() time.Time) FlowOption {
	return func(f *Flow) {
		f.now = now
	}
}

// NewFlow picks up where the storage left off: a pending record means a
// callback is awaited, a valid session means the user is connected.
func NewFlow(client ClientConfig, pendingStorage sessions.Storage, store *sessions.Store, exchanger Exchanger, opts ...FlowOption) *Flow {
	f := &Flow{
		client:    client,
		pending:   NewPendingRepo(pendingStorage),
		store:     store,
		exchanger: exchanger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	if _, err := f.pending.Get(); err == nil {
		f.state = StateAwaitingCallback
	} else if _, ok := store.Restore(); ok {
		f.state = StateAuthenticated
	}
	return f
}

func (f *Flow) State() State {
	return f.state
}

// Begin generates fresh PKCE parameters, persists them and returns the
// authorization URL the browser must navigate to.
func (f *Flow) Begin(selection reload.Selection) (string, error) {
	params := pkce.New()

	authURL, err := BuildAuthorizationURL(f.client, selection, params.Challenge, params.State)
	if err != nil {
		return "", err
	}

	if err := f.pending.Upsert(PendingAuthorization{State: params.State, CodeVerifier: params.Verifier}); err != nil {
		return "", errors.Wrapf(err, "[Flow Begin] pending.Upsert")
	}
	f.state = StateAwaitingCallback
	log.Debug().Strs("scopes", selection.Scopes()).Msg("[Flow Begin] authorization started")
	return authURL, nil
}

// HandleCallback processes the redirect back from the authorization server.
// The pending record is consumed whatever the outcome and the session is only
// written once the exchange has succeeded.
func (f *Flow) HandleCallback(ctx context.Context, query url.Values) (*sessions.AuthData, error) {
	f.state = StateUnauthenticated

	pending, pendingErr := f.pending.Take()

	cb, err := ParseCallback(query)
	if err != nil {
		return nil, err
	}

	if pendingErr != nil {
		if !errors.Is(pendingErr, errors.ErrNoPendingAuth) {
			return nil, errors.Wrapf(pendingErr, "[Flow HandleCallback] pending.Take")
		}
		return nil, errors.NewFlowError(errors.ErrStateMismatch, "no authorization is in progress")
	}
	if cb.State == "" || subtle.ConstantTimeCompare([]byte(cb.State), []byte(pending.State)) != 1 {
		log.Warn().Msg("[Flow HandleCallback] state mismatch")
		return nil, errors.NewFlowError(errors.ErrStateMismatch, "the request may have been tampered with, please try again")
	}

	f.state = StateExchangingToken
	token, err := f.exchanger.ExchangeToken(ctx, oauth2.ExchangeRequest{
		Code:         cb.Code,
		CodeVerifier: pending.CodeVerifier,
		State:        cb.State,
	})
	if err != nil {
		f.state = StateUnauthenticated
		return nil, err
	}

	data := sessions.NewAuthData(token, f.now())
	if err := f.store.Save(data); err != nil {
		f.state = StateUnauthenticated
		return nil, errors.Wrapf(err, "[Flow HandleCallback] store.Save")
	}
	f.state = StateAuthenticated
	return &data, nil
}

// Session returns the current valid session, if any.
func (f *Flow) Session() (*sessions.AuthData, bool) {
	data, ok := f.store.Restore()
	if ok {
		f.state = StateAuthenticated
	} else if f.state == StateAuthenticated {
		f.state = StateUnauthenticated
	}
	return data, ok
}

// Disconnect forgets the session and any half-finished authorization.
func (f *Flow) Disconnect() error {
	f.state = StateUnauthenticated
	if err := f.pending.Delete(); err != nil {
		return err
	}
	return f.store.Clear()
}
