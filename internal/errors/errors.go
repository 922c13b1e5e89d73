package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Reload demo server and client
var (
	// Proxy request errors
	ErrMissingParameters   = errors.New("missing required parameters")
	ErrServerMisconfigured = errors.New("server configuration missing")
	ErrUnauthorized        = errors.New("missing OAuth token")
	ErrUnknownEndpoint     = errors.New("endpoint not implemented")

	// Upstream errors
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrUpstream            = errors.New("upstream request failed")
	ErrInternalProxy       = errors.New("internal proxy error")

	// Authorization flow errors
	ErrConfiguration       = errors.New("oauth client not configured")
	ErrNoPermissions       = errors.New("no permissions selected")
	ErrAuthorizationDenied = errors.New("authorization failed")
	ErrNoAuthorizationCode = errors.New("no authorization code received")
	ErrStateMismatch       = errors.New("state mismatch")
	ErrNoPendingAuth       = errors.New("no pending authorization")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionCorrupt  = errors.New("session data corrupt")
	ErrSessionExpired  = errors.New("session expired")

	// Webhook errors
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid JSON body")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers only need this package
func New(text string) error {
	return errors.New(text)
}

// FlowError carries a human readable reason alongside a sentinel so callers can
// both match the failure class and show the reason to a user.
type FlowError struct {
	Kind   error
	Reason string
}

func (e *FlowError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

func (e *FlowError) Unwrap() error {
	return e.Kind
}

// NewFlowError builds a FlowError for kind with the given reason
func NewFlowError(kind error, reason string) *FlowError {
	return &FlowError{Kind: kind, Reason: reason}
}
