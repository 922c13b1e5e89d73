// Package pkce generates the Proof Key for Code Exchange parameters (RFC 7636)
// and the anti-CSRF state token for one authorization attempt.
package pkce

import (
	"github.com/google/uuid"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
	xoauth2 "golang.org/x/oauth2"
)

// Params are generated at the start of an authorization attempt. Only Challenge
// and State are sent to the authorization endpoint; Verifier goes to the token
// endpoint alone.
type Params struct {
	Verifier  string
	Challenge string
	Method    oauth2.CodeMethodType
	State     string
}

// New generates a fresh verifier, its S256 challenge and an independent state.
func New() Params {
	verifier := GenerateVerifier()
	return Params{
		Verifier:  verifier,
		Challenge: DeriveChallenge(verifier),
		Method:    oauth2.CodeMethodTypeS256,
		State:     GenerateState(),
	}
}

// GenerateVerifier returns 32 bytes from crypto/rand, base64url encoded without
// padding (43 characters).
func GenerateVerifier() string {
	return xoauth2.GenerateVerifier()
}

// DeriveChallenge returns base64url(SHA-256(verifier)) without padding.
func DeriveChallenge(verifier string) string {
	return xoauth2.S256ChallengeFromVerifier(verifier)
}

// GenerateState returns a random (version 4) UUID.
func GenerateState() string {
	return uuid.NewString()
}
