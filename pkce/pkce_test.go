package pkce_test

import (
	"encoding/base64"
	"testing"

	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/pkce"
	"github.com/stretchr/testify/require"
)

const (
	// RFC 7636 Appendix B
	testCodeVerifier  = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	testCodeChallenge = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
)

func TestDeriveChallenge(t *testing.T) {
	t.Run("rfc vector", func(t *testing.T) {
		require.Equal(t, testCodeChallenge, pkce.DeriveChallenge(testCodeVerifier))
	})

	t.Run("deterministic", func(t *testing.T) {
		v := pkce.GenerateVerifier()
		require.Equal(t, pkce.DeriveChallenge(v), pkce.DeriveChallenge(v))
		require.NotEqual(t, v, pkce.DeriveChallenge(v))
	})
}

func TestGenerateVerifier(t *testing.T) {
	v := pkce.GenerateVerifier()
	require.Len(t, v, 43)
	require.NotContains(t, v, "=")

	raw, err := base64.RawURLEncoding.DecodeString(v)
	require.NoError(t, err)
	require.Len(t, raw, 32)
}

func TestNew(t *testing.T) {
	p := pkce.New()
	require.Equal(t, oauth2.CodeMethodTypeS256, p.Method)
	require.Equal(t, pkce.DeriveChallenge(p.Verifier), p.Challenge)
	require.NotEmpty(t, p.State)
	require.NotEqual(t, p.Verifier, p.State)
}

func TestNoCollisions(t *testing.T) {
	const trials = 1000
	verifiers := make(map[string]struct{}, trials)
	states := make(map[string]struct{}, trials)

	for i := 0; i < trials; i++ {
		p := pkce.New()
		_, dup := verifiers[p.Verifier]
		require.False(t, dup, "verifier repeated")
		_, dup = states[p.State]
		require.False(t, dup, "state repeated")
		verifiers[p.Verifier] = struct{}{}
		states[p.State] = struct{}{}
	}
}
