package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/reload-agent-demo/token"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, secret string) *token.Codec {
	t.Helper()
	signer, err := token.NewHMACSigner(secret)
	require.NoError(t, err)
	return token.NewCodec(signer, "test")
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t, "secret")

	raw, err := codec.Encode(map[string]string{"a": "1", "b": `{"json":true}`}, time.Minute)
	require.NoError(t, err)

	values, err := codec.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": `{"json":true}`}, values)
}

func TestCodec_SameSecretSameKey(t *testing.T) {
	raw, err := newCodec(t, "shared").Encode(map[string]string{"k": "v"}, time.Minute)
	require.NoError(t, err)

	_, err = newCodec(t, "shared").Decode(raw)
	require.NoError(t, err)

	_, err = newCodec(t, "other").Decode(raw)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_RandomKeyWhenNoSecret(t *testing.T) {
	raw, err := newCodec(t, "").Encode(map[string]string{"k": "v"}, time.Minute)
	require.NoError(t, err)

	_, err = newCodec(t, "").Decode(raw)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_Rejects(t *testing.T) {
	codec := newCodec(t, "secret")
	raw, err := codec.Encode(map[string]string{"k": "v"}, time.Minute)
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(raw, ".")
		parts[2] = strings.Repeat("A", len(parts[2]))
		_, err := codec.Decode(strings.Join(parts, "."))
		require.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := codec.WithClock(func() time.Time { return time.Now().Add(2 * time.Minute) })
		_, err := later.Decode(raw)
		require.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		signer, err := token.NewHMACSigner("secret")
		require.NoError(t, err)
		_, err = token.NewCodec(signer, "someone-else").Decode(raw)
		require.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.Decode("not-a-token")
		require.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
