package sessions_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/jrsteele09/reload-agent-demo/sessions"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T, at time.Time) (*sessions.Store, *sessions.MemoryStorage, *clock) {
	t.Helper()
	storage := sessions.NewMemoryStorage()
	c := &clock{t: at}
	return sessions.NewStore(storage, sessions.WithClock(c.now)), storage, c
}

func TestStore_SaveLoad(t *testing.T) {
	connectedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store, _, _ := newStore(t, connectedAt)

	token := &oauth2.TokenResponse{
		AccessToken:      "at-1",
		TokenType:        "Bearer",
		ExpiresIn:        ptr(int64(3600)),
		Scope:            "identity usage_reporting",
		Environment:      "sandbox",
		Organization:     map[string]any{"id": "org-1"},
		Permissions:      reload.Permissions{reload.PermissionIdentity, reload.PermissionUsageReporting},
		BillingAccountID: "ba-1",
	}
	saved := sessions.NewAuthData(token, connectedAt)
	require.NoError(t, store.Save(saved))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, saved, *got)
	require.Equal(t, "at-1", got.AccessToken)
	require.Equal(t, connectedAt, got.ConnectedAt)
	require.EqualValues(t, 3600, *got.ExpiresIn)
	require.Equal(t, "org-1", got.Organization["id"])
	require.True(t, got.Permissions.Has(reload.PermissionUsageReporting))
}

func TestStore_LoadMissing(t *testing.T) {
	store, _, _ := newStore(t, time.Now())
	_, err := store.Load()
	require.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := map[string]string{
		"not json":        "{not json",
		"no access token": `{"token_type":"Bearer"}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			store, storage, _ := newStore(t, time.Now())
			require.NoError(t, storage.Set(sessions.KeyAuthData, raw))

			_, err := store.Load()
			require.ErrorIs(t, err, errors.ErrSessionCorrupt)

			_, exists := storage.Get(sessions.KeyAuthData)
			require.False(t, exists, "corrupt record should be removed")
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	connectedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	data := sessions.AuthData{AccessToken: "at", ExpiresIn: ptr(int64(3600)), ConnectedAt: connectedAt}

	t.Run("valid before expiry", func(t *testing.T) {
		store, _, _ := newStore(t, connectedAt.Add(3599*time.Second))
		require.False(t, store.IsExpired(data))
	})

	t.Run("expired at boundary", func(t *testing.T) {
		store, _, _ := newStore(t, connectedAt.Add(3600*time.Second))
		require.True(t, store.IsExpired(data))
	})

	t.Run("expired after", func(t *testing.T) {
		store, _, _ := newStore(t, connectedAt.Add(3601*time.Second))
		require.True(t, store.IsExpired(data))
	})

	t.Run("no expires_in never expires", func(t *testing.T) {
		store, _, _ := newStore(t, connectedAt.Add(24*365*time.Hour))
		require.False(t, store.IsExpired(sessions.AuthData{AccessToken: "at", ConnectedAt: connectedAt}))
		require.False(t, store.IsExpired(sessions.AuthData{AccessToken: "at", ExpiresIn: ptr(int64(0)), ConnectedAt: connectedAt}))
	})
}

func TestStore_Restore(t *testing.T) {
	connectedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store, storage, c := newStore(t, connectedAt)
	require.NoError(t, store.Save(sessions.AuthData{AccessToken: "at", ExpiresIn: ptr(int64(3600)), ConnectedAt: connectedAt}))

	c.t = connectedAt.Add(3599 * time.Second)
	data, ok := store.Restore()
	require.True(t, ok)
	require.Equal(t, "at", data.AccessToken)

	c.t = connectedAt.Add(3601 * time.Second)
	data, ok = store.Restore()
	require.False(t, ok)
	require.Nil(t, data)

	_, exists := storage.Get(sessions.KeyAuthData)
	require.False(t, exists, "expired record should be purged")
}

func TestStore_SaveOverwritesAndClear(t *testing.T) {
	store, storage, _ := newStore(t, time.Now())
	require.NoError(t, store.Save(sessions.AuthData{AccessToken: "first"}))
	require.NoError(t, store.Save(sessions.AuthData{AccessToken: "second"}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "second", got.AccessToken)
	require.False(t, got.ConnectedAt.IsZero())

	require.NoError(t, store.Clear())
	_, exists := storage.Get(sessions.KeyAuthData)
	require.False(t, exists)
}

func TestMemoryStorage(t *testing.T) {
	storage := sessions.NewMemoryStorage()
	require.Error(t, storage.Set("", "v"))

	require.NoError(t, storage.Set("k", "v"))
	v, ok := storage.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)

	require.NoError(t, storage.Remove("k"))
	require.NoError(t, storage.Remove("k"))
	_, ok = storage.Get("k")
	require.False(t, ok)
}
