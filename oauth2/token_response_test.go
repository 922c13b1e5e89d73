package oauth2_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/stretchr/testify/require"
)

func TestParseTokenResponse(t *testing.T) {
	t.Run("enveloped", func(t *testing.T) {
		body := `{"status":"success","data":{"access_token":"at-1","token_type":"Bearer","expires_in":3600,
			"scope":"identity usage_reporting","environment":"sandbox","organization":{"id":"org-1"},
			"user":{"email":"a@example.com"},"permissions":["identity","usage_reporting"],"billingAccountId":"ba-1"}}`

		token, err := oauth2.ParseTokenResponse([]byte(body))
		require.NoError(t, err)
		require.Equal(t, "at-1", token.AccessToken)
		require.NotNil(t, token.ExpiresIn)
		require.EqualValues(t, 3600, *token.ExpiresIn)
		require.Equal(t, "sandbox", token.Environment)
		require.Equal(t, "org-1", token.Organization["id"])
		require.Equal(t, "ba-1", token.BillingAccountID)
		require.True(t, token.Permissions.Has(reload.PermissionUsageReporting))
	})

	t.Run("flat", func(t *testing.T) {
		token, err := oauth2.ParseTokenResponse([]byte(`{"access_token":"at-2","permissions":"identity"}`))
		require.NoError(t, err)
		require.Equal(t, "at-2", token.AccessToken)
		require.Nil(t, token.ExpiresIn)
		require.Equal(t, reload.Permissions{reload.PermissionIdentity}, token.Permissions)
	})

	t.Run("missing access token", func(t *testing.T) {
		_, err := oauth2.ParseTokenResponse([]byte(`{"status":"success","data":{"token_type":"Bearer"}}`))
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := oauth2.ParseTokenResponse([]byte(`<html>`))
		require.Error(t, err)
	})
}

func TestNewTokenRequest(t *testing.T) {
	exchange := oauth2.ExchangeRequest{Code: "c", CodeVerifier: "v", State: "s"}
	require.True(t, exchange.Validate())
	require.False(t, oauth2.ExchangeRequest{Code: "c"}.Validate())

	req := oauth2.NewTokenRequest(exchange, "client", "secret", "http://localhost:3000/callback")
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"grant_type":"authorization_code","code":"c","client_id":"client","client_secret":"secret",
		"redirect_uri":"http://localhost:3000/callback","code_verifier":"v"}`, string(b))
}
