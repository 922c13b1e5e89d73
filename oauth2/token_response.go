package oauth2

import (
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/tidwall/gjson"
)

// TokenResponse is the token payload Reload returns from its token endpoint.
// It carries the standard RFC 6749 fields plus the Reload account context.
type TokenResponse struct {
	// AccessToken is sent to the resource server as X-Access-Token.
	AccessToken string `json:"access_token"`

	// TokenType is normally "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds. Nil or zero means the token does
	// not expire.
	ExpiresIn *int64 `json:"expires_in,omitempty"`

	// Scope is the space separated list of granted scopes.
	// Example: "identity usage_reporting"
	Scope string `json:"scope,omitempty"`

	// Environment is the Reload environment the token is bound to.
	// Example: "sandbox"
	Environment string `json:"environment,omitempty"`

	Organization map[string]any     `json:"organization,omitempty"`
	User         map[string]any     `json:"user,omitempty"`
	Permissions  reload.Permissions `json:"permissions,omitempty"`

	// BillingAccountID identifies the wallet charges are drawn from.
	BillingAccountID string `json:"billingAccountId,omitempty"`
}

// TokenEnvelope is the {status, data} wrapper Reload puts around a token.
type TokenEnvelope struct {
	Status string        `json:"status"`
	Data   TokenResponse `json:"data"`
}

// ParseTokenResponse accepts either the enveloped or the flat token payload and
// fails when no access token is present.
func ParseTokenResponse(body []byte) (*TokenResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("[ParseTokenResponse] token payload is not valid JSON")
	}

	raw := body
	if data := gjson.GetBytes(body, "data"); data.IsObject() && gjson.GetBytes(body, "status").String() == "success" {
		raw = []byte(data.Raw)
	}

	var token TokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("[ParseTokenResponse] json.Unmarshal: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("[ParseTokenResponse] no access token in payload")
	}
	return &token, nil
}
