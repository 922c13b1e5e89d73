package sessions

import (
	"time"

	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/reload"
)

// AuthData is the persisted record of a connected Reload account. There is at
// most one per storage and it is overwritten wholesale on reconnect.
type AuthData struct {
	AccessToken      string             `json:"access_token"`
	TokenType        string             `json:"token_type,omitempty"`
	ExpiresIn        *int64             `json:"expires_in,omitempty"` // seconds, nil or 0 never expires
	Scope            string             `json:"scope,omitempty"`
	Environment      string             `json:"environment,omitempty"`
	Organization     map[string]any     `json:"organization,omitempty"`
	User             map[string]any     `json:"user,omitempty"`
	Permissions      reload.Permissions `json:"permissions,omitempty"`
	BillingAccountID string             `json:"billingAccountId,omitempty"`
	ConnectedAt      time.Time          `json:"connectedAt"`
}

// NewAuthData stamps a token payload with the time the account was connected.
func NewAuthData(token *oauth2.TokenResponse, connectedAt time.Time) AuthData {
	return AuthData{
		AccessToken:      token.AccessToken,
		TokenType:        token.TokenType,
		ExpiresIn:        token.ExpiresIn,
		Scope:            token.Scope,
		Environment:      token.Environment,
		Organization:     token.Organization,
		User:             token.User,
		Permissions:      token.Permissions,
		BillingAccountID: token.BillingAccountID,
		ConnectedAt:      connectedAt.UTC(),
	}
}

// ExpiresAt returns when the token lapses, and false for non-expiring tokens.
func (a AuthData) ExpiresAt() (time.Time, bool) {
	if a.ExpiresIn == nil || *a.ExpiresIn <= 0 {
		return time.Time{}, false
	}
	return a.ConnectedAt.Add(time.Duration(*a.ExpiresIn) * time.Second), true
}
