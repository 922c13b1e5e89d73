// Package authflow drives one browser's OAuth 2.0 authorization code + PKCE
// attempt against Reload: building the authorization URL, receiving the
// callback and handing the code to a token exchanger.
package authflow

import (
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/reload"
	xoauth2 "golang.org/x/oauth2"
)

// ClientConfig is the public half of the client registration. It never holds
// the client secret.
type ClientConfig struct {
	ClientID     string `json:"clientId"`
	RedirectURI  string `json:"redirectUri"`
	AuthorizeURL string `json:"oauthUrl"`
}

func (c ClientConfig) validate() error {
	switch {
	case c.ClientID == "":
		return errors.NewFlowError(errors.ErrConfiguration, "client id is not set")
	case c.RedirectURI == "":
		return errors.NewFlowError(errors.ErrConfiguration, "redirect uri is not set")
	case c.AuthorizeURL == "":
		return errors.NewFlowError(errors.ErrConfiguration, "authorization url is not set")
	}
	return nil
}

// BuildAuthorizationURL returns the URL the browser is sent to. It fails
// before doing anything else when the client is not configured or no
// permission was selected.
func BuildAuthorizationURL(client ClientConfig, selection reload.Selection, challenge, state string) (string, error) {
	if err := client.validate(); err != nil {
		return "", err
	}
	scopes := selection.Scopes()
	if len(scopes) == 0 {
		return "", errors.NewFlowError(errors.ErrNoPermissions, "select at least one permission")
	}

	cfg := xoauth2.Config{
		ClientID:    client.ClientID,
		RedirectURL: client.RedirectURI,
		Scopes:      scopes,
		Endpoint:    xoauth2.Endpoint{AuthURL: client.AuthorizeURL},
	}
	return cfg.AuthCodeURL(state,
		xoauth2.SetAuthURLParam(oauth2.ParamCodeChallenge, challenge),
		xoauth2.SetAuthURLParam(oauth2.ParamCodeChallengeMethod, string(oauth2.CodeMethodTypeS256)),
	), nil
}
