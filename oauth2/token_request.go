package oauth2

// ExchangeRequest is what the browser (or the server's own callback handler)
// posts to the token exchange endpoint.
type ExchangeRequest struct {
	// Code is the authorization code received on the callback.
	// Example: "SplxlOBeZQQYbYS6WxSbIA"
	Code string `json:"code"`

	// CodeVerifier is the PKCE verifier generated before the redirect.
	// Example: "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	CodeVerifier string `json:"codeVerifier"`

	// State is echoed for logging only. It has already been compared against
	// the stored state before the exchange is attempted.
	State string `json:"state,omitempty"`
}

// Validate reports whether the mandatory fields are present
func (r ExchangeRequest) Validate() bool {
	return r.Code != "" && r.CodeVerifier != ""
}

// TokenRequest is the server-to-server body sent to Reload's token endpoint.
type TokenRequest struct {
	GrantType GrantType `json:"grant_type"`
	Code      string    `json:"code"`
	ClientID  string    `json:"client_id"`

	// ClientSecret is the confidential client credential.
	// Security: Never log or expose this value
	ClientSecret string `json:"client_secret"`

	RedirectURI  string `json:"redirect_uri"`
	CodeVerifier string `json:"code_verifier"`
}

// NewTokenRequest builds an authorization_code grant request.
func NewTokenRequest(exchange ExchangeRequest, clientID, clientSecret, redirectURI string) TokenRequest {
	return TokenRequest{
		GrantType:    AuthorizationCodeGrant,
		Code:         exchange.Code,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		CodeVerifier: exchange.CodeVerifier,
	}
}
