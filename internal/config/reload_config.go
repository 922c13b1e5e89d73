package config

import "strings"

const (
	clientIDEnvVar      = "RELOAD_CLIENT_ID"
	clientSecretEnvVar  = "RELOAD_CLIENT_SECRET"
	apiBaseURLEnvVar    = "RELOAD_API_BASE_URL"
	redirectURIEnvVar   = "RELOAD_REDIRECT_URI"
	oauthURLEnvVar      = "RELOAD_OAUTH_URL"
	proxyPrefixEnvVar   = "RELOAD_PROXY_PREFIX"
	tokenPathEnvVar     = "RELOAD_TOKEN_PATH"
	webhookSecretEnvVar = "RELOAD_WEBHOOK_SECRET"

	DefaultRedirectURI   = "http://localhost:3000/callback"
	DefaultOAuthURL      = "http://localhost:3001"
	DefaultProxyPrefix   = "/v1/tp/ag"
	DefaultTokenPath     = "/v1/tp/ai-agent/token"
	AlternateProxyPrefix = "/v1/tp"
)

// ReloadConfig holds the Reload client registration. The secret getter is the
// only place the client secret is read from.
type ReloadConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetAPIBaseURL() string
	GetRedirectURI() string
	GetOAuthAuthorizeURL() string
	GetProxyPrefix() string
	GetTokenPath() string
	GetWebhookSecret() string
}

type Reload struct {
	src source
}

var _ ReloadConfig = Reload{}

func (r Reload) GetClientID() string {
	return r.src.get(clientIDEnvVar, "")
}

func (r Reload) GetClientSecret() string {
	return r.src.get(clientSecretEnvVar, "")
}

// GetAPIBaseURL returns the resource server base URL without a trailing slash
func (r Reload) GetAPIBaseURL() string {
	return strings.TrimRight(r.src.get(apiBaseURLEnvVar, ""), "/")
}

func (r Reload) GetRedirectURI() string {
	return r.src.get(redirectURIEnvVar, DefaultRedirectURI)
}

func (r Reload) GetOAuthAuthorizeURL() string {
	return r.src.get(oauthURLEnvVar, DefaultOAuthURL)
}

func (r Reload) GetProxyPrefix() string {
	return normalisePath(r.src.get(proxyPrefixEnvVar, DefaultProxyPrefix))
}

func (r Reload) GetTokenPath() string {
	return normalisePath(r.src.get(tokenPathEnvVar, DefaultTokenPath))
}

func (r Reload) GetWebhookSecret() string {
	return r.src.get(webhookSecretEnvVar, "")
}

func normalisePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
