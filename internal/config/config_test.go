package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/reload-agent-demo/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewWithValues_Defaults(t *testing.T) {
	c := config.NewWithValues(nil)

	require.Equal(t, ":3000", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, config.DefaultRedirectURI, c.GetRedirectURI())
	require.Equal(t, config.DefaultOAuthURL, c.GetOAuthAuthorizeURL())
	require.Equal(t, config.DefaultProxyPrefix, c.GetProxyPrefix())
	require.Equal(t, config.DefaultTokenPath, c.GetTokenPath())
	require.Empty(t, c.GetClientSecret())
	require.False(t, c.GetSecureCookies())
}

func TestNewWithValues_Normalises(t *testing.T) {
	c := config.NewWithValues(map[string]string{
		"PORT":                 ":9000",
		"RELOAD_API_BASE_URL":  "https://api.example.com/",
		"RELOAD_PROXY_PREFIX":  "v1/tp/",
		"ENV":                  "PROD",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com",
	})

	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, config.AlternateProxyPrefix, c.GetProxyPrefix())
	require.True(t, c.GetSecureCookies())

	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
}

func TestNew_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "RELOAD_CLIENT_ID: from-file\nRELOAD_API_BASE_URL: https://file.example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RELOAD_CLIENT_ID", "from-env")

	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, "from-env", c.GetClientID())
	require.Equal(t, "https://file.example.com", c.GetAPIBaseURL())
}

func TestNew_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.New()
	require.Error(t, err)
}
