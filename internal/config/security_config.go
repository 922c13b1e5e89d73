package config

import "time"

const sessionSecretEnvVar = "SESSION_SECRET"

type SecurityConfig interface {
	GetSessionSecret() string
	GetSessionMaxAge() time.Duration
	GetPendingAuthMaxAge() time.Duration
	GetSecureCookies() bool
}

type Security struct {
	src source
}

var _ SecurityConfig = Security{}

// GetSessionSecret is the key material cookies are signed with. Empty means a
// random per-process key.
func (s Security) GetSessionSecret() string {
	return s.src.get(sessionSecretEnvVar, "")
}

func (Security) GetSessionMaxAge() time.Duration {
	return 30 * 24 * time.Hour
}

func (Security) GetPendingAuthMaxAge() time.Duration {
	return 10 * time.Minute
}

func (s Security) GetSecureCookies() bool {
	return s.src.get(envVar, "DEV") == "PROD"
}
