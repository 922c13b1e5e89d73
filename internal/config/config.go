package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const configFileEnvVar = "CONFIG_FILE"

type Config interface {
	EnvConfig
	ReloadConfig
	CorsConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Reload
	Cors
	Security
}

// New loads the configuration once: an optional YAML file named by CONFIG_FILE,
// then the process environment, which wins over the file.
func New() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(configFileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("[config New] failed loading %s: %w", path, err)
		}
	}

	// "__" keeps single underscores in RELOAD_CLIENT_ID style names flat
	if err := k.Load(env.Provider("", "__", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("[config New] failed loading environment: %w", err)
	}

	return fromKoanf(k), nil
}

// NewWithValues builds a configuration from explicit key/values only, ignoring
// the environment. Used by tests and embedders.
func NewWithValues(values map[string]string) Config {
	k := koanf.New(".")
	for key, value := range values {
		_ = k.Set(key, value)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) Config {
	src := source{k: k}
	return mainConfig{
		EnvVars:  EnvVars{src},
		Reload:   Reload{src},
		Cors:     Cors{src},
		Security: Security{src},
	}
}

// source is the read-only view every config section reads from
type source struct {
	k *koanf.Koanf
}

func (s source) get(key, defaultValue string) string {
	if s.k == nil {
		return defaultValue
	}
	value := s.k.String(key)
	if value == "" {
		return defaultValue
	}
	return value
}
