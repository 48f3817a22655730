// Package credentials supplies the upstream API key at startup.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvAPIKey is the environment variable holding the upstream key.
const EnvAPIKey = "COINSTATS_API_KEY"

// ErrMissingCredential is returned when no API key can be found.
var ErrMissingCredential = errors.New("missing credential")

// Credentials are loaded once and shared read-only.
type Credentials struct {
	APIKey string
}

// String never reveals the key.
func (c Credentials) String() string {
	if c.APIKey == "" {
		return "Credentials{APIKey:<empty>}"
	}
	return "Credentials{APIKey:<redacted>}"
}

// Provider resolves the API key. Sources in order: ConfigValue, the first
// .env file in EnvFiles that defines the key, then the process environment.
// A key in a .env file overrides one already set in the environment.
type Provider struct {
	ConfigValue string
	EnvFiles    []string
	Getenv      func(string) string
}

// Load resolves credentials with the default .env search paths.
func Load(configValue string) (Credentials, error) {
	return Provider{
		ConfigValue: configValue,
		EnvFiles:    DefaultEnvFiles(),
	}.Load()
}

// Load returns the credentials or an error wrapping ErrMissingCredential.
func (p Provider) Load() (Credentials, error) {
	if key := strings.TrimSpace(p.ConfigValue); key != "" {
		return Credentials{APIKey: key}, nil
	}

	for _, path := range p.EnvFiles {
		values, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		if key := strings.TrimSpace(values[EnvAPIKey]); key != "" {
			return Credentials{APIKey: key}, nil
		}
	}

	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := strings.TrimSpace(getenv(EnvAPIKey)); key != "" {
		return Credentials{APIKey: key}, nil
	}

	return Credentials{}, fmt.Errorf("%w: %s not found in config, .env or environment", ErrMissingCredential, EnvAPIKey)
}

// DefaultEnvFiles returns the .env candidates: the working directory first,
// then the directory holding the executable.
func DefaultEnvFiles() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), ".env")
		if len(paths) == 0 || paths[0] != candidate {
			paths = append(paths, candidate)
		}
	}
	return paths
}
