// Package appid resolves the application identity, falling back to the
// embedded copy when no `.fulmen/app.yaml` is found.
package appid

import (
	"context"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/coinrelay/coinrelay/internal/assets/appidentity"
)

func init() {
	// Explicit paths (FULMEN_APP_IDENTITY_PATH) still take precedence.
	_ = appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}

// Get returns the resolved identity.
func Get(ctx context.Context) (*appidentity.Identity, error) {
	return appidentity.Get(ctx)
}

// Must returns the resolved identity or a minimal fallback built from name.
func Must(ctx context.Context, name string) *appidentity.Identity {
	identity, err := appidentity.Get(ctx)
	if err == nil && identity != nil {
		return identity
	}
	return &appidentity.Identity{
		BinaryName: name,
		ConfigName: name,
		EnvPrefix:  "COINRELAY_",
	}
}
