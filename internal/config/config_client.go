package config

import (
	"fmt"
	"time"
)

// ClientApp holds application-level settings used by the admin client.
type ClientApp struct {
	// Version is the client build version shown in the footer.
	Version string
}

// ClientVault holds the local vault settings of the admin client.
type ClientVault struct {
	// StorePath is the path of the encrypted vault file the client
	// opens directly.
	StorePath string
	// AutoLockAfter is the idle timeout used when the client initializes
	// a brand new vault.
	AutoLockAfter time.Duration
}

// ClientConfig is the admin client configuration assembled from
// [StructuredConfig]. The client works against a local vault file; it
// needs none of the server transport settings.
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Vault contains the local vault file settings.
	Vault ClientVault
}

// GetClientConfig builds and validates the admin client's config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
		},
		Vault: ClientVault{
			StorePath:     cfg.Vault.StorePath,
			AutoLockAfter: cfg.Vault.AutoLockAfter,
		},
	}

	return clientCfg, clientCfg.validate()
}
