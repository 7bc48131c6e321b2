// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// Database drivers the store layer knows how to open.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants needed at startup. It is deliberately permissive about
// omissions that select a degraded mode (no DSN means memory-only
// repositories, no sign key means auth disabled) and strict about
// combinations that cannot work.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey != "" {
		if cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
			return fmt.Errorf("%w: token sign key set without issuer and duration", ErrInvalidAppConfigs)
		}
	}

	if driver := cfg.Storage.DB.Driver; driver != "" && driver != DriverSQLite && driver != DriverPostgres {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, driver)
	}

	if cfg.Events.QueueSize < 0 || cfg.Events.RetryCount < 0 {
		return fmt.Errorf("%w: queue size and retry count cannot be negative", ErrInvalidEventsConfigs)
	}

	if cfg.Vault.AutoLockAfter < 0 {
		return fmt.Errorf("%w: auto-lock timeout cannot be negative", ErrInvalidVaultConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Vault.StorePath == "" {
		return fmt.Errorf("%w: vault file path is required", ErrInvalidVaultConfigs)
	}

	if cfg.Vault.AutoLockAfter < 0 {
		return fmt.Errorf("%w: auto-lock timeout cannot be negative", ErrInvalidVaultConfigs)
	}

	return nil
}
