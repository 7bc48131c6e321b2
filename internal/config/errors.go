package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or inconsistent.
var (
	// ErrInvalidAppConfigs indicates an inconsistent token setup (for
	// example, a sign key without an issuer or duration).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidVaultConfigs indicates invalid vault settings (for
	// example, a missing vault file path).
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings (for
	// example, an unknown database driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidEventsConfigs indicates invalid webhook settings (for
	// example, a negative queue size or retry count).
	ErrInvalidEventsConfigs = errors.New("invalid events configuration")
)
