package vault

import "errors"

var (
	// ErrNotInitialized is returned when an operation requires a vault that
	// has been initialized or loaded first.
	ErrNotInitialized = errors.New("vault is not initialized")

	// ErrAlreadyInitialized is returned by Initialize and Load when the
	// vault already holds state.
	ErrAlreadyInitialized = errors.New("vault is already initialized")

	// ErrVaultLocked is returned when an operation requires the unlocked
	// state. Callers unlock with the master password and retry.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrInvalidPassword is returned by Unlock when the password hash does
	// not match the stored verifier.
	ErrInvalidPassword = errors.New("invalid master password")

	// ErrKeyNotFound is returned by mutations addressing an unknown
	// credential id. Read paths report absence via a false flag instead.
	ErrKeyNotFound = errors.New("credential not found")
)
