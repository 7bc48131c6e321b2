package models

import "time"

// CredentialEntry is the public, non-secret part of one stored credential.
// The secret itself lives in a separate [EncryptedBlob] and never appears in
// this structure; KeyPrefix is the only fragment kept in the clear.
type CredentialEntry struct {
	// ID is the unique identifier of the entry (UUID, assigned on AddKey).
	ID string `json:"id"`

	// Provider names the service the credential belongs to
	// (e.g. "openai", "anthropic").
	Provider string `json:"provider"`

	// Name is an optional human-readable label for the entry.
	Name string `json:"name,omitempty"`

	// KeyPrefix is a short display-only fragment of the secret
	// (first characters plus an ellipsis) used in list views.
	KeyPrefix string `json:"keyPrefix"`

	// CreatedAt is when the entry was added to the vault.
	CreatedAt time.Time `json:"createdAt"`

	// LastUsedAt is when the secret was last resolved, nil if never.
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`

	// ExpiresAt is an optional expiry; expired entries are skipped by
	// provider lookups but are not removed automatically.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// IsDefault marks the entry as the provider's default. At most one
	// entry per provider carries this flag.
	IsDefault bool `json:"isDefault"`

	// Metadata holds optional free-form, non-secret attributes.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Expired reports whether the entry has an expiry in the past relative to now.
func (e CredentialEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && e.ExpiresAt.Before(now)
}

// AddKeyOptions carries the optional attributes accepted when adding a
// credential to the vault.
type AddKeyOptions struct {
	Name      string            `json:"name,omitempty"`
	IsDefault bool              `json:"isDefault,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// VaultSettings is the owner-configurable state stored encrypted inside the
// vault export. It is only readable while the vault is unlocked.
type VaultSettings struct {
	// AutoLockAfter is the idle interval after which the vault locks
	// itself. Zero disables the idle timer.
	AutoLockAfter Duration `json:"autoLockAfter,omitempty"`

	// ClipboardClearAfter is how long a secret copied by the client may
	// stay on the clipboard before it is overwritten. Zero keeps it.
	ClipboardClearAfter Duration `json:"clipboardClearAfter,omitempty"`
}

// VaultEntry pairs one entry's public metadata with its encrypted secret as
// persisted in the vault export.
type VaultEntry struct {
	Entry        CredentialEntry `json:"entry"`
	EncryptedKey EncryptedBlob   `json:"encryptedKey"`
}

// VaultExport is the serialized form of a whole vault: everything needed to
// load it on another machine and unlock it with the original password.
// Secrets appear only as ciphertext.
type VaultExport struct {
	// Version is the export format version.
	Version int `json:"version"`

	// CreatedAt is when the vault was first initialized.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is bumped on every persisted mutation.
	UpdatedAt time.Time `json:"updatedAt"`

	// PasswordHash is the hex digest used to verify the master password
	// before any key derivation is attempted.
	PasswordHash string `json:"passwordHash"`

	// PasswordSalt is the base64 salt mixed into PasswordHash.
	PasswordSalt string `json:"passwordSalt"`

	// MasterKey is the vault master key wrapped under a key derived from
	// the master password. Unlocking derives the same wrapping key and
	// unwraps; the master key itself is random and never changes unless
	// the vault is re-initialized.
	MasterKey EncryptedBlob `json:"masterKey"`

	// Entries holds every credential with its ciphertext.
	Entries []VaultEntry `json:"entries"`

	// Settings is the encrypted [VaultSettings] blob.
	Settings EncryptedBlob `json:"settings"`
}

// VaultExportVersion is the current [VaultExport] format version.
const VaultExportVersion = 1
