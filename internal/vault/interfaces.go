package vault

import (
	"context"

	"github.com/MKhiriev/go-canvas-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_service_mock.go -package=mock

// Status is the lifecycle state of the vault.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLocked        Status = "locked"
	StatusUnlocked      Status = "unlocked"
)

// VaultService хранит секреты провайдеров под одним мастер-паролем.
// Жизненный цикл: uninitialized → (Initialize | Load) → locked ⇄ unlocked.
// Все операции над ключами требуют разблокированного состояния; метаданные
// записей хранятся открыто, сами секреты — только в зашифрованном виде.
//
// Схема работы:
//
//	Initialize(password)  — создать хранилище, сразу unlocked
//	Load()                — поднять сохранённое хранилище, locked
//	Unlock(password)      — проверить пароль, восстановить мастер-ключ
//	AddKey / GetKey / ... — операции над секретами
//	Lock()                — затереть мастер-ключ и кэш
type VaultService interface {
	// Initialize creates a brand-new vault protected by password and leaves
	// it unlocked. Fails with [ErrAlreadyInitialized] if the vault already
	// holds state.
	Initialize(ctx context.Context, password string, settings models.VaultSettings) error

	// Load hydrates the vault from its store. When an export exists the
	// vault lands in the locked state; when none exists it stays
	// uninitialized and Load returns nil.
	Load(ctx context.Context) error

	// Unlock verifies password against the stored verifier, re-derives the
	// key-encryption key and unwraps the master key. The same password
	// always yields the same master key. Returns [ErrInvalidPassword] on a
	// wrong password, nil if the vault is already unlocked.
	Unlock(ctx context.Context, password string) error

	// Lock wipes the master key and all cached secrets, cancels the idle
	// timer and moves to the locked state. Locking a locked vault is a
	// no-op.
	Lock(ctx context.Context) error

	// Status returns the current lifecycle state.
	Status() Status

	// AddKey encrypts secret under the master key and stores it with
	// metadata. The entry id is assigned here; KeyPrefix keeps only a
	// display-safe fragment of the secret. Setting opts.IsDefault clears
	// the default flag of the provider's previous default.
	AddKey(ctx context.Context, provider, secret string, opts models.AddKeyOptions) (models.CredentialEntry, error)

	// RemoveKey deletes the credential and drops its cache slot. Returns
	// [ErrKeyNotFound] for an unknown id.
	RemoveKey(ctx context.Context, id string) error

	// GetKey returns the decrypted secret for id. Missing or expired
	// entries report found=false with a nil error. Secrets are cached for
	// a short TTL and each access rearms the idle auto-lock timer.
	GetKey(ctx context.Context, id string) (secret string, found bool, err error)

	// GetKeyForProvider resolves provider to its default entry when one is
	// set, otherwise to the first non-expired entry, then behaves like
	// GetKey.
	GetKeyForProvider(ctx context.Context, provider string) (secret string, found bool, err error)

	// RotateKey replaces the secret material of an existing credential and
	// invalidates its cache slot. Metadata and id are preserved.
	RotateKey(ctx context.Context, id, newSecret string) error

	// SetDefaultKey marks id as its provider's default, clearing the flag
	// of the previous default.
	SetDefaultKey(ctx context.Context, id string) error

	// ListKeys returns credential metadata, never secrets.
	ListKeys(ctx context.Context) ([]models.CredentialEntry, error)

	// Settings returns the decrypted vault settings.
	Settings(ctx context.Context) (models.VaultSettings, error)

	// UpdateSettings re-encrypts and persists settings, then re-arms the
	// idle timer with the new auto-lock duration.
	UpdateSettings(ctx context.Context, settings models.VaultSettings) error

	// Export returns the persisted form of the vault: encrypted key
	// material and open metadata. Available in the locked state too.
	Export(ctx context.Context) (models.VaultExport, error)

	// PurgeExpiredSecrets drops plaintext secrets that outlived the cache
	// TTL and reports how many were removed. Called periodically by the
	// cache janitor worker; safe in any state.
	PurgeExpiredSecrets() int
}
