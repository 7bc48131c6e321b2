// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// vaultService is the private implementation of [VaultService].
//
// All state lives behind mu. The master key is present only while unlocked;
// Lock wipes it together with every cached plaintext secret. Events are
// published after mu is released so a subscriber calling back into the vault
// cannot deadlock.
type vaultService struct {
	crypto crypto.CryptoService
	store  store.VaultStore
	bus    *events.Bus
	ids    *utils.UUIDGenerator
	log    *logger.Logger

	mu           sync.RWMutex
	status       Status
	export       models.VaultExport
	masterKey    []byte
	settings     models.VaultSettings
	lastActivity time.Time

	cache    *keyCache
	autoLock *autoLock
	now      func() time.Time
}

// NewVaultService constructs a [VaultService] in the uninitialized state.
// Call Load to pick up a previously persisted vault.
func NewVaultService(cryptoSvc crypto.CryptoService, vaultStore store.VaultStore, bus *events.Bus, log *logger.Logger) VaultService {
	v := &vaultService{
		crypto: cryptoSvc,
		store:  vaultStore,
		bus:    bus,
		ids:    utils.NewUUIDGenerator(),
		log:    log,
		status: StatusUninitialized,
		now:    time.Now,
	}
	v.cache = newKeyCache(defaultKeyTTL, v.now)
	v.autoLock = newAutoLock(v.idleLock)
	return v
}

// Initialize implements [VaultService]. The master key is random; the
// password only wraps it. All key derivation happens before the write lock
// is taken.
func (v *vaultService) Initialize(ctx context.Context, password string, settings models.VaultSettings) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: master password is required", models.ErrValidation)
	}

	v.mu.RLock()
	status := v.status
	v.mu.RUnlock()
	if status != StatusUninitialized {
		return ErrAlreadyInitialized
	}

	masterKey, err := v.crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate master key: %w", err)
	}

	wrapped, err := v.crypto.EncryptWithPassword(ctx, masterKey, password)
	if err != nil {
		v.crypto.SecureWipe(masterKey)
		return fmt.Errorf("wrap master key: %w", err)
	}

	authSalt, err := v.crypto.GenerateSalt()
	if err != nil {
		v.crypto.SecureWipe(masterKey)
		return fmt.Errorf("generate auth salt: %w", err)
	}

	settingsBlob, err := v.encryptSettings(settings, masterKey)
	if err != nil {
		v.crypto.SecureWipe(masterKey)
		return err
	}

	now := v.now().UTC()
	export := models.VaultExport{
		Version:      models.VaultExportVersion,
		CreatedAt:    now,
		UpdatedAt:    now,
		PasswordHash: v.passwordVerifier(authSalt, password),
		PasswordSalt: base64.StdEncoding.EncodeToString(authSalt),
		MasterKey:    *wrapped,
		Entries:      []models.VaultEntry{},
		Settings:     *settingsBlob,
	}

	v.mu.Lock()
	if v.status != StatusUninitialized {
		v.mu.Unlock()
		v.crypto.SecureWipe(masterKey)
		return ErrAlreadyInitialized
	}
	if err := v.store.Save(ctx, export); err != nil {
		v.mu.Unlock()
		v.crypto.SecureWipe(masterKey)
		return fmt.Errorf("persist vault: %w", err)
	}
	v.export = export
	v.masterKey = masterKey
	v.settings = settings
	v.status = StatusUnlocked
	v.touchLocked()
	v.mu.Unlock()

	v.log.Info().Msg("vault initialized")
	v.publish(events.VaultUnlocked{})
	return nil
}

// Load implements [VaultService].
func (v *vaultService) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.status != StatusUninitialized {
		return ErrAlreadyInitialized
	}

	export, found, err := v.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}
	if !found {
		return nil
	}
	if export.Version != models.VaultExportVersion {
		return fmt.Errorf("%w: unsupported vault export version %d", models.ErrValidation, export.Version)
	}

	v.export = export
	v.status = StatusLocked
	v.log.Info().Int("entries", len(export.Entries)).Msg("vault loaded, locked")
	return nil
}

// Unlock implements [VaultService]. The cheap password verifier is checked
// first; only then does the expensive KDF run, and it runs without holding
// the vault lock.
func (v *vaultService) Unlock(ctx context.Context, password string) error {
	v.mu.RLock()
	switch v.status {
	case StatusUninitialized:
		v.mu.RUnlock()
		return ErrNotInitialized
	case StatusUnlocked:
		v.mu.RUnlock()
		return nil
	}
	storedHash := v.export.PasswordHash
	saltB64 := v.export.PasswordSalt
	wrapped := v.export.MasterKey
	settingsBlob := v.export.Settings
	v.mu.RUnlock()

	authSalt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return fmt.Errorf("decode password salt: %w", err)
	}
	if !v.crypto.SecureCompare(v.passwordVerifier(authSalt, password), storedHash) {
		v.log.Warn().Msg("unlock rejected: password verifier mismatch")
		return ErrInvalidPassword
	}

	// The password deterministically re-derives the wrapping key, so every
	// unlock recovers the identical master key.
	masterKey, err := v.crypto.DecryptWithPassword(ctx, &wrapped, password)
	if err != nil {
		return fmt.Errorf("unwrap master key: %w", err)
	}

	settings, err := v.decryptSettings(&settingsBlob, masterKey)
	if err != nil {
		v.crypto.SecureWipe(masterKey)
		return err
	}

	v.mu.Lock()
	if v.status != StatusLocked {
		// Someone else completed the unlock while we were deriving.
		v.mu.Unlock()
		v.crypto.SecureWipe(masterKey)
		return nil
	}
	v.masterKey = masterKey
	v.settings = settings
	v.status = StatusUnlocked
	v.touchLocked()
	v.mu.Unlock()

	v.log.Info().Msg("vault unlocked")
	v.publish(events.VaultUnlocked{})
	return nil
}

// Lock implements [VaultService].
func (v *vaultService) Lock(ctx context.Context) error {
	v.lockWithReason("manual")
	return nil
}

// Status implements [VaultService].
func (v *vaultService) Status() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// AddKey implements [VaultService].
func (v *vaultService) AddKey(ctx context.Context, provider, secret string, opts models.AddKeyOptions) (models.CredentialEntry, error) {
	if strings.TrimSpace(provider) == "" {
		return models.CredentialEntry{}, fmt.Errorf("%w: provider is required", models.ErrValidation)
	}
	if secret == "" {
		return models.CredentialEntry{}, fmt.Errorf("%w: secret is required", models.ErrValidation)
	}

	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return models.CredentialEntry{}, err
	}

	blob, err := v.crypto.Encrypt([]byte(secret), v.masterKey)
	if err != nil {
		v.mu.Unlock()
		return models.CredentialEntry{}, fmt.Errorf("encrypt credential: %w", err)
	}

	entry := models.CredentialEntry{
		ID:        v.ids.Generate(),
		Provider:  provider,
		Name:      opts.Name,
		KeyPrefix: displayPrefix(secret),
		CreatedAt: v.now().UTC(),
		ExpiresAt: opts.ExpiresAt,
		IsDefault: opts.IsDefault,
		Metadata:  opts.Metadata,
	}

	updated := v.export
	updated.Entries = append(append([]models.VaultEntry{}, v.export.Entries...), models.VaultEntry{
		Entry:        entry,
		EncryptedKey: *blob,
	})
	if opts.IsDefault {
		clearOtherDefaults(updated.Entries, provider, entry.ID)
	}

	if err := v.persistLocked(ctx, updated); err != nil {
		v.mu.Unlock()
		return models.CredentialEntry{}, err
	}
	v.touchLocked()
	v.mu.Unlock()

	v.log.Info().Str("provider", provider).Str("keyId", entry.ID).Msg("credential added")
	v.publish(events.KeyAdded{KeyID: entry.ID, Provider: provider})
	return entry, nil
}

// RemoveKey implements [VaultService].
func (v *vaultService) RemoveKey(ctx context.Context, id string) error {
	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return err
	}

	idx := v.entryIndexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrKeyNotFound
	}

	updated := v.export
	updated.Entries = append([]models.VaultEntry{}, v.export.Entries...)
	updated.Entries = append(updated.Entries[:idx], updated.Entries[idx+1:]...)

	if err := v.persistLocked(ctx, updated); err != nil {
		v.mu.Unlock()
		return err
	}
	v.cache.invalidate(id)
	v.touchLocked()
	v.mu.Unlock()

	v.log.Info().Str("keyId", id).Msg("credential removed")
	v.publish(events.KeyRemoved{KeyID: id})
	return nil
}

// GetKey implements [VaultService].
func (v *vaultService) GetKey(ctx context.Context, id string) (string, bool, error) {
	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return "", false, err
	}

	secret, entry, found, err := v.resolveSecretLocked(id)
	if err != nil || !found {
		v.mu.Unlock()
		return "", false, err
	}
	v.touchLocked()
	v.mu.Unlock()

	v.publish(events.KeyAccessed{KeyID: entry.ID, Provider: entry.Provider})
	return secret, true, nil
}

// GetKeyForProvider implements [VaultService].
func (v *vaultService) GetKeyForProvider(ctx context.Context, provider string) (string, bool, error) {
	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return "", false, err
	}

	id, ok := v.providerEntryIDLocked(provider)
	if !ok {
		v.mu.Unlock()
		return "", false, nil
	}

	secret, entry, found, err := v.resolveSecretLocked(id)
	if err != nil || !found {
		v.mu.Unlock()
		return "", false, err
	}
	v.touchLocked()
	v.mu.Unlock()

	v.publish(events.KeyAccessed{KeyID: entry.ID, Provider: entry.Provider})
	return secret, true, nil
}

// RotateKey implements [VaultService].
func (v *vaultService) RotateKey(ctx context.Context, id, newSecret string) error {
	if newSecret == "" {
		return fmt.Errorf("%w: new secret is required", models.ErrValidation)
	}

	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return err
	}

	idx := v.entryIndexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrKeyNotFound
	}

	blob, err := v.crypto.Encrypt([]byte(newSecret), v.masterKey)
	if err != nil {
		v.mu.Unlock()
		return fmt.Errorf("encrypt credential: %w", err)
	}

	updated := v.export
	updated.Entries = append([]models.VaultEntry{}, v.export.Entries...)
	updated.Entries[idx].EncryptedKey = *blob
	updated.Entries[idx].Entry.KeyPrefix = displayPrefix(newSecret)

	if err := v.persistLocked(ctx, updated); err != nil {
		v.mu.Unlock()
		return err
	}
	v.cache.invalidate(id)
	v.touchLocked()
	v.mu.Unlock()

	v.log.Info().Str("keyId", id).Msg("credential rotated")
	v.publish(events.KeyRotated{KeyID: id})
	return nil
}

// SetDefaultKey implements [VaultService].
func (v *vaultService) SetDefaultKey(ctx context.Context, id string) error {
	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return err
	}

	idx := v.entryIndexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrKeyNotFound
	}

	updated := v.export
	updated.Entries = append([]models.VaultEntry{}, v.export.Entries...)
	provider := updated.Entries[idx].Entry.Provider
	previousDefault := clearOtherDefaults(updated.Entries, provider, id)
	updated.Entries[idx].Entry.IsDefault = true

	if err := v.persistLocked(ctx, updated); err != nil {
		v.mu.Unlock()
		return err
	}
	if previousDefault != "" {
		// The superseded default's plaintext may still sit in the cache.
		v.cache.invalidate(previousDefault)
	}
	v.touchLocked()
	v.mu.Unlock()

	v.log.Info().Str("keyId", id).Str("provider", provider).Msg("default credential changed")
	v.publish(events.SettingsChanged{})
	return nil
}

// ListKeys implements [VaultService].
func (v *vaultService) ListKeys(ctx context.Context) ([]models.CredentialEntry, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if err := v.requireUnlockedLocked(); err != nil {
		return nil, err
	}

	out := make([]models.CredentialEntry, 0, len(v.export.Entries))
	for i := range v.export.Entries {
		out = append(out, v.export.Entries[i].Entry)
	}
	return out, nil
}

// Settings implements [VaultService].
func (v *vaultService) Settings(ctx context.Context) (models.VaultSettings, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if err := v.requireUnlockedLocked(); err != nil {
		return models.VaultSettings{}, err
	}
	return v.settings, nil
}

// UpdateSettings implements [VaultService].
func (v *vaultService) UpdateSettings(ctx context.Context, settings models.VaultSettings) error {
	v.mu.Lock()
	if err := v.requireUnlockedLocked(); err != nil {
		v.mu.Unlock()
		return err
	}

	blob, err := v.encryptSettings(settings, v.masterKey)
	if err != nil {
		v.mu.Unlock()
		return err
	}

	updated := v.export
	updated.Settings = *blob

	if err := v.persistLocked(ctx, updated); err != nil {
		v.mu.Unlock()
		return err
	}
	v.settings = settings
	v.touchLocked() // re-arms the idle timer with the new duration
	v.mu.Unlock()

	v.log.Info().Msg("vault settings updated")
	v.publish(events.SettingsChanged{})
	return nil
}

// Export implements [VaultService].
func (v *vaultService) Export(ctx context.Context) (models.VaultExport, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.status == StatusUninitialized {
		return models.VaultExport{}, ErrNotInitialized
	}

	out := v.export
	out.Entries = append([]models.VaultEntry{}, v.export.Entries...)
	return out, nil
}

// PurgeExpiredSecrets implements [VaultService].
func (v *vaultService) PurgeExpiredSecrets() int {
	return v.cache.purgeExpired()
}

// lockWithReason moves the vault to the locked state and wipes secret
// material. Locking an already locked vault does nothing and emits nothing.
func (v *vaultService) lockWithReason(reason string) {
	v.mu.Lock()
	if v.status != StatusUnlocked {
		v.mu.Unlock()
		return
	}
	v.lockLocked()
	v.mu.Unlock()

	v.log.Info().Str("reason", reason).Msg("vault locked")
	v.publish(events.VaultLocked{Reason: reason})
}

// idleLock is the auto-lock timer callback. It re-checks idle time under
// the vault lock: activity that slipped in while the timer was firing
// re-arms the timer for the remainder instead of locking.
func (v *vaultService) idleLock() {
	v.mu.Lock()
	if v.status != StatusUnlocked {
		v.mu.Unlock()
		return
	}
	limit := v.settings.AutoLockAfter.Std()
	if limit > 0 {
		if idle := v.now().Sub(v.lastActivity); idle < limit {
			v.autoLock.Arm(limit - idle)
			v.mu.Unlock()
			return
		}
	}
	v.lockLocked()
	v.mu.Unlock()

	v.log.Info().Str("reason", "idle").Msg("vault locked")
	v.publish(events.VaultLocked{Reason: "idle"})
}

// lockLocked wipes in-memory secret state. Caller holds v.mu and has
// verified the vault is unlocked.
func (v *vaultService) lockLocked() {
	v.crypto.SecureWipe(v.masterKey)
	v.masterKey = nil
	v.settings = models.VaultSettings{}
	v.cache.clear()
	v.autoLock.Cancel()
	v.status = StatusLocked
}

// resolveSecretLocked returns the plaintext secret for id, consulting the
// cache first. Missing and expired entries report found=false. Caller holds
// v.mu for writing.
func (v *vaultService) resolveSecretLocked(id string) (string, models.CredentialEntry, bool, error) {
	idx := v.entryIndexLocked(id)
	if idx < 0 {
		return "", models.CredentialEntry{}, false, nil
	}
	entry := &v.export.Entries[idx]
	if entry.Entry.Expired(v.now()) {
		return "", models.CredentialEntry{}, false, nil
	}

	secret, cached := v.cache.get(id)
	if !cached {
		plaintext, err := v.crypto.Decrypt(&entry.EncryptedKey, v.masterKey)
		if err != nil {
			return "", models.CredentialEntry{}, false, fmt.Errorf("decrypt credential %s: %w", id, err)
		}
		secret = string(plaintext)
		v.crypto.SecureWipe(plaintext)
		v.cache.put(id, secret)
	}

	accessedAt := v.now().UTC()
	entry.Entry.LastUsedAt = &accessedAt
	return secret, entry.Entry, true, nil
}

// providerEntryIDLocked picks the entry serving provider: the non-expired
// default when present, otherwise the first non-expired entry.
func (v *vaultService) providerEntryIDLocked(provider string) (string, bool) {
	now := v.now()
	first := ""
	for i := range v.export.Entries {
		e := v.export.Entries[i].Entry
		if e.Provider != provider || e.Expired(now) {
			continue
		}
		if e.IsDefault {
			return e.ID, true
		}
		if first == "" {
			first = e.ID
		}
	}
	return first, first != ""
}

func (v *vaultService) entryIndexLocked(id string) int {
	for i := range v.export.Entries {
		if v.export.Entries[i].Entry.ID == id {
			return i
		}
	}
	return -1
}

func (v *vaultService) requireUnlockedLocked() error {
	switch v.status {
	case StatusUninitialized:
		return ErrNotInitialized
	case StatusLocked:
		return ErrVaultLocked
	default:
		return nil
	}
}

// persistLocked saves updated and makes it the in-memory state only after
// the save succeeded. Caller holds v.mu for writing.
func (v *vaultService) persistLocked(ctx context.Context, updated models.VaultExport) error {
	updated.UpdatedAt = v.now().UTC()
	if err := v.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("persist vault: %w", err)
	}
	v.export = updated
	return nil
}

// touchLocked records activity and re-arms the idle timer. Caller holds
// v.mu for writing.
func (v *vaultService) touchLocked() {
	v.lastActivity = v.now()
	v.autoLock.Arm(v.settings.AutoLockAfter.Std())
}

// passwordVerifier computes the hex digest stored as the password check:
// SHA-256 over salt ‖ password. The material buffer is wiped afterwards.
func (v *vaultService) passwordVerifier(salt []byte, password string) string {
	material := make([]byte, 0, len(salt)+len(password))
	material = append(material, salt...)
	material = append(material, password...)
	digest := v.crypto.Hash(material)
	v.crypto.SecureWipe(material)
	return digest
}

func (v *vaultService) encryptSettings(settings models.VaultSettings, key []byte) (*models.EncryptedBlob, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	blob, err := v.crypto.Encrypt(raw, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt settings: %w", err)
	}
	return blob, nil
}

func (v *vaultService) decryptSettings(blob *models.EncryptedBlob, key []byte) (models.VaultSettings, error) {
	raw, err := v.crypto.Decrypt(blob, key)
	if err != nil {
		return models.VaultSettings{}, fmt.Errorf("decrypt settings: %w", err)
	}
	var settings models.VaultSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.VaultSettings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func (v *vaultService) publish(evts ...events.Event) {
	if v.bus == nil {
		return
	}
	for _, e := range evts {
		v.bus.Publish(e)
	}
}

// clearOtherDefaults drops the default flag from every entry of provider
// except keepID and returns the id that lost the flag, if any.
func clearOtherDefaults(entries []models.VaultEntry, provider, keepID string) string {
	previous := ""
	for i := range entries {
		e := &entries[i].Entry
		if e.Provider == provider && e.IsDefault && e.ID != keepID {
			e.IsDefault = false
			previous = e.ID
		}
	}
	return previous
}

// displayPrefix keeps the first characters of secret for list views. Short
// secrets are fully masked so the prefix never reveals most of the value.
func displayPrefix(secret string) string {
	const visible = 8
	if len(secret) < visible+4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:visible] + "..."
}
