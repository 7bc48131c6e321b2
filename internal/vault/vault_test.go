package vault

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// eventRecorder collects event names from the bus. Safe for use from the
// auto-lock timer goroutine.
type eventRecorder struct {
	mu    sync.Mutex
	names []string
}

func (r *eventRecorder) record(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, e.Name())
}

func (r *eventRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.names...)
}

func (r *eventRecorder) count(name string) int {
	n := 0
	for _, got := range r.snapshot() {
		if got == name {
			n++
		}
	}
	return n
}

func newTestVault(t *testing.T) (VaultService, store.VaultStore, *eventRecorder) {
	t.Helper()

	recorder := &eventRecorder{}
	bus := events.NewBus(logger.Nop())
	bus.Subscribe(recorder.record)

	vaultStore := store.NewMemoryVaultStore()
	svc := NewVaultService(crypto.NewCryptoService(), vaultStore, bus, logger.Nop())
	return svc, vaultStore, recorder
}

func TestVault_InitializeUnlocksAndPersists(t *testing.T) {
	svc, vaultStore, recorder := newTestVault(t)
	ctx := context.Background()

	require.Equal(t, StatusUninitialized, svc.Status())
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	assert.Equal(t, StatusUnlocked, svc.Status())

	export, found, err := vaultStore.Load(ctx)
	require.NoError(t, err)
	require.True(t, found, "initialize must persist the vault")
	assert.Equal(t, models.VaultExportVersion, export.Version)
	assert.NotEmpty(t, export.PasswordHash)
	assert.NotEmpty(t, export.PasswordSalt)
	assert.True(t, export.MasterKey.HasSalt(), "wrapped master key must embed its KDF salt")
	assert.Empty(t, export.Entries)

	assert.Equal(t, []string{"unlocked"}, recorder.snapshot())
}

func TestVault_InitializeValidation(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()

	err := svc.Initialize(ctx, "   ", models.VaultSettings{})
	require.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	assert.ErrorIs(t, svc.Initialize(ctx, "pw2", models.VaultSettings{}), ErrAlreadyInitialized)
}

// TestVault_FullLifecycle прогоняет хранилище через весь жизненный цикл:
// initialize → addKey → getKeyForProvider → lock → unlock с неверным и
// верным паролем → повторное чтение секрета.
func TestVault_FullLifecycle(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	entry, err := svc.AddKey(ctx, "openai", "sk-test-key-12345", models.AddKeyOptions{IsDefault: true})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	secret, found, err := svc.GetKeyForProvider(ctx, "openai")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-test-key-12345", secret)

	require.NoError(t, svc.Lock(ctx))
	assert.Equal(t, StatusLocked, svc.Status())

	_, _, err = svc.GetKey(ctx, entry.ID)
	require.ErrorIs(t, err, ErrVaultLocked)

	require.ErrorIs(t, svc.Unlock(ctx, "wrong password"), ErrInvalidPassword)
	assert.Equal(t, StatusLocked, svc.Status())

	require.NoError(t, svc.Unlock(ctx, "pw1"))
	assert.Equal(t, StatusUnlocked, svc.Status())

	secret, found, err = svc.GetKeyForProvider(ctx, "openai")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-test-key-12345", secret)

	assert.Equal(t, 1, recorder.count("locked"))
	assert.Equal(t, 2, recorder.count("unlocked"))
	assert.Equal(t, 2, recorder.count("key:accessed"))
}

// TestVault_LoadRecoversSameMasterKey проверяет, что новый экземпляр,
// поднятый из того же стора, разблокируется тем же паролем и расшифровывает
// секреты, записанные до перезапуска.
func TestVault_LoadRecoversSameMasterKey(t *testing.T) {
	ctx := context.Background()
	vaultStore := store.NewMemoryVaultStore()

	first := NewVaultService(crypto.NewCryptoService(), vaultStore, nil, logger.Nop())
	require.NoError(t, first.Initialize(ctx, "pw1", models.VaultSettings{}))
	entry, err := first.AddKey(ctx, "anthropic", "sk-ant-key-00001", models.AddKeyOptions{})
	require.NoError(t, err)

	second := NewVaultService(crypto.NewCryptoService(), vaultStore, nil, logger.Nop())
	require.NoError(t, second.Load(ctx))
	require.Equal(t, StatusLocked, second.Status())

	require.NoError(t, second.Unlock(ctx, "pw1"))

	secret, found, err := second.GetKey(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-ant-key-00001", secret)
}

func TestVault_LoadWithoutPersistedVaultStaysUninitialized(t *testing.T) {
	svc, _, _ := newTestVault(t)

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, StatusUninitialized, svc.Status())

	assert.ErrorIs(t, svc.Unlock(context.Background(), "pw1"), ErrNotInitialized)
}

func TestVault_AddKeyAssignsIDAndMasksPrefix(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	entry, err := svc.AddKey(ctx, "openai", "sk-test-key-12345", models.AddKeyOptions{Name: "ci key"})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "openai", entry.Provider)
	assert.Equal(t, "ci key", entry.Name)
	assert.Equal(t, "sk-test-...", entry.KeyPrefix)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NotContains(t, entry.KeyPrefix, "12345", "prefix must not expose the secret tail")

	short, err := svc.AddKey(ctx, "openai", "tiny", models.AddKeyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "****", short.KeyPrefix, "short secrets are fully masked")
}

func TestVault_AddKeyValidation(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	tests := []struct {
		name     string
		provider string
		secret   string
	}{
		{name: "empty provider", provider: "", secret: "sk-x"},
		{name: "blank provider", provider: "   ", secret: "sk-x"},
		{name: "empty secret", provider: "openai", secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddKey(ctx, tt.provider, tt.secret, models.AddKeyOptions{})
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestVault_SingleDefaultPerProvider(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	first, err := svc.AddKey(ctx, "openai", "sk-first-key-0001", models.AddKeyOptions{IsDefault: true})
	require.NoError(t, err)
	second, err := svc.AddKey(ctx, "openai", "sk-second-key-0002", models.AddKeyOptions{IsDefault: true})
	require.NoError(t, err)
	other, err := svc.AddKey(ctx, "anthropic", "sk-ant-key-0003", models.AddKeyOptions{IsDefault: true})
	require.NoError(t, err)

	defaults := map[string]bool{}
	entries, err := svc.ListKeys(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDefault {
			defaults[e.ID] = true
		}
	}

	assert.False(t, defaults[first.ID], "adding a second default must clear the first")
	assert.True(t, defaults[second.ID])
	assert.True(t, defaults[other.ID], "defaults are scoped per provider")

	// SetDefaultKey moves the flag back.
	require.NoError(t, svc.SetDefaultKey(ctx, first.ID))
	entries, err = svc.ListKeys(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		switch e.ID {
		case first.ID:
			assert.True(t, e.IsDefault)
		case second.ID:
			assert.False(t, e.IsDefault)
		}
	}
}

func TestVault_GetKey_AbsenceIsNotAnError(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	secret, found, err := svc.GetKey(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, secret)
}

func TestVault_ExpiredEntriesAreSkipped(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	past := time.Now().Add(-time.Hour)
	expired, err := svc.AddKey(ctx, "openai", "sk-expired-key-01", models.AddKeyOptions{IsDefault: true, ExpiresAt: &past})
	require.NoError(t, err)
	_, err = svc.AddKey(ctx, "openai", "sk-live-key-00002", models.AddKeyOptions{})
	require.NoError(t, err)

	_, found, err := svc.GetKey(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, found, "expired entry reads as absent")

	// The expired default is skipped; resolution falls through to the
	// first live entry.
	secret, found, err := svc.GetKeyForProvider(ctx, "openai")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-live-key-00002", secret)
}

func TestVault_GetKeyForProvider_PrefersDefault(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	_, err := svc.AddKey(ctx, "openai", "sk-plain-key-0001", models.AddKeyOptions{})
	require.NoError(t, err)
	_, err = svc.AddKey(ctx, "openai", "sk-default-key-02", models.AddKeyOptions{IsDefault: true})
	require.NoError(t, err)

	secret, found, err := svc.GetKeyForProvider(ctx, "openai")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-default-key-02", secret)

	_, found, err = svc.GetKeyForProvider(ctx, "unknown-provider")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVault_RemoveKey(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	entry, err := svc.AddKey(ctx, "openai", "sk-doomed-key-001", models.AddKeyOptions{})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveKey(ctx, entry.ID))
	assert.ErrorIs(t, svc.RemoveKey(ctx, entry.ID), ErrKeyNotFound)

	_, found, err := svc.GetKey(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 1, recorder.count("key:removed"))
}

func TestVault_RotateKeyReplacesSecretAndDropsCache(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	entry, err := svc.AddKey(ctx, "openai", "sk-old-secret-001", models.AddKeyOptions{})
	require.NoError(t, err)

	// Populate the cache with the old secret first.
	secret, found, err := svc.GetKey(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "sk-old-secret-001", secret)

	require.NoError(t, svc.RotateKey(ctx, entry.ID, "sk-new-secret-002"))

	secret, found, err = svc.GetKey(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-new-secret-002", secret, "rotation must invalidate the cached value")

	entries, err := svc.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sk-new-s...", entries[0].KeyPrefix)
	assert.Equal(t, entry.ID, entries[0].ID, "rotation preserves the id")

	assert.ErrorIs(t, svc.RotateKey(ctx, "no-such-id", "sk-x-secret-00003"), ErrKeyNotFound)
	assert.Equal(t, 1, recorder.count("key:rotated"))
}

func TestVault_LockIsIdempotent(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	require.NoError(t, svc.Lock(ctx))
	require.NoError(t, svc.Lock(ctx))

	assert.Equal(t, StatusLocked, svc.Status())
	assert.Equal(t, 1, recorder.count("locked"), "repeated lock must not emit again")
}

func TestVault_UpdateSettingsSurvivesLockCycle(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	want := models.VaultSettings{
		AutoLockAfter:       models.Duration(45 * time.Minute),
		ClipboardClearAfter: models.Duration(30 * time.Second),
	}
	require.NoError(t, svc.UpdateSettings(ctx, want))

	require.NoError(t, svc.Lock(ctx))
	require.NoError(t, svc.Unlock(ctx, "pw1"))

	got, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, recorder.count("settings:changed"), 1)
}

func TestVault_ExportAvailableWhileLocked(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()

	_, err := svc.Export(ctx)
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	_, err = svc.AddKey(ctx, "openai", "sk-export-key-001", models.AddKeyOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx))

	export, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, export.Entries, 1)
	assert.NotEmpty(t, export.Entries[0].EncryptedKey.Ciphertext)
	assert.NotContains(t, export.Entries[0].EncryptedKey.Ciphertext, "sk-export-key-001")
}

func TestVault_OperationsWhileLockedFail(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	entry, err := svc.AddKey(ctx, "openai", "sk-locked-key-001", models.AddKeyOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx))

	_, err = svc.AddKey(ctx, "openai", "sk-other-key-0002", models.AddKeyOptions{})
	assert.ErrorIs(t, err, ErrVaultLocked)
	assert.ErrorIs(t, svc.RemoveKey(ctx, entry.ID), ErrVaultLocked)
	assert.ErrorIs(t, svc.RotateKey(ctx, entry.ID, "sk-new-key-000003"), ErrVaultLocked)
	assert.ErrorIs(t, svc.SetDefaultKey(ctx, entry.ID), ErrVaultLocked)

	_, err = svc.ListKeys(ctx)
	assert.ErrorIs(t, err, ErrVaultLocked)
	_, err = svc.Settings(ctx)
	assert.ErrorIs(t, err, ErrVaultLocked)
	_, _, err = svc.GetKeyForProvider(ctx, "openai")
	assert.ErrorIs(t, err, ErrVaultLocked)
}

func TestVault_AutoLockFiresAfterIdle(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()

	settings := models.VaultSettings{AutoLockAfter: models.Duration(80 * time.Millisecond)}
	require.NoError(t, svc.Initialize(ctx, "pw1", settings))
	require.Equal(t, StatusUnlocked, svc.Status())

	assert.Eventually(t, func() bool {
		return svc.Status() == StatusLocked
	}, 2*time.Second, 10*time.Millisecond, "vault must auto-lock after the idle interval")

	assert.Equal(t, 1, recorder.count("locked"))
}

func TestVault_ActivityPostponesAutoLock(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()

	settings := models.VaultSettings{AutoLockAfter: models.Duration(150 * time.Millisecond)}
	require.NoError(t, svc.Initialize(ctx, "pw1", settings))
	entry, err := svc.AddKey(ctx, "openai", "sk-active-key-001", models.AddKeyOptions{})
	require.NoError(t, err)

	// Keep touching the vault at half the idle interval; it must stay
	// unlocked the whole time.
	deadline := time.Now().Add(450 * time.Millisecond)
	for time.Now().Before(deadline) {
		_, _, err := svc.GetKey(ctx, entry.ID)
		require.NoError(t, err)
		require.Equal(t, StatusUnlocked, svc.Status())
		time.Sleep(50 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return svc.Status() == StatusLocked
	}, 2*time.Second, 10*time.Millisecond, "vault must lock once activity stops")
}

func TestVault_ZeroAutoLockDisablesTimer(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, StatusUnlocked, svc.Status())
}

// TestVault_SubscriberPanicDoesNotBreakVault verifies the event contract:
// a failing handler never propagates into vault operations.
func TestVault_SubscriberPanicDoesNotBreakVault(t *testing.T) {
	recorder := &eventRecorder{}
	bus := events.NewBus(logger.Nop())
	bus.Subscribe(func(events.Event) { panic("handler failure") })
	bus.Subscribe(recorder.record)

	svc := NewVaultService(crypto.NewCryptoService(), store.NewMemoryVaultStore(), bus, logger.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	_, err := svc.AddKey(ctx, "openai", "sk-sturdy-key-001", models.AddKeyOptions{})
	require.NoError(t, err)

	assert.Contains(t, recorder.snapshot(), "key:added")
}

func TestDisplayPrefix(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{name: "long secret keeps 8 chars", secret: "sk-test-key-12345", want: "sk-test-..."},
		{name: "boundary length is masked", secret: "abcdefghijk", want: strings.Repeat("*", 11)},
		{name: "short secret fully masked", secret: "tiny", want: "****"},
		{name: "empty secret", secret: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayPrefix(tt.secret))
		})
	}
}

func TestVault_UnlockWhileUnlockedIsNoOp(t *testing.T) {
	svc, _, recorder := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))

	require.NoError(t, svc.Unlock(ctx, "anything"))
	assert.Equal(t, 1, recorder.count("unlocked"))
}

func TestVault_ConcurrentReadsDoNotRace(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	entry, err := svc.AddKey(ctx, "openai", "sk-parallel-key-1", models.AddKeyOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				secret, found, err := svc.GetKey(ctx, entry.ID)
				if err != nil || !found || secret != "sk-parallel-key-1" {
					t.Errorf("GetKey: secret=%q found=%v err=%v", secret, found, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestVault_WrongUnlockKeepsStateIntact(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	entry, err := svc.AddKey(ctx, "openai", "sk-intact-key-001", models.AddKeyOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx))

	for i := 0; i < 3; i++ {
		require.Error(t, svc.Unlock(ctx, "guess"))
	}

	require.NoError(t, svc.Unlock(ctx, "pw1"))
	secret, found, err := svc.GetKey(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "sk-intact-key-001", secret)
}

func TestVault_GetKeyUpdatesLastUsedAt(t *testing.T) {
	svc, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx, "pw1", models.VaultSettings{}))
	entry, err := svc.AddKey(ctx, "openai", "sk-usage-key-0001", models.AddKeyOptions{})
	require.NoError(t, err)

	entries, err := svc.ListKeys(ctx)
	require.NoError(t, err)
	require.Nil(t, entries[0].LastUsedAt)

	_, _, err = svc.GetKey(ctx, entry.ID)
	require.NoError(t, err)

	entries, err = svc.ListKeys(ctx)
	require.NoError(t, err)
	require.NotNil(t, entries[0].LastUsedAt)
	assert.WithinDuration(t, time.Now(), *entries[0].LastUsedAt, 5*time.Second)
}
