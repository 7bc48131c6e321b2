package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// testEnv bundles a registry wired to a real unlocked vault.
type testEnv struct {
	registry RegistryService
	vault    vault.VaultService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v := vault.NewVaultService(crypto.NewCryptoService(), store.NewMemoryVaultStore(), nil, logger.Nop())
	require.NoError(t, v.Initialize(context.Background(), "pw1", models.VaultSettings{}))

	bus := events.NewBus(logger.Nop())
	return &testEnv{
		registry: NewRegistryService(v, nil, bus, logger.Nop()),
		vault:    v,
	}
}

// addVaultKey stores a secret and returns the entry id.
func (e *testEnv) addVaultKey(t *testing.T, provider, secret string) string {
	t.Helper()
	entry, err := e.vault.AddKey(context.Background(), provider, secret, models.AddKeyOptions{})
	require.NoError(t, err)
	return entry.ID
}

func TestRegistry_RegisterAssignsIDAndDefaultsScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.registry.Register(ctx, models.RegistryRecord{
		Provider: "openai",
		KeyID:    "key-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.ScopeGlobal, record.Scope)

	got, found, err := env.registry.Get(ctx, record.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record, got)
}

func TestRegistry_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record models.RegistryRecord
	}{
		{name: "missing provider", record: models.RegistryRecord{KeyID: "key-1"}},
		{name: "missing keyId", record: models.RegistryRecord{Provider: "openai"}},
		{name: "unknown scope", record: models.RegistryRecord{Provider: "openai", KeyID: "key-1", Scope: "team"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.registry.Register(ctx, tt.record)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegistry_RegisterDuplicateIDFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: "key-1"})
	require.NoError(t, err)

	_, err = env.registry.Register(ctx, models.RegistryRecord{ID: record.ID, Provider: "openai", KeyID: "key-2"})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestRegistry_UnregisterAndAbsence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: "key-1"})
	require.NoError(t, err)

	require.NoError(t, env.registry.Unregister(ctx, record.ID))
	assert.ErrorIs(t, env.registry.Unregister(ctx, record.ID), ErrRecordNotFound)

	_, found, err := env.registry.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRegistry_ListKeepsRegistrationOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: "key-a"})
	require.NoError(t, err)
	b, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "anthropic", KeyID: "key-b"})
	require.NoError(t, err)

	records, err := env.registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, a.ID, records[0].ID)
	assert.Equal(t, b.ID, records[1].ID)
}

// TestRegistry_ScopeFiltering проверяет видимость записей: global видна всем,
// persona-scoped — только перечисленным персонам, service-scoped — агентам.
func TestRegistry_ScopeFiltering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	global, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: "key-g"})
	require.NoError(t, err)
	scoped, err := env.registry.Register(ctx, models.RegistryRecord{
		Provider:        "anthropic",
		KeyID:           "key-p",
		Scope:           models.ScopePersona,
		AllowedPersonas: []string{"persona-1"},
	})
	require.NoError(t, err)
	agentOnly, err := env.registry.Register(ctx, models.RegistryRecord{
		Provider:      "deepseek",
		KeyID:         "key-s",
		Scope:         models.ScopeService,
		AllowedAgents: []string{"agent-1"},
	})
	require.NoError(t, err)

	forOne, err := env.registry.FindAllowedForPersona(ctx, "persona-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{global.ID, scoped.ID}, recordIDs(forOne))

	forOther, err := env.registry.FindAllowedForPersona(ctx, "persona-2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{global.ID}, recordIDs(forOther))

	forAgent, err := env.registry.FindAllowedForAgent(ctx, "agent-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{global.ID, agentOnly.ID}, recordIDs(forAgent))
}

func TestRegistry_ExpiredRecordsAreExcluded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	_, err := env.registry.Register(ctx, models.RegistryRecord{
		Provider:  "openai",
		KeyID:     "key-old",
		ExpiresAt: &past,
	})
	require.NoError(t, err)

	allowed, err := env.registry.FindAllowedForPersona(ctx, "persona-1")
	require.NoError(t, err)
	assert.Empty(t, allowed)

	// List still shows expired records for administration.
	records, err := env.registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestRegistry_ResolveKeysForPersona проверяет главный сценарий: map
// provider → секрет для всех доступных записей; недоступные записи молча
// пропускаются.
func TestRegistry_ResolveKeysForPersona(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	openaiKey := env.addVaultKey(t, "openai", "sk-openai-key-001")
	anthropicKey := env.addVaultKey(t, "anthropic", "sk-ant-key-000002")

	_, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: openaiKey})
	require.NoError(t, err)
	_, err = env.registry.Register(ctx, models.RegistryRecord{
		Provider:        "anthropic",
		KeyID:           anthropicKey,
		Scope:           models.ScopePersona,
		AllowedPersonas: []string{"persona-1"},
	})
	require.NoError(t, err)
	// Dangling reference: the vault entry never existed.
	_, err = env.registry.Register(ctx, models.RegistryRecord{Provider: "mistral", KeyID: "gone"})
	require.NoError(t, err)

	keys, err := env.registry.ResolveKeysForPersona(ctx, "persona-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"openai":    "sk-openai-key-001",
		"anthropic": "sk-ant-key-000002",
	}, keys, "dangling records are omitted, not errors")
}

func TestRegistry_ResolveWithLockedVaultOmitsSilently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	keyID := env.addVaultKey(t, "openai", "sk-locked-key-001")
	_, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: keyID})
	require.NoError(t, err)

	require.NoError(t, env.vault.Lock(ctx))

	keys, err := env.registry.ResolveKeysForPersona(ctx, "persona-1")
	require.NoError(t, err, "a locked vault must not fail resolution")
	assert.Empty(t, keys)
}

func TestRegistry_ResolveFirstProviderRecordWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	firstKey := env.addVaultKey(t, "openai", "sk-first-key-0001")
	secondKey := env.addVaultKey(t, "openai", "sk-second-key-002")

	_, err := env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: firstKey})
	require.NoError(t, err)
	_, err = env.registry.Register(ctx, models.RegistryRecord{Provider: "openai", KeyID: secondKey})
	require.NoError(t, err)

	keys, err := env.registry.ResolveKeysForPersona(ctx, "persona-1")
	require.NoError(t, err)
	assert.Equal(t, "sk-first-key-0001", keys["openai"])
}

func TestRegistry_RateLimitExhaustionOmitsRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	keyID := env.addVaultKey(t, "openai", "sk-limited-key-01")
	_, err := env.registry.Register(ctx, models.RegistryRecord{
		Provider:  "openai",
		KeyID:     keyID,
		RateLimit: &models.RateLimit{PerMinute: 1, Burst: 2},
	})
	require.NoError(t, err)

	// Two resolutions fit in the burst, the third is omitted.
	for i := 0; i < 2; i++ {
		keys, err := env.registry.ResolveKeysForPersona(ctx, "persona-1")
		require.NoError(t, err)
		require.Contains(t, keys, "openai", "resolution %d should pass", i+1)
	}

	keys, err := env.registry.ResolveKeysForPersona(ctx, "persona-1")
	require.NoError(t, err)
	assert.NotContains(t, keys, "openai", "exhausted rate limit omits the record")
}

func TestRegistry_ValidationOnFinders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.registry.FindAllowedForPersona(ctx, "  ")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.registry.FindAllowedForAgent(ctx, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.registry.ResolveKeysForPersona(ctx, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func recordIDs(records []models.RegistryRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}
