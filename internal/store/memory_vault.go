package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// memoryVaultStore keeps the vault export in process memory. Used by tests
// and by ephemeral deployments that never persist the vault.
type memoryVaultStore struct {
	mu     sync.Mutex
	export models.VaultExport
	saved  bool
}

// NewMemoryVaultStore constructs an empty in-memory [VaultStore].
func NewMemoryVaultStore() VaultStore {
	return &memoryVaultStore{}
}

// Save implements [VaultStore].
func (m *memoryVaultStore) Save(ctx context.Context, export models.VaultExport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.export = export
	m.saved = true
	return nil
}

// Load implements [VaultStore].
func (m *memoryVaultStore) Load(ctx context.Context) (models.VaultExport, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return models.VaultExport{}, false, nil
	}
	return m.export, true, nil
}
