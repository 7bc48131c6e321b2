// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-canvas-vault/internal/canvas"
	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// ─────────────────────────────────────────────
// Mock VaultService
// ─────────────────────────────────────────────

// mockVaultService implements vault.VaultService for unit tests.
// Each method field can be overridden per test case; calling an unset
// method panics, pointing straight at the missing stub.
type mockVaultService struct {
	initializeFn        func(ctx context.Context, password string, settings models.VaultSettings) error
	loadFn              func(ctx context.Context) error
	unlockFn            func(ctx context.Context, password string) error
	lockFn              func(ctx context.Context) error
	statusFn            func() vault.Status
	addKeyFn            func(ctx context.Context, provider, secret string, opts models.AddKeyOptions) (models.CredentialEntry, error)
	removeKeyFn         func(ctx context.Context, id string) error
	getKeyFn            func(ctx context.Context, id string) (string, bool, error)
	getKeyForProviderFn func(ctx context.Context, provider string) (string, bool, error)
	rotateKeyFn         func(ctx context.Context, id, newSecret string) error
	setDefaultKeyFn     func(ctx context.Context, id string) error
	listKeysFn          func(ctx context.Context) ([]models.CredentialEntry, error)
	settingsFn          func(ctx context.Context) (models.VaultSettings, error)
	updateSettingsFn    func(ctx context.Context, settings models.VaultSettings) error
	exportFn            func(ctx context.Context) (models.VaultExport, error)
}

func (m *mockVaultService) Initialize(ctx context.Context, password string, settings models.VaultSettings) error {
	return m.initializeFn(ctx, password, settings)
}

func (m *mockVaultService) Load(ctx context.Context) error { return m.loadFn(ctx) }

func (m *mockVaultService) Unlock(ctx context.Context, password string) error {
	return m.unlockFn(ctx, password)
}

func (m *mockVaultService) Lock(ctx context.Context) error { return m.lockFn(ctx) }

func (m *mockVaultService) Status() vault.Status { return m.statusFn() }

func (m *mockVaultService) AddKey(ctx context.Context, provider, secret string, opts models.AddKeyOptions) (models.CredentialEntry, error) {
	return m.addKeyFn(ctx, provider, secret, opts)
}

func (m *mockVaultService) RemoveKey(ctx context.Context, id string) error {
	return m.removeKeyFn(ctx, id)
}

func (m *mockVaultService) GetKey(ctx context.Context, id string) (string, bool, error) {
	return m.getKeyFn(ctx, id)
}

func (m *mockVaultService) GetKeyForProvider(ctx context.Context, provider string) (string, bool, error) {
	return m.getKeyForProviderFn(ctx, provider)
}

func (m *mockVaultService) RotateKey(ctx context.Context, id, newSecret string) error {
	return m.rotateKeyFn(ctx, id, newSecret)
}

func (m *mockVaultService) SetDefaultKey(ctx context.Context, id string) error {
	return m.setDefaultKeyFn(ctx, id)
}

func (m *mockVaultService) ListKeys(ctx context.Context) ([]models.CredentialEntry, error) {
	return m.listKeysFn(ctx)
}

func (m *mockVaultService) Settings(ctx context.Context) (models.VaultSettings, error) {
	return m.settingsFn(ctx)
}

func (m *mockVaultService) UpdateSettings(ctx context.Context, settings models.VaultSettings) error {
	return m.updateSettingsFn(ctx, settings)
}

func (m *mockVaultService) Export(ctx context.Context) (models.VaultExport, error) {
	return m.exportFn(ctx)
}

func (m *mockVaultService) PurgeExpiredSecrets() int { return 0 }

// ─────────────────────────────────────────────
// Mock RegistryService
// ─────────────────────────────────────────────

// mockRegistryService implements registry.RegistryService for unit tests.
type mockRegistryService struct {
	loadFn                  func(ctx context.Context) error
	registerFn              func(ctx context.Context, record models.RegistryRecord) (models.RegistryRecord, error)
	unregisterFn            func(ctx context.Context, id string) error
	getFn                   func(ctx context.Context, id string) (models.RegistryRecord, bool, error)
	listFn                  func(ctx context.Context) ([]models.RegistryRecord, error)
	findAllowedForPersonaFn func(ctx context.Context, personaID string) ([]models.RegistryRecord, error)
	findAllowedForAgentFn   func(ctx context.Context, agentID string) ([]models.RegistryRecord, error)
	resolveKeysForPersonaFn func(ctx context.Context, personaID string) (map[string]string, error)
}

func (m *mockRegistryService) Load(ctx context.Context) error { return m.loadFn(ctx) }

func (m *mockRegistryService) Register(ctx context.Context, record models.RegistryRecord) (models.RegistryRecord, error) {
	return m.registerFn(ctx, record)
}

func (m *mockRegistryService) Unregister(ctx context.Context, id string) error {
	return m.unregisterFn(ctx, id)
}

func (m *mockRegistryService) Get(ctx context.Context, id string) (models.RegistryRecord, bool, error) {
	return m.getFn(ctx, id)
}

func (m *mockRegistryService) List(ctx context.Context) ([]models.RegistryRecord, error) {
	return m.listFn(ctx)
}

func (m *mockRegistryService) FindAllowedForPersona(ctx context.Context, personaID string) ([]models.RegistryRecord, error) {
	return m.findAllowedForPersonaFn(ctx, personaID)
}

func (m *mockRegistryService) FindAllowedForAgent(ctx context.Context, agentID string) ([]models.RegistryRecord, error) {
	return m.findAllowedForAgentFn(ctx, agentID)
}

func (m *mockRegistryService) ResolveKeysForPersona(ctx context.Context, personaID string) (map[string]string, error) {
	return m.resolveKeysForPersonaFn(ctx, personaID)
}

// ─────────────────────────────────────────────
// Mock DocumentService
// ─────────────────────────────────────────────

// mockDocumentService implements canvas.DocumentService for unit tests.
type mockDocumentService struct {
	loadFn           func(ctx context.Context) error
	createDocumentFn func(ctx context.Context, opts canvas.CreateDocumentOptions) (models.DocumentMetadata, error)
	getDocumentFn    func(ctx context.Context, id string) (canvas.DocumentView, error)
	unlockDocumentFn func(ctx context.Context, id, participantID, password string, key []byte) (canvas.DocumentView, error)
	lockDocumentFn   func(ctx context.Context, id string) error
	lockAllFn        func(ctx context.Context)
	updateDocumentFn func(ctx context.Context, id, participantID string, transform func(*models.CanvasState) error) (models.DocumentMetadata, error)
	addNodeFn        func(ctx context.Context, id, participantID string, node models.Node) (models.Node, error)
	removeNodeFn     func(ctx context.Context, id, participantID, nodeID string) error
	deleteDocumentFn func(ctx context.Context, id, participantID string) error
	hasPermissionFn  func(ctx context.Context, id, participantID string, perm models.Permission) (bool, error)
	grantAccessFn    func(ctx context.Context, id, callerID string, entry models.AccessEntry) error
	revokeAccessFn   func(ctx context.Context, id, callerID, participantID string) error
	exportDocumentFn func(ctx context.Context, id string) (models.SecureDocument, error)
	importDocumentFn func(ctx context.Context, doc models.SecureDocument) (models.DocumentMetadata, error)
	listDocumentsFn  func(ctx context.Context) ([]models.DocumentMetadata, error)
}

func (m *mockDocumentService) Load(ctx context.Context) error { return m.loadFn(ctx) }

func (m *mockDocumentService) CreateDocument(ctx context.Context, opts canvas.CreateDocumentOptions) (models.DocumentMetadata, error) {
	return m.createDocumentFn(ctx, opts)
}

func (m *mockDocumentService) GetDocument(ctx context.Context, id string) (canvas.DocumentView, error) {
	return m.getDocumentFn(ctx, id)
}

func (m *mockDocumentService) UnlockDocument(ctx context.Context, id, participantID, password string, key []byte) (canvas.DocumentView, error) {
	return m.unlockDocumentFn(ctx, id, participantID, password, key)
}

func (m *mockDocumentService) LockDocument(ctx context.Context, id string) error {
	return m.lockDocumentFn(ctx, id)
}

func (m *mockDocumentService) LockAll(ctx context.Context) { m.lockAllFn(ctx) }

func (m *mockDocumentService) UpdateDocument(ctx context.Context, id, participantID string, transform func(*models.CanvasState) error) (models.DocumentMetadata, error) {
	return m.updateDocumentFn(ctx, id, participantID, transform)
}

func (m *mockDocumentService) AddNode(ctx context.Context, id, participantID string, node models.Node) (models.Node, error) {
	return m.addNodeFn(ctx, id, participantID, node)
}

func (m *mockDocumentService) RemoveNode(ctx context.Context, id, participantID, nodeID string) error {
	return m.removeNodeFn(ctx, id, participantID, nodeID)
}

func (m *mockDocumentService) DeleteDocument(ctx context.Context, id, participantID string) error {
	return m.deleteDocumentFn(ctx, id, participantID)
}

func (m *mockDocumentService) HasPermission(ctx context.Context, id, participantID string, perm models.Permission) (bool, error) {
	return m.hasPermissionFn(ctx, id, participantID, perm)
}

func (m *mockDocumentService) GrantAccess(ctx context.Context, id, callerID string, entry models.AccessEntry) error {
	return m.grantAccessFn(ctx, id, callerID, entry)
}

func (m *mockDocumentService) RevokeAccess(ctx context.Context, id, callerID, participantID string) error {
	return m.revokeAccessFn(ctx, id, callerID, participantID)
}

func (m *mockDocumentService) ExportDocument(ctx context.Context, id string) (models.SecureDocument, error) {
	return m.exportDocumentFn(ctx, id)
}

func (m *mockDocumentService) ImportDocument(ctx context.Context, doc models.SecureDocument) (models.DocumentMetadata, error) {
	return m.importDocumentFn(ctx, doc)
}

func (m *mockDocumentService) ListDocuments(ctx context.Context) ([]models.DocumentMetadata, error) {
	return m.listDocumentsFn(ctx)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler around the given mocks. Nil mocks are
// replaced with empty ones so wiring stays short in tests that only touch
// one service.
func newTestHandler(t *testing.T, vaultSvc *mockVaultService, registrySvc *mockRegistryService, docSvc *mockDocumentService) *Handler {
	t.Helper()

	if vaultSvc == nil {
		vaultSvc = &mockVaultService{}
	}
	if registrySvc == nil {
		registrySvc = &mockRegistryService{}
	}
	if docSvc == nil {
		docSvc = &mockDocumentService{}
	}

	services := &Services{
		Vault:     vaultSvc,
		Registry:  registrySvc,
		Documents: docSvc,
	}

	return NewHandler(services, config.App{Version: "test"}, logger.Nop())
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

// TestNewHandler verifies that the constructor stores its collaborators.
func TestNewHandler(t *testing.T) {
	services := &Services{
		Vault:     &mockVaultService{},
		Registry:  &mockRegistryService{},
		Documents: &mockDocumentService{},
	}

	h := NewHandler(services, config.App{Version: "1.2.3"}, logger.Nop())

	require.NotNil(t, h)
	require.Same(t, services, h.services)
	require.Equal(t, "1.2.3", h.app.Version)
}
