package models

import "time"

// Request and response bodies for the REST surface. Kept here so the server
// handlers and any Go client share one set of wire types.

// InitVaultRequest creates the vault on first run. Settings may be zero;
// defaults then apply.
type InitVaultRequest struct {
	Password string        `json:"password"`
	Settings VaultSettings `json:"settings"`
}

// UnlockVaultRequest carries the master password for vault unlock.
type UnlockVaultRequest struct {
	Password string `json:"password"`
}

// VaultStatusResponse reports the vault state machine position.
type VaultStatusResponse struct {
	State string `json:"state"`
}

// AddKeyRequest creates a credential entry.
type AddKeyRequest struct {
	Provider string        `json:"provider"`
	Secret   string        `json:"secret"`
	Options  AddKeyOptions `json:"options"`
}

// RotateKeyRequest replaces an entry's secret in place.
type RotateKeyRequest struct {
	Secret string `json:"secret"`
}

// ResolveResponse maps provider names to resolved plaintext secrets.
// Partial results are expected; callers check completeness themselves.
type ResolveResponse struct {
	Keys map[string]string `json:"keys"`
}

// CreateDocumentRequest creates a document.
type CreateDocumentRequest struct {
	Name          string        `json:"name"`
	SecurityLevel SecurityLevel `json:"securityLevel"`
	Description   string        `json:"description,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	// Password protects the per-document key for encrypted levels.
	Password string `json:"password,omitempty"`
	// State is the initial canvas state; empty means a blank canvas.
	State *CanvasState `json:"state,omitempty"`
}

// UnlockDocumentRequest opens an encrypted document with either the
// document password or a raw base64 key. Exactly one should be set.
type UnlockDocumentRequest struct {
	Password string `json:"password,omitempty"`
	Key      string `json:"key,omitempty"`
}

// DocumentResponse returns a document read. For locked encrypted documents
// State is nil and RequiresAuth is true; no decryption was attempted.
type DocumentResponse struct {
	Metadata     DocumentMetadata `json:"metadata"`
	State        *CanvasState     `json:"state,omitempty"`
	RequiresAuth bool             `json:"requiresAuth,omitempty"`
}

// UpdateDocumentRequest replaces the document state wholesale. The rendering
// layer owns the state shape; the server re-encrypts and recounts on commit.
type UpdateDocumentRequest struct {
	State CanvasState `json:"state"`
}

// GrantAccessRequest adds or replaces an access entry. Empty Permissions
// grants the security level's default set.
type GrantAccessRequest struct {
	ParticipantID string       `json:"participantId"`
	Permissions   []Permission `json:"permissions,omitempty"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
}

// ErrorResponse is the uniform error body. RequiresAuth flags reads of
// locked encrypted documents so clients can prompt instead of failing.
type ErrorResponse struct {
	Error        string `json:"error"`
	RequiresAuth bool   `json:"requiresAuth,omitempty"`
}

// VersionResponse reports the running application version.
type VersionResponse struct {
	Version string `json:"version"`
}
