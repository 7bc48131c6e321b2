// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SecurityLevel classifies how a document is protected, from least to most
// restrictive. Open documents are stored in plaintext; every other level is
// encrypted under a per-document key.
type SecurityLevel string

const (
	// LevelOpen stores state in the clear; no unlock required.
	LevelOpen SecurityLevel = "open"

	// LevelPrivate encrypts state; intended for a single owner.
	LevelPrivate SecurityLevel = "private"

	// LevelShared encrypts state; collaborators default to read access.
	LevelShared SecurityLevel = "shared"

	// LevelHardened encrypts state; collaborators default to view only.
	LevelHardened SecurityLevel = "hardened"
)

// Valid reports whether l is one of the defined security levels.
func (l SecurityLevel) Valid() bool {
	switch l {
	case LevelOpen, LevelPrivate, LevelShared, LevelHardened:
		return true
	}
	return false
}

// Encrypted reports whether documents at this level carry ciphertext.
func (l SecurityLevel) Encrypted() bool {
	return l != LevelOpen
}

// Permission is a single capability on a document.
type Permission string

const (
	PermissionView   Permission = "view"
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"

	// PermissionAdmin implies every other permission and is required to
	// change the access list itself.
	PermissionAdmin Permission = "admin"
)

// AllPermissions is the full capability set granted to a document's creator.
func AllPermissions() []Permission {
	return []Permission{
		PermissionView,
		PermissionRead,
		PermissionWrite,
		PermissionDelete,
		PermissionAdmin,
	}
}

// DefaultPermissions returns the permission set a security level assigns to
// an access grant that does not name explicit permissions.
func DefaultPermissions(level SecurityLevel) []Permission {
	switch level {
	case LevelShared:
		return []Permission{PermissionView, PermissionRead}
	case LevelHardened:
		return []Permission{PermissionView}
	default:
		// open and private both default to full non-admin access;
		// private differs by granting admin to the creator at creation.
		return []Permission{
			PermissionView,
			PermissionRead,
			PermissionWrite,
			PermissionDelete,
		}
	}
}

// AccessEntry grants one participant a permission set on a document.
type AccessEntry struct {
	// ParticipantID identifies the persona or agent being granted access.
	ParticipantID string `json:"participantId"`

	// Permissions is the granted capability set.
	Permissions []Permission `json:"permissions"`

	// GrantedBy records which participant issued the grant.
	GrantedBy string `json:"grantedBy"`

	// GrantedAt is when the grant was issued.
	GrantedAt time.Time `json:"grantedAt"`

	// ExpiresAt optionally expires the grant; an expired entry denies.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the grant has lapsed relative to now.
func (a AccessEntry) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// Has reports whether the entry carries the permission, honoring the rule
// that admin implies every other permission. Expiry is the caller's check.
func (a AccessEntry) Has(perm Permission) bool {
	for _, p := range a.Permissions {
		if p == perm || p == PermissionAdmin {
			return true
		}
	}
	return false
}

// DocumentMetadata is the always-readable part of a secure document. It is
// never encrypted; nothing here may contain secret material.
type DocumentMetadata struct {
	// ID is the unique document identifier (UUID).
	ID string `json:"id"`

	// Name is the display name of the document.
	Name string `json:"name"`

	// SecurityLevel classifies the document's protection.
	SecurityLevel SecurityLevel `json:"securityLevel"`

	// AccessList is the document's ACL. At least one entry holding admin
	// must exist at all times for encrypted documents.
	AccessList []AccessEntry `json:"accessList"`

	// EncryptionAlgorithm and EncryptionVersion pin the cipher suite used
	// for the content. Present for encrypted levels.
	EncryptionAlgorithm string `json:"encryptionAlgorithm,omitempty"`
	EncryptionVersion   int    `json:"encryptionVersion,omitempty"`

	// WidgetCount is the number of nodes on the canvas, maintained on
	// every committed mutation so list views need no decryption.
	WidgetCount int `json:"widgetCount"`

	// LastAccessedAt is when the document was last unlocked or read.
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`

	// Description is an optional free-form summary.
	Description string `json:"description,omitempty"`

	// Tags are free-form labels for organization.
	Tags []string `json:"tags,omitempty"`
}

// Clone returns a deep copy of the metadata so callers can mutate the
// access list and tags without aliasing stored state.
func (m DocumentMetadata) Clone() DocumentMetadata {
	out := m
	if m.AccessList != nil {
		out.AccessList = append([]AccessEntry(nil), m.AccessList...)
	}
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.LastAccessedAt != nil {
		t := *m.LastAccessedAt
		out.LastAccessedAt = &t
	}
	return out
}

// DocumentContent is the at-rest body of a document. Exactly one of
// EncryptedState or PlainState is populated, according to the security level.
type DocumentContent struct {
	// EncryptedState holds the ciphertext for encrypted levels.
	EncryptedState *EncryptedBlob `json:"encryptedState,omitempty"`

	// PlainState holds the serialized state for open documents.
	PlainState []byte `json:"plainState,omitempty"`

	// ContentHash is the hex digest of the serialized plaintext state,
	// verified on every unlock before the cache is populated.
	ContentHash string `json:"contentHash,omitempty"`

	// Salt is the base64 KDF salt allowing password-based unlock of the
	// per-document key.
	Salt string `json:"salt,omitempty"`

	// NodeCount and EdgeCount mirror the graph size at last commit.
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
}

// Clone returns a deep copy of the content.
func (c DocumentContent) Clone() DocumentContent {
	out := c
	if c.EncryptedState != nil {
		blob := *c.EncryptedState
		out.EncryptedState = &blob
	}
	if c.PlainState != nil {
		out.PlainState = append([]byte(nil), c.PlainState...)
	}
	return out
}

// SecureDocument is the stored form of one document: public metadata plus
// the (possibly encrypted) content. This is also the export/import format;
// export never transforms the ciphertext.
type SecureDocument struct {
	Metadata DocumentMetadata `json:"metadata"`
	Content  DocumentContent  `json:"content"`
}

// Clone returns a deep copy of the document.
func (d SecureDocument) Clone() SecureDocument {
	return SecureDocument{
		Metadata: d.Metadata.Clone(),
		Content:  d.Content.Clone(),
	}
}
