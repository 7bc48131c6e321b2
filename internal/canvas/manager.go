// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package canvas manages secure canvas documents: per-document encryption,
// access control, and the decrypted-state cache backing live editing.
package canvas

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// documentService is the single owner of all document state. The mutex
// guards the documents map and the cache; key derivation always runs with
// the mutex released. Events are published after the mutex is released so a
// subscriber calling back into the service cannot deadlock.
type documentService struct {
	crypto crypto.CryptoService
	codec  StateCodec
	repo   store.DocumentRepository // nil means memory-only
	bus    *events.Bus
	ids    *utils.UUIDGenerator
	log    *logger.Logger

	mu    sync.RWMutex
	docs  map[string]*models.SecureDocument
	order []string
	cache *documentCache
	now   func() time.Time
}

// NewDocumentService builds a [DocumentService]. A nil codec selects the
// JSON codec; a nil repo keeps documents in memory only.
func NewDocumentService(cryptoSvc crypto.CryptoService, codec StateCodec, repo store.DocumentRepository, bus *events.Bus, log *logger.Logger) DocumentService {
	if codec == nil {
		codec = NewJSONStateCodec()
	}
	return &documentService{
		crypto: cryptoSvc,
		codec:  codec,
		repo:   repo,
		bus:    bus,
		ids:    utils.NewUUIDGenerator(),
		log:    log,
		docs:   make(map[string]*models.SecureDocument),
		cache:  newDocumentCache(),
		now:    time.Now,
	}
}

// Load implements [DocumentService]. Documents come back locked; the cache
// starts empty.
func (s *documentService) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	metas, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, meta := range metas {
		doc, found, err := s.repo.Get(ctx, meta.ID)
		if err != nil {
			return fmt.Errorf("load document %s: %w", meta.ID, err)
		}
		if !found {
			continue
		}
		if _, exists := s.docs[doc.Metadata.ID]; !exists {
			s.order = append(s.order, doc.Metadata.ID)
		}
		stored := doc
		s.docs[doc.Metadata.ID] = &stored
	}

	s.log.Info().Int("documents", len(s.docs)).Msg("documents loaded, locked")
	return nil
}

// CreateDocument implements [DocumentService]. All key material work runs
// before the service mutex is taken.
func (s *documentService) CreateDocument(ctx context.Context, opts CreateDocumentOptions) (models.DocumentMetadata, error) {
	if opts.Name == "" {
		return models.DocumentMetadata{}, fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if !opts.SecurityLevel.Valid() {
		return models.DocumentMetadata{}, fmt.Errorf("%w: unknown security level %q", models.ErrValidation, opts.SecurityLevel)
	}
	encrypted := opts.SecurityLevel.Encrypted()
	if encrypted && opts.CreatorID == "" {
		return models.DocumentMetadata{}, fmt.Errorf("%w: creator is required for %s documents", models.ErrValidation, opts.SecurityLevel)
	}
	if encrypted && opts.Password == "" {
		return models.DocumentMetadata{}, fmt.Errorf("%w: password is required for %s documents", models.ErrValidation, opts.SecurityLevel)
	}

	state := models.CanvasState{}
	if opts.State != nil {
		state = opts.State.Clone()
	}
	encoded, err := s.codec.Encode(state)
	if err != nil {
		return models.DocumentMetadata{}, fmt.Errorf("encode state: %w", err)
	}

	now := s.now()
	doc := models.SecureDocument{
		Metadata: models.DocumentMetadata{
			ID:            s.ids.Generate(),
			Name:          opts.Name,
			SecurityLevel: opts.SecurityLevel,
			WidgetCount:   len(state.Nodes),
			Description:   opts.Description,
			Tags:          append([]string(nil), opts.Tags...),
		},
		Content: models.DocumentContent{
			ContentHash: s.crypto.Hash(encoded),
			NodeCount:   len(state.Nodes),
			EdgeCount:   len(state.Edges),
		},
	}

	var key []byte
	if encrypted {
		salt, err := s.crypto.GenerateSalt()
		if err != nil {
			return models.DocumentMetadata{}, fmt.Errorf("generate salt: %w", err)
		}
		key, err = s.crypto.DeriveKey(ctx, opts.Password, salt)
		if err != nil {
			return models.DocumentMetadata{}, fmt.Errorf("derive document key: %w", err)
		}
		blob, err := s.crypto.Encrypt(encoded, key)
		if err != nil {
			s.crypto.SecureWipe(key)
			return models.DocumentMetadata{}, fmt.Errorf("encrypt state: %w", err)
		}
		doc.Content.EncryptedState = blob
		doc.Content.Salt = base64.StdEncoding.EncodeToString(salt)
		doc.Metadata.EncryptionAlgorithm = blob.Algorithm
		doc.Metadata.EncryptionVersion = blob.Version
		doc.Metadata.AccessList = []models.AccessEntry{{
			ParticipantID: opts.CreatorID,
			Permissions:   models.AllPermissions(),
			GrantedBy:     opts.CreatorID,
			GrantedAt:     now,
		}}
	} else {
		doc.Content.PlainState = encoded
	}

	s.mu.Lock()
	if err := s.persistLocked(ctx, doc); err != nil {
		s.mu.Unlock()
		s.crypto.SecureWipe(key)
		return models.DocumentMetadata{}, err
	}
	stored := doc
	s.docs[doc.Metadata.ID] = &stored
	s.order = append(s.order, doc.Metadata.ID)
	if encrypted {
		// The creator just supplied the password; start unlocked.
		s.cache.put(doc.Metadata.ID, state, key)
	}
	meta := stored.Metadata.Clone()
	s.mu.Unlock()

	s.log.Info().
		Str("documentId", meta.ID).
		Str("level", string(meta.SecurityLevel)).
		Msg("document created")
	s.publish(events.DocumentCreated{DocumentID: meta.ID})

	return meta, nil
}

// GetDocument implements [DocumentService]. It never attempts decryption:
// an encrypted document without cached state yields metadata only.
func (s *documentService) GetDocument(ctx context.Context, id string) (DocumentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return DocumentView{}, ErrDocumentNotFound
	}

	view := DocumentView{Metadata: doc.Metadata.Clone()}

	if !doc.Metadata.SecurityLevel.Encrypted() {
		state, err := s.decodePlain(doc.Content.PlainState)
		if err != nil {
			return DocumentView{}, err
		}
		view.State = &state
		return view, nil
	}

	if entry := s.cache.get(id); entry != nil {
		state := entry.state.Clone()
		view.State = &state
		return view, nil
	}

	view.RequiresAuth = true
	return view, nil
}

// UnlockDocument implements [DocumentService]. The permission check comes
// before any cryptographic work; integrity is verified before the cache is
// populated.
func (s *documentService) UnlockDocument(ctx context.Context, id string, participantID string, password string, key []byte) (DocumentView, error) {
	if participantID == "" {
		return DocumentView{}, fmt.Errorf("%w: participant is required", models.ErrValidation)
	}

	s.mu.RLock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.RUnlock()
		return DocumentView{}, ErrDocumentNotFound
	}

	if !doc.Metadata.SecurityLevel.Encrypted() {
		view := DocumentView{Metadata: doc.Metadata.Clone()}
		state, err := s.decodePlain(doc.Content.PlainState)
		s.mu.RUnlock()
		if err != nil {
			return DocumentView{}, err
		}
		view.State = &state
		return view, nil
	}

	if !hasPermission(doc.Metadata, participantID, models.PermissionRead, s.now()) {
		s.mu.RUnlock()
		return DocumentView{}, ErrAccessDenied
	}

	if entry := s.cache.get(id); entry != nil {
		view := DocumentView{Metadata: doc.Metadata.Clone()}
		state := entry.state.Clone()
		view.State = &state
		s.mu.RUnlock()
		return view, nil
	}

	if doc.Content.EncryptedState == nil {
		s.mu.RUnlock()
		return DocumentView{}, fmt.Errorf("%w: document has no ciphertext", models.ErrValidation)
	}
	blob := *doc.Content.EncryptedState
	saltB64 := doc.Content.Salt
	contentHash := doc.Content.ContentHash
	s.mu.RUnlock()

	// Key derivation and decryption run with the mutex released.
	docKey, err := s.resolveDocumentKey(ctx, password, key, saltB64)
	if err != nil {
		return DocumentView{}, err
	}

	plaintext, err := s.crypto.Decrypt(&blob, docKey)
	if err != nil {
		s.crypto.SecureWipe(docKey)
		return DocumentView{}, err
	}

	if !s.crypto.SecureCompare(s.crypto.Hash(plaintext), contentHash) {
		s.crypto.SecureWipe(docKey)
		s.crypto.SecureWipe(plaintext)
		s.log.Warn().Str("documentId", id).Msg("unlock rejected: content hash mismatch")
		return DocumentView{}, ErrIntegrityFailure
	}

	state, err := s.codec.Decode(plaintext)
	s.crypto.SecureWipe(plaintext)
	if err != nil {
		s.crypto.SecureWipe(docKey)
		return DocumentView{}, fmt.Errorf("decode document state: %w", err)
	}

	s.mu.Lock()
	doc, ok = s.docs[id]
	if !ok {
		// Deleted while we were deriving.
		s.mu.Unlock()
		s.crypto.SecureWipe(docKey)
		return DocumentView{}, ErrDocumentNotFound
	}
	if entry := s.cache.get(id); entry != nil {
		// A concurrent unlock won; keep its state and drop our key.
		view := DocumentView{Metadata: doc.Metadata.Clone()}
		cached := entry.state.Clone()
		view.State = &cached
		s.mu.Unlock()
		s.crypto.SecureWipe(docKey)
		return view, nil
	}

	s.cache.put(id, state, docKey)
	accessed := s.now()
	doc.Metadata.LastAccessedAt = &accessed
	if err := s.persistLocked(ctx, *doc); err != nil {
		// The unlock itself succeeded; the timestamp is advisory.
		s.log.Warn().Err(err).Str("documentId", id).Msg("persist last access time failed")
	}
	view := DocumentView{Metadata: doc.Metadata.Clone()}
	cached := state.Clone()
	view.State = &cached
	s.mu.Unlock()

	s.log.Info().Str("documentId", id).Str("participantId", participantID).Msg("document unlocked")
	s.publish(events.DocumentUnlocked{DocumentID: id, ParticipantID: participantID})

	return view, nil
}

// LockDocument implements [DocumentService].
func (s *documentService) LockDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.docs[id]; !ok {
		s.mu.Unlock()
		return ErrDocumentNotFound
	}
	evicted := s.cache.evict(id)
	s.mu.Unlock()

	if evicted {
		s.log.Info().Str("documentId", id).Msg("document locked")
		s.publish(events.DocumentLocked{DocumentID: id})
	}
	return nil
}

// LockAll implements [DocumentService].
func (s *documentService) LockAll(ctx context.Context) {
	s.mu.Lock()
	ids := s.cache.evictAll()
	s.mu.Unlock()

	if len(ids) == 0 {
		return
	}
	s.log.Info().Int("documents", len(ids)).Msg("all documents locked")
	for _, id := range ids {
		s.publish(events.DocumentLocked{DocumentID: id})
	}
}

// UpdateDocument implements [DocumentService].
func (s *documentService) UpdateDocument(ctx context.Context, id string, participantID string, transform func(*models.CanvasState) error) (models.DocumentMetadata, error) {
	return s.applyUpdate(ctx, id, participantID, models.PermissionWrite, transform)
}

// AddNode implements [DocumentService].
func (s *documentService) AddNode(ctx context.Context, id string, participantID string, node models.Node) (models.Node, error) {
	if node.Kind == "" {
		return models.Node{}, fmt.Errorf("%w: node kind is required", models.ErrValidation)
	}
	if node.ID == "" {
		node.ID = s.ids.Generate()
	}
	if node.Data != nil {
		data := make(map[string]any, len(node.Data))
		for k, v := range node.Data {
			data[k] = v
		}
		node.Data = data
	}

	_, err := s.applyUpdate(ctx, id, participantID, models.PermissionWrite, func(state *models.CanvasState) error {
		if state.FindNode(node.ID) >= 0 {
			return fmt.Errorf("%w: node %q already exists", models.ErrValidation, node.ID)
		}
		state.Nodes = append(state.Nodes, node)
		return nil
	})
	if err != nil {
		return models.Node{}, err
	}
	return node, nil
}

// RemoveNode implements [DocumentService]. Every edge touching the node is
// purged with it.
func (s *documentService) RemoveNode(ctx context.Context, id string, participantID string, nodeID string) error {
	_, err := s.applyUpdate(ctx, id, participantID, models.PermissionDelete, func(state *models.CanvasState) error {
		idx := state.FindNode(nodeID)
		if idx < 0 {
			return nil
		}
		state.Nodes = append(state.Nodes[:idx], state.Nodes[idx+1:]...)
		kept := state.Edges[:0]
		for _, edge := range state.Edges {
			if edge.From != nodeID && edge.To != nodeID {
				kept = append(kept, edge)
			}
		}
		state.Edges = kept
		return nil
	})
	return err
}

// DeleteDocument implements [DocumentService].
func (s *documentService) DeleteDocument(ctx context.Context, id string, participantID string) error {
	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		return ErrDocumentNotFound
	}
	if doc.Metadata.SecurityLevel.Encrypted() &&
		!hasPermission(doc.Metadata, participantID, models.PermissionDelete, s.now()) {
		s.mu.Unlock()
		return ErrAccessDenied
	}
	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("delete document: %w", err)
		}
	}
	evicted := s.cache.evict(id)
	delete(s.docs, id)
	s.order = removeID(s.order, id)
	s.mu.Unlock()

	s.log.Info().Str("documentId", id).Msg("document deleted")
	if evicted {
		s.publish(events.DocumentLocked{DocumentID: id})
	}
	return nil
}

// HasPermission implements [DocumentService].
func (s *documentService) HasPermission(ctx context.Context, id string, participantID string, perm models.Permission) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return false, ErrDocumentNotFound
	}
	return hasPermission(doc.Metadata, participantID, perm, s.now()), nil
}

// GrantAccess implements [DocumentService].
func (s *documentService) GrantAccess(ctx context.Context, id string, callerID string, entry models.AccessEntry) error {
	if entry.ParticipantID == "" {
		return fmt.Errorf("%w: participant is required", models.ErrValidation)
	}

	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		return ErrDocumentNotFound
	}
	if !doc.Metadata.SecurityLevel.Encrypted() {
		s.mu.Unlock()
		return fmt.Errorf("%w: open documents carry no access list", models.ErrValidation)
	}
	now := s.now()
	if !hasPermission(doc.Metadata, callerID, models.PermissionAdmin, now) {
		s.mu.Unlock()
		return ErrAccessDenied
	}

	if len(entry.Permissions) == 0 {
		entry.Permissions = models.DefaultPermissions(doc.Metadata.SecurityLevel)
	}
	entry.GrantedBy = callerID
	entry.GrantedAt = now

	updated := doc.Metadata.Clone()
	replaced := false
	for i := range updated.AccessList {
		if updated.AccessList[i].ParticipantID == entry.ParticipantID {
			// Downgrading the last admin through a re-grant is refused
			// the same way a revoke would be.
			if isLastAdmin(updated.AccessList, i, now) && !entry.Has(models.PermissionAdmin) {
				s.mu.Unlock()
				return ErrLastAdmin
			}
			updated.AccessList[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		updated.AccessList = append(updated.AccessList, entry)
	}

	candidate := *doc
	candidate.Metadata = updated
	if err := s.persistLocked(ctx, candidate); err != nil {
		s.mu.Unlock()
		return err
	}
	doc.Metadata = updated
	s.mu.Unlock()

	s.log.Info().
		Str("documentId", id).
		Str("participantId", entry.ParticipantID).
		Str("grantedBy", callerID).
		Msg("access granted")
	s.publish(events.AccessChanged{DocumentID: id, ParticipantID: entry.ParticipantID})

	return nil
}

// RevokeAccess implements [DocumentService]. Revoking an absent entry is a
// no-op; revoking the last admin fails with the list unchanged.
func (s *documentService) RevokeAccess(ctx context.Context, id string, callerID string, participantID string) error {
	if participantID == "" {
		return fmt.Errorf("%w: participant is required", models.ErrValidation)
	}

	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		return ErrDocumentNotFound
	}
	if !doc.Metadata.SecurityLevel.Encrypted() {
		s.mu.Unlock()
		return fmt.Errorf("%w: open documents carry no access list", models.ErrValidation)
	}
	now := s.now()
	if !hasPermission(doc.Metadata, callerID, models.PermissionAdmin, now) {
		s.mu.Unlock()
		return ErrAccessDenied
	}

	idx := -1
	for i := range doc.Metadata.AccessList {
		if doc.Metadata.AccessList[i].ParticipantID == participantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	if isLastAdmin(doc.Metadata.AccessList, idx, now) {
		s.mu.Unlock()
		return ErrLastAdmin
	}

	updated := doc.Metadata.Clone()
	updated.AccessList = append(updated.AccessList[:idx], updated.AccessList[idx+1:]...)

	candidate := *doc
	candidate.Metadata = updated
	if err := s.persistLocked(ctx, candidate); err != nil {
		s.mu.Unlock()
		return err
	}
	doc.Metadata = updated
	s.mu.Unlock()

	s.log.Info().
		Str("documentId", id).
		Str("participantId", participantID).
		Msg("access revoked")
	s.publish(events.AccessChanged{DocumentID: id, ParticipantID: participantID})

	return nil
}

// ExportDocument implements [DocumentService]. The ciphertext leaves exactly
// as stored; an unlocked document still exports encrypted.
func (s *documentService) ExportDocument(ctx context.Context, id string) (models.SecureDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return models.SecureDocument{}, ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

// ImportDocument implements [DocumentService]. The content is stored as
// given; nothing is decrypted or verified until the first unlock.
func (s *documentService) ImportDocument(ctx context.Context, doc models.SecureDocument) (models.DocumentMetadata, error) {
	if !doc.Metadata.SecurityLevel.Valid() {
		return models.DocumentMetadata{}, fmt.Errorf("%w: unknown security level %q", models.ErrValidation, doc.Metadata.SecurityLevel)
	}
	if doc.Metadata.Name == "" {
		return models.DocumentMetadata{}, fmt.Errorf("%w: name is required", models.ErrValidation)
	}

	imported := doc.Clone()
	imported.Metadata.ID = s.ids.Generate()

	s.mu.Lock()
	if err := s.persistLocked(ctx, imported); err != nil {
		s.mu.Unlock()
		return models.DocumentMetadata{}, err
	}
	stored := imported
	s.docs[stored.Metadata.ID] = &stored
	s.order = append(s.order, stored.Metadata.ID)
	meta := stored.Metadata.Clone()
	s.mu.Unlock()

	s.log.Info().Str("documentId", meta.ID).Msg("document imported")
	s.publish(events.DocumentCreated{DocumentID: meta.ID})

	return meta, nil
}

// ListDocuments implements [DocumentService]. Documents come back in
// creation order.
func (s *documentService) ListDocuments(ctx context.Context) ([]models.DocumentMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DocumentMetadata, 0, len(s.order))
	for _, id := range s.order {
		if doc, ok := s.docs[id]; ok {
			out = append(out, doc.Metadata.Clone())
		}
	}
	return out, nil
}

// applyUpdate is the shared mutation path: permission check before the
// transform runs, then synchronous re-encode, re-hash, re-encrypt and
// persist. The cache only observes states that were committed.
func (s *documentService) applyUpdate(ctx context.Context, id string, participantID string, required models.Permission, transform func(*models.CanvasState) error) (models.DocumentMetadata, error) {
	if transform == nil {
		return models.DocumentMetadata{}, fmt.Errorf("%w: transform is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return models.DocumentMetadata{}, ErrDocumentNotFound
	}

	encrypted := doc.Metadata.SecurityLevel.Encrypted()
	var cached *cachedDocument
	if encrypted {
		if !hasPermission(doc.Metadata, participantID, required, s.now()) {
			return models.DocumentMetadata{}, ErrAccessDenied
		}
		cached = s.cache.get(id)
		if cached == nil {
			return models.DocumentMetadata{}, ErrDocumentLocked
		}
	}

	var state models.CanvasState
	if encrypted {
		state = cached.state.Clone()
	} else {
		decoded, err := s.decodePlain(doc.Content.PlainState)
		if err != nil {
			return models.DocumentMetadata{}, err
		}
		state = decoded
	}

	if err := transform(&state); err != nil {
		return models.DocumentMetadata{}, err
	}

	encoded, err := s.codec.Encode(state)
	if err != nil {
		return models.DocumentMetadata{}, fmt.Errorf("encode state: %w", err)
	}

	candidate := *doc
	candidate.Content = doc.Content.Clone()
	candidate.Metadata = doc.Metadata.Clone()
	candidate.Content.ContentHash = s.crypto.Hash(encoded)
	candidate.Content.NodeCount = len(state.Nodes)
	candidate.Content.EdgeCount = len(state.Edges)
	candidate.Metadata.WidgetCount = len(state.Nodes)
	accessed := s.now()
	candidate.Metadata.LastAccessedAt = &accessed

	if encrypted {
		blob, err := s.crypto.Encrypt(encoded, cached.key)
		if err != nil {
			return models.DocumentMetadata{}, fmt.Errorf("encrypt state: %w", err)
		}
		candidate.Content.EncryptedState = blob
	} else {
		candidate.Content.PlainState = encoded
	}

	if err := s.persistLocked(ctx, candidate); err != nil {
		return models.DocumentMetadata{}, err
	}

	*doc = candidate
	if encrypted {
		s.cache.setState(id, state)
	}
	return candidate.Metadata.Clone(), nil
}

// resolveDocumentKey turns the supplied credentials into a 32-byte document
// key: a raw key is used as-is, otherwise the key is derived from the
// password and the document's stored salt.
func (s *documentService) resolveDocumentKey(ctx context.Context, password string, key []byte, saltB64 string) ([]byte, error) {
	if len(key) > 0 {
		if len(key) != crypto.KeyLength {
			return nil, fmt.Errorf("%w: key must be %d bytes", models.ErrValidation, crypto.KeyLength)
		}
		owned := make([]byte, len(key))
		copy(owned, key)
		return owned, nil
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password or key is required", models.ErrValidation)
	}
	if saltB64 == "" {
		return nil, fmt.Errorf("%w: document has no key derivation salt", models.ErrValidation)
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key derivation salt", models.ErrValidation)
	}
	docKey, err := s.crypto.DeriveKey(ctx, password, salt)
	if err != nil {
		return nil, fmt.Errorf("derive document key: %w", err)
	}
	return docKey, nil
}

// decodePlain decodes the stored plaintext of an open document. An empty
// body decodes to an empty canvas.
func (s *documentService) decodePlain(data []byte) (models.CanvasState, error) {
	if len(data) == 0 {
		return models.CanvasState{}, nil
	}
	state, err := s.codec.Decode(data)
	if err != nil {
		return models.CanvasState{}, fmt.Errorf("decode document state: %w", err)
	}
	return state, nil
}

// persistLocked saves to the repository while holding the mutex; memory is
// only committed by the caller after the save succeeds.
func (s *documentService) persistLocked(ctx context.Context, doc models.SecureDocument) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *documentService) publish(evts ...events.Event) {
	if s.bus == nil {
		return
	}
	for _, e := range evts {
		s.bus.Publish(e)
	}
}

// hasPermission applies the access rules to a document's metadata: open
// documents allow everything, an absent or expired entry denies, and admin
// implies every permission.
func hasPermission(meta models.DocumentMetadata, participantID string, perm models.Permission, now time.Time) bool {
	if !meta.SecurityLevel.Encrypted() {
		return true
	}
	if participantID == "" {
		return false
	}
	for _, entry := range meta.AccessList {
		if entry.ParticipantID != participantID {
			continue
		}
		if entry.Expired(now) {
			return false
		}
		return entry.Has(perm)
	}
	return false
}

// isLastAdmin reports whether the entry at idx is the only live admin grant.
func isLastAdmin(list []models.AccessEntry, idx int, now time.Time) bool {
	target := list[idx]
	if target.Expired(now) || !target.Has(models.PermissionAdmin) {
		return false
	}
	for i, entry := range list {
		if i == idx {
			continue
		}
		if !entry.Expired(now) && entry.Has(models.PermissionAdmin) {
			return false
		}
	}
	return true
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
