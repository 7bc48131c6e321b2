// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package canvas

import "github.com/MKhiriev/go-canvas-vault/models"

// cachedDocument is the unlocked in-memory form of one document: decrypted
// state plus the key it was sealed under, kept for synchronous re-encryption
// on update.
type cachedDocument struct {
	state models.CanvasState
	key   []byte
}

// documentCache holds unlocked documents. It is not safe for concurrent use;
// the owning service serializes access. Keys are wiped on every eviction.
type documentCache struct {
	entries map[string]*cachedDocument
}

func newDocumentCache() *documentCache {
	return &documentCache{entries: make(map[string]*cachedDocument)}
}

// get returns the cached document, or nil when the id is locked.
func (c *documentCache) get(id string) *cachedDocument {
	return c.entries[id]
}

// put caches the decrypted state and key, replacing and wiping any previous
// entry for the id.
func (c *documentCache) put(id string, state models.CanvasState, key []byte) {
	c.evict(id)
	c.entries[id] = &cachedDocument{state: state, key: key}
}

// setState replaces the cached state, keeping the key. No-op when locked.
func (c *documentCache) setState(id string, state models.CanvasState) {
	if entry, ok := c.entries[id]; ok {
		entry.state = state
	}
}

// evict drops the entry and wipes its key. Returns true when an entry
// actually existed.
func (c *documentCache) evict(id string) bool {
	entry, ok := c.entries[id]
	if !ok {
		return false
	}
	wipe(entry.key)
	entry.key = nil
	delete(c.entries, id)
	return true
}

// evictAll locks every document and returns the ids that were unlocked.
func (c *documentCache) evictAll() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	for _, id := range ids {
		c.evict(id)
	}
	return ids
}

func (c *documentCache) len() int {
	return len(c.entries)
}

// wipe zeroes the buffer in place.
func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
