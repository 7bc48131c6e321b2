// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"sync"
	"time"
)

// defaultKeyTTL is how long a decrypted secret stays in the cache after its
// last write.
const defaultKeyTTL = 5 * time.Minute

type cacheEntry struct {
	secret    []byte
	expiresAt time.Time
}

// keyCache holds decrypted secrets keyed by credential id, each expiring
// ttl after it was cached. Expiry uses time.Time values from the injected
// clock; time.Now carries a monotonic reading, so wall-clock jumps do not
// shorten or extend entry lifetimes. Evicted secrets are zeroed in place.
type keyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newKeyCache(ttl time.Duration, now func() time.Time) *keyCache {
	return &keyCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached secret for id. An entry past its deadline is
// wiped and removed, reporting a miss.
func (c *keyCache) get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		wipe(entry.secret)
		delete(c.entries, id)
		return "", false
	}
	return string(entry.secret), true
}

// put caches secret under id, replacing and wiping any previous value.
func (c *keyCache) put(id, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[id]; ok {
		wipe(old.secret)
	}
	c.entries[id] = cacheEntry{
		secret:    []byte(secret),
		expiresAt: c.now().Add(c.ttl),
	}
}

// invalidate wipes and removes the slot for id, if present.
func (c *keyCache) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[id]; ok {
		wipe(entry.secret)
		delete(c.entries, id)
	}
}

// purgeExpired removes all entries past their deadline and reports how many
// were dropped. Called periodically by the cache janitor worker.
func (c *keyCache) purgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	purged := 0
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			wipe(entry.secret)
			delete(c.entries, id)
			purged++
		}
	}
	return purged
}

// clear wipes and drops every entry. Called on lock.
func (c *keyCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, entry := range c.entries {
		wipe(entry.secret)
		delete(c.entries, id)
	}
}

// len reports the number of live entries, expired ones included.
func (c *keyCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
