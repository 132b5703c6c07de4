// Package cache provides the transient store used to avoid reassembling
// schema output on every request.
//
// Writes are last-writer-wins: regeneration is idempotent and cheap, so no
// read-modify-write discipline is needed.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Transient is an in-memory key/value store with per-entry expiration.
type Transient struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty transient store.
func New() *Transient {
	return &Transient{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false when absent or
// expired. Expired entries are dropped lazily.
func (t *Transient) Get(key string) (string, bool) {
	t.mu.RLock()
	e, ok := t.entries[key]
	t.mu.RUnlock()
	if !ok {
		return "", false
	}
	if t.now().After(e.expiresAt) {
		t.mu.Lock()
		// Recheck under the write lock; a newer value may have landed.
		if cur, ok := t.entries[key]; ok && t.now().After(cur.expiresAt) {
			delete(t.entries, key)
		}
		t.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores a value with the given lifetime, replacing any existing entry.
func (t *Transient) Set(key, value string, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = entry{
		value:     value,
		expiresAt: t.now().Add(ttl),
	}
}

// Invalidate removes a key. Invalidating an absent key is a no-op.
func (t *Transient) Invalidate(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Len returns the number of stored entries, expired or not.
func (t *Transient) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
