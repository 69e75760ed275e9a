/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package cache

import (
	"sync"
	"time"

	"ocr-platform/src/internal/model"
)

type entry struct {
	verdict   *model.KeyVerdict
	expiresAt time.Time
}

// VerdictCache is a capacity-bounded TTL cache for valid key verdicts.
// Invalid verdicts are never stored, so a revoked or expired key is
// re-checked against the authority on every request. Staleness of a
// positive verdict is bounded by the TTL.
type VerdictCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	capacity int
	ttl      time.Duration
	clock    Clock
}

// NewVerdictCache creates a cache holding at most capacity entries, each
// valid for ttl after Store.
func NewVerdictCache(capacity int, ttl time.Duration, clock Clock) *VerdictCache {
	if clock == nil {
		clock = &SystemClock{}
	}
	return &VerdictCache{
		entries:  make(map[string]entry, capacity),
		capacity: capacity,
		ttl:      ttl,
		clock:    clock,
	}
}

// Lookup returns the cached verdict for a secret. Entries past the cache
// TTL are dropped on access, as are entries whose key has itself expired:
// a key's expires_at is a hard cutoff and never rides out the TTL.
func (c *VerdictCache) Lookup(secret string) (*model.KeyVerdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[secret]
	if !ok {
		return nil, false
	}
	now := c.clock.Now()
	if !now.Before(e.expiresAt) {
		delete(c.entries, secret)
		return nil, false
	}
	if e.verdict.ExpiresAt != nil && !e.verdict.ExpiresAt.After(now) {
		delete(c.entries, secret)
		return nil, false
	}
	return e.verdict, true
}

// Store caches a verdict. Invalid verdicts are refused. When the cache is
// full, the entry closest to expiry is evicted first.
func (c *VerdictCache) Store(secret string, verdict *model.KeyVerdict) {
	if verdict == nil || !verdict.Valid {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if _, exists := c.entries[secret]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[secret] = entry{verdict: verdict, expiresAt: now.Add(c.ttl)}
}

// Invalidate drops a single cached secret
func (c *VerdictCache) Invalidate(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, secret)
}

// Len returns the number of cached entries, expired ones included
func (c *VerdictCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked removes the entry with the least remaining TTL. Entries that
// are already expired are the natural minimum and go first.
func (c *VerdictCache) evictLocked() {
	var victim string
	var victimExpiry time.Time
	first := true
	for secret, e := range c.entries {
		if first || e.expiresAt.Before(victimExpiry) {
			victim = secret
			victimExpiry = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.entries, victim)
	}
}
