// Package cache holds the single identity slot for the active session.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"authgate/internal/domain"
)

// fetchKey addresses the one slot. Only one identity is ever active per
// process, so the cache is not parameterized by user.
const fetchKey = "current-identity"

// DefaultStaleAfter is the staleness horizon after which a Read refetches.
const DefaultStaleAfter = 5 * time.Minute

// IdentityCache is a single-slot cache over the fetched identity record.
// The entry carries {value, fetchedAt}; concurrent Reads during a fetch
// share the one in-flight call. Implements domain.IdentityCache.
//
// Invariant: the slot is populated only while the credential store holds a
// credential. Read refuses to fetch without one, and a fetch whose
// credential disappears mid-flight is discarded.
type IdentityCache struct {
	store      domain.CredentialStore
	fetcher    domain.IdentityFetcher
	staleAfter time.Duration
	now        func() time.Time

	mu        sync.RWMutex
	value     *domain.Identity
	fetchedAt time.Time

	group singleflight.Group
}

// Option tweaks cache construction.
type Option func(*IdentityCache)

// WithStaleAfter overrides the staleness horizon.
func WithStaleAfter(d time.Duration) Option {
	return func(c *IdentityCache) { c.staleAfter = d }
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(c *IdentityCache) { c.now = now }
}

// NewIdentityCache creates an empty cache bound to the credential store and
// the fetcher that resolves the identity behind the current credential.
func NewIdentityCache(store domain.CredentialStore, fetcher domain.IdentityFetcher, opts ...Option) *IdentityCache {
	c := &IdentityCache{
		store:      store,
		fetcher:    fetcher,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the cached identity, fetching only if the slot is absent or
// stale. Without a credential it returns domain.ErrUnauthorized and never
// touches the network.
func (c *IdentityCache) Read(ctx context.Context) (*domain.Identity, error) {
	if v, ok := c.fresh(); ok {
		return v, nil
	}

	if _, ok := c.store.Get(); !ok {
		return nil, fmt.Errorf("%w: no credential for identity fetch", domain.ErrUnauthorized)
	}

	v, err, _ := c.group.Do(fetchKey, func() (any, error) {
		// Re-check under the flight: a concurrent Read may have resolved it.
		if v, ok := c.fresh(); ok {
			return v, nil
		}

		identity, err := c.fetcher.FetchIdentity(ctx)
		if err != nil {
			return nil, err
		}

		// A 401 during the fetch clears the store; a populated slot without
		// a credential would violate the cache invariant, so discard.
		if _, ok := c.store.Get(); !ok {
			return nil, fmt.Errorf("%w: credential revoked during fetch", domain.ErrUnauthorized)
		}

		c.mu.Lock()
		c.value = identity
		c.fetchedAt = c.now()
		c.mu.Unlock()
		return identity.Clone(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Identity), nil
}

// Peek returns whatever the slot holds, fresh or stale, without fetching.
func (c *IdentityCache) Peek() (*domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil {
		return nil, false
	}
	return c.value.Clone(), true
}

// Invalidate marks the slot stale; the next Read refetches.
func (c *IdentityCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

// ForceReplace writes a known-fresh value directly. Ignored when no
// credential is present, preserving the cache invariant.
func (c *IdentityCache) ForceReplace(identity *domain.Identity) {
	if _, ok := c.store.Get(); !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = identity.Clone()
	c.fetchedAt = c.now()
}

// ForceRefresh evicts the slot and awaits a fresh fetch. Used by the
// tenant-switch flow, which must see the new tenant's identity before
// navigating.
func (c *IdentityCache) ForceRefresh(ctx context.Context) (*domain.Identity, error) {
	c.mu.Lock()
	c.value = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
	// A fetch already in flight predates the eviction (e.g. it targets the
	// previous tenant); do not let it satisfy this refresh.
	c.group.Forget(fetchKey)
	return c.Read(ctx)
}

// Clear evicts the slot entirely.
func (c *IdentityCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.fetchedAt = time.Time{}
}

// fresh returns a copy of the slot value when present and within the
// staleness horizon.
func (c *IdentityCache) fresh() (*domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil || c.fetchedAt.IsZero() {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) >= c.staleAfter {
		return nil, false
	}
	return c.value.Clone(), true
}
