package usecase

import (
	"context"
	"sync"

	"authgate/internal/domain"
)

type fetcherFunc func(ctx context.Context) (*domain.Identity, error)

func (f fetcherFunc) FetchIdentity(ctx context.Context) (*domain.Identity, error) { return f(ctx) }

type refresherFunc func(ctx context.Context) (string, error)

func (f refresherFunc) RefreshCredential(ctx context.Context) (string, error) { return f(ctx) }

type authenticatorFunc func(ctx context.Context, email, password string, rememberMe bool) (string, error)

func (f authenticatorFunc) Login(ctx context.Context, email, password string, rememberMe bool) (string, error) {
	return f(ctx, email, password, rememberMe)
}

type stubSwitcher struct {
	tenants  []domain.TenantRef
	switchFn func(ctx context.Context, tenantID string) (string, error)
}

func (s *stubSwitcher) ListTenants(ctx context.Context) ([]domain.TenantRef, error) {
	return s.tenants, nil
}

func (s *stubSwitcher) SwitchTenant(ctx context.Context, tenantID string) (string, error) {
	return s.switchFn(ctx, tenantID)
}

type captureNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *captureNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *captureNotifier) all() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.notes...)
}

// spyCache is a hand-rolled IdentityCache that records calls. Tests that
// exercise real caching semantics use cache.IdentityCache instead.
type spyCache struct {
	mu             sync.Mutex
	identity       *domain.Identity
	readErr        error
	refreshErr     error
	invalidated    int
	cleared        int
	forceRefreshed int
}

func (c *spyCache) Read(context.Context) (*domain.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.identity, nil
}

func (c *spyCache) Peek() (*domain.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.identity != nil
}

func (c *spyCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
}

func (c *spyCache) ForceReplace(identity *domain.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

func (c *spyCache) ForceRefresh(context.Context) (*domain.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forceRefreshed++
	if c.refreshErr != nil {
		return nil, c.refreshErr
	}
	return c.identity, nil
}

func (c *spyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared++
	c.identity = nil
}

func (c *spyCache) clearCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleared
}

func (c *spyCache) invalidateCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}
