package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/events"
	"authgate/internal/navigation"
)

const msgSwitchFailed = "Failed to switch organization"

// SwitchTenant re-scopes the session to another tenant. The backend issues a
// new credential carrying the target tenant's roles; the identity cache is
// force-refreshed so callers never observe old-tenant roles alongside the new
// credential.
type SwitchTenant struct {
	tenants  domain.TenantSwitcher
	store    domain.CredentialStore
	cache    domain.IdentityCache
	notifier domain.Notifier
	bus      *events.Bus
	logger   *slog.Logger
}

// NewSwitchTenant creates the tenant-switch flow. bus may be nil; when set,
// a successful switch announces the rotation on it.
func NewSwitchTenant(tenants domain.TenantSwitcher, store domain.CredentialStore, cache domain.IdentityCache, notifier domain.Notifier, bus *events.Bus, logger *slog.Logger) *SwitchTenant {
	if logger == nil {
		logger = slog.Default()
	}
	return &SwitchTenant{tenants: tenants, store: store, cache: cache, notifier: notifier, bus: bus, logger: logger}
}

// SwitchResult carries the identity scoped to the new tenant and the default
// route for its role set.
type SwitchResult struct {
	Identity *domain.Identity
	Route    string
}

// Tenants lists the tenants the current user may switch to.
func (uc *SwitchTenant) Tenants(ctx context.Context) ([]domain.TenantRef, error) {
	return uc.tenants.ListTenants(ctx)
}

// Execute switches the session to tenantID. On failure the current session is
// left untouched and the user is told the switch did not happen.
func (uc *SwitchTenant) Execute(ctx context.Context, tenantID string) (*SwitchResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrValidation)
	}

	tenants, err := uc.tenants.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	if len(tenants) < 2 {
		return nil, domain.ErrSingleTenant
	}

	cred, err := uc.tenants.SwitchTenant(ctx, tenantID)
	if err != nil {
		uc.notifier.Notify(ctx, domain.Notification{
			Category: domain.NotifyTenantSwitch,
			Message:  msgSwitchFailed,
		})
		uc.logger.WarnContext(ctx, "tenant switch failed", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	if err := uc.store.Set(cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	identity, err := uc.cache.ForceRefresh(ctx)
	if err != nil {
		return nil, err
	}

	if uc.bus != nil {
		uc.bus.Publish(events.Event{Type: events.CredentialRotated, At: time.Now()})
	}

	uc.logger.InfoContext(ctx, "switched tenant",
		"tenant_id", identity.TenantID,
		"tenant_name", identity.TenantName)

	return &SwitchResult{
		Identity: identity,
		Route:    navigation.DefaultRouteFor(identity.Roles),
	}, nil
}
