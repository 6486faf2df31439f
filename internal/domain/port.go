package domain

import "context"

// CredentialStore holds the bearer credential for the active session.
// Implementations persist it durably so a restart does not force a re-login.
// All three operations are total; Get reports absence with false.
type CredentialStore interface {
	Get() (string, bool)
	Set(credential string) error
	Clear() error
}

// IdentityFetcher retrieves the identity record bound to the current
// credential.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context) (*Identity, error)
}

// IdentityCache is the single-slot reactive cache over IdentityFetcher.
type IdentityCache interface {
	// Read returns the cached identity, fetching iff the slot is absent or
	// stale. Concurrent reads share one in-flight fetch.
	Read(ctx context.Context) (*Identity, error)
	// Peek returns the cached value, fresh or stale, without fetching.
	Peek() (*Identity, bool)
	// Invalidate marks the slot for refetch on the next Read.
	Invalidate()
	// ForceReplace writes a known-fresh value without a network round trip.
	ForceReplace(identity *Identity)
	// ForceRefresh evicts the slot and awaits a fresh fetch.
	ForceRefresh(ctx context.Context) (*Identity, error)
	// Clear evicts the slot entirely.
	Clear()
}

// CredentialRefresher exchanges the current credential for a new one.
type CredentialRefresher interface {
	RefreshCredential(ctx context.Context) (string, error)
}

// Authenticator performs the password login exchange.
type Authenticator interface {
	Login(ctx context.Context, email, password string, rememberMe bool) (string, error)
}

// TenantSwitcher exchanges the credential for one scoped to another tenant.
type TenantSwitcher interface {
	ListTenants(ctx context.Context) ([]TenantRef, error)
	SwitchTenant(ctx context.Context, tenantID string) (string, error)
}

// NotificationCategory buckets user-visible notifications by failure class.
type NotificationCategory string

const (
	NotifySessionExpired NotificationCategory = "session-expired"
	NotifyForbidden      NotificationCategory = "forbidden"
	NotifyNotFound       NotificationCategory = "not-found"
	NotifyServerError    NotificationCategory = "server-error"
	NotifyNetwork        NotificationCategory = "network"
	NotifyTenantSwitch   NotificationCategory = "tenant-switch"
)

// Notification is a user-visible message surfaced outside the normal
// request/response path.
type Notification struct {
	Category NotificationCategory
	Message  string
}

// Notifier surfaces notifications to the user. Implementations must not
// block the caller; transport classification runs on request goroutines.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
