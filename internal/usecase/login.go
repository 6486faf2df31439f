package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"authgate/internal/domain"
	"authgate/internal/navigation"
)

// Login runs the password login flow: exchange credentials, install the
// returned credential, prime the identity cache, and pick the landing
// destination.
type Login struct {
	auth      domain.Authenticator
	store     domain.CredentialStore
	cache     domain.IdentityCache
	scheduler *RefreshScheduler
	logger    *slog.Logger
}

// NewLogin creates the login flow. scheduler may be nil for hosts that run
// their own refresh loop.
func NewLogin(auth domain.Authenticator, store domain.CredentialStore, cache domain.IdentityCache, scheduler *RefreshScheduler, logger *slog.Logger) *Login {
	if logger == nil {
		logger = slog.Default()
	}
	return &Login{auth: auth, store: store, cache: cache, scheduler: scheduler, logger: logger}
}

// LoginResult carries the freshly resolved identity and where to land:
// the attempted path preserved by the guard when there is one, otherwise
// the role-based default route.
type LoginResult struct {
	Identity    *domain.Identity
	Destination string
}

// Execute performs the login flow. On any failure the session state is left
// logged-out; the classified error is returned for inline form handling.
func (uc *Login) Execute(ctx context.Context, email, password string, rememberMe bool, attemptedPath string) (*LoginResult, error) {
	cred, err := uc.auth.Login(ctx, email, password, rememberMe)
	if err != nil {
		// A 401 already cleared the store; make the outcome uniform for
		// every failure class.
		_ = uc.store.Clear()
		uc.cache.Clear()
		return nil, err
	}

	if err := uc.store.Set(cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	identity, err := uc.cache.ForceRefresh(ctx)
	if err != nil {
		_ = uc.store.Clear()
		uc.cache.Clear()
		return nil, err
	}

	if uc.scheduler != nil {
		uc.scheduler.Arm()
	}

	destination := attemptedPath
	if destination == "" {
		destination = navigation.DefaultRouteFor(identity.Roles)
	}

	uc.logger.InfoContext(ctx, "login succeeded",
		"user_id", identity.UserID,
		"tenant_id", identity.TenantID,
		"destination", destination)

	return &LoginResult{Identity: identity, Destination: destination}, nil
}
