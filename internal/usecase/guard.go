package usecase

import (
	"context"
	"log/slog"

	"authgate/internal/domain"
	"authgate/internal/navigation"
)

// LoginRoute is where unauthenticated users are sent.
const LoginRoute = "/login"

// DecisionKind is the outcome of an access-guard evaluation.
type DecisionKind int

const (
	// DecisionAllow renders the protected view.
	DecisionAllow DecisionKind = iota
	// DecisionLogin redirects to the login view, preserving the attempted
	// path for post-login restoration.
	DecisionLogin
	// DecisionRedirect sends an authenticated but under-privileged user to
	// their own default route, never to login.
	DecisionRedirect
)

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Kind         DecisionKind
	RedirectPath string
	// From is the attempted path, set on DecisionLogin so the host can
	// restore it after a successful login.
	From string
	// Identity is the resolved record, set on DecisionAllow for view logic
	// that needs it.
	Identity *domain.Identity
}

// Guard gates navigation to protected views. Evaluate is a pure function of
// {credential presence, cache state, required roles}; hosts re-evaluate it
// whenever any of the three changes.
type Guard struct {
	store  domain.CredentialStore
	cache  domain.IdentityCache
	logger *slog.Logger
}

// NewGuard creates a guard over the session's credential store and identity
// cache.
func NewGuard(store domain.CredentialStore, cache domain.IdentityCache, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{store: store, cache: cache, logger: logger}
}

// Evaluate decides whether the view at attemptedPath may render for the
// current session. An empty requiredRoles set only requires authentication.
// The call suspends on the cache's shared fetch when the identity is not
// yet resolved.
func (g *Guard) Evaluate(ctx context.Context, attemptedPath string, requiredRoles ...string) Decision {
	if _, ok := g.store.Get(); !ok {
		return Decision{Kind: DecisionLogin, RedirectPath: LoginRoute, From: attemptedPath}
	}

	identity, err := g.cache.Read(ctx)
	if err != nil || identity == nil {
		// The credential could not be resolved to an identity; the 401 side
		// effects (if any) have already run. Converge to login.
		g.logger.DebugContext(ctx, "identity unresolved, redirecting to login",
			"path", attemptedPath, "error", err)
		return Decision{Kind: DecisionLogin, RedirectPath: LoginRoute, From: attemptedPath}
	}

	if len(requiredRoles) > 0 && !identity.HasAnyRole(requiredRoles...) {
		return Decision{
			Kind:         DecisionRedirect,
			RedirectPath: navigation.DefaultRouteFor(identity.Roles),
		}
	}

	return Decision{Kind: DecisionAllow, Identity: identity}
}
