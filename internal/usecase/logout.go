package usecase

import (
	"context"
	"log/slog"

	"authgate/internal/domain"
)

// Logout tears the session down locally: credential gone, identity gone,
// refresh loop stopped. There is no server-side call to make.
type Logout struct {
	store     domain.CredentialStore
	cache     domain.IdentityCache
	scheduler *RefreshScheduler
	logger    *slog.Logger
}

func NewLogout(store domain.CredentialStore, cache domain.IdentityCache, scheduler *RefreshScheduler, logger *slog.Logger) *Logout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logout{store: store, cache: cache, scheduler: scheduler, logger: logger}
}

// Execute is idempotent; logging out twice is not an error.
func (uc *Logout) Execute(ctx context.Context) error {
	if uc.scheduler != nil {
		uc.scheduler.Disarm()
	}
	uc.cache.Clear()
	if err := uc.store.Clear(); err != nil {
		return err
	}
	uc.logger.InfoContext(ctx, "logged out")
	return nil
}
