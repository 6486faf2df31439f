package usecase

import (
	"context"
	"log/slog"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/events"
)

// BindSessionInvalidation subscribes to the event bus and converges local
// session state whenever the transport layer reports the credential dead:
// the cached identity is dropped and the refresh loop stopped. The returned
// func cancels the subscription.
func BindSessionInvalidation(bus *events.Bus, cache domain.IdentityCache, scheduler *RefreshScheduler, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	ch, cancel := bus.Subscribe()
	go func() {
		for ev := range ch {
			switch ev.Type {
			case events.SessionInvalidated:
				cache.Clear()
				if scheduler != nil {
					scheduler.Disarm()
				}
				logger.InfoContext(context.Background(), "session invalidated", "path", ev.Path)
			case events.CredentialRotated:
				// The rotator already installed the new credential and
				// invalidated the cache; nothing to do here.
			}
		}
	}()
	return cancel
}
