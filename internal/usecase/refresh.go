package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/events"
)

// Refresh scheduling defaults: the credential is proactively renewed every
// interval while present, with two extra attempts per tick before the
// failure is final for that credential.
const (
	DefaultRefreshInterval = 5 * time.Minute
	refreshMaxTries        = 3
	refreshRetryDelay      = time.Second
)

// RefreshScheduler proactively exchanges the credential before expiry. Two
// states: idle (no credential, no timer) and armed (timer running). A failed
// tick clears the session state and returns the scheduler to idle, which
// deterministically drives the guard to the login view on the next
// evaluation.
type RefreshScheduler struct {
	refresher domain.CredentialRefresher
	store     domain.CredentialStore
	cache     domain.IdentityCache
	bus       *events.Bus
	logger    *slog.Logger
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// SchedulerOption tweaks scheduler construction.
type SchedulerOption func(*RefreshScheduler)

// WithRefreshInterval overrides the tick interval.
func WithRefreshInterval(d time.Duration) SchedulerOption {
	return func(s *RefreshScheduler) { s.interval = d }
}

// WithEventBus announces successful rotations on bus.
func WithEventBus(bus *events.Bus) SchedulerOption {
	return func(s *RefreshScheduler) { s.bus = bus }
}

// NewRefreshScheduler creates an idle scheduler.
func NewRefreshScheduler(refresher domain.CredentialRefresher, store domain.CredentialStore, cache domain.IdentityCache, logger *slog.Logger, opts ...SchedulerOption) *RefreshScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RefreshScheduler{
		refresher: refresher,
		store:     store,
		cache:     cache,
		logger:    logger,
		interval:  DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arm starts the periodic timer. A no-op when already armed or when no
// credential is present.
func (s *RefreshScheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	if _, ok := s.store.Get(); !ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
	s.logger.Debug("refresh scheduler armed", "interval", s.interval)
}

// Disarm tears the timer down; no further ticks are scheduled. In-flight
// refresh calls are not cancelled, but their results are discarded by the
// stale-credential guard in Tick.
func (s *RefreshScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.logger.Debug("refresh scheduler disarmed")
	}
}

// Armed reports whether the timer is running.
func (s *RefreshScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *RefreshScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				return
			}
		}
	}
}

// Tick performs one refresh cycle. On success the new credential replaces
// the old and the identity cache is invalidated, since the role and
// permission sets may have changed server-side. On failure after the
// allotted retries, the credential and cache are cleared and the scheduler
// disarms, silently: the failure routes the user to login, which is its
// own explanation.
func (s *RefreshScheduler) Tick(ctx context.Context) error {
	startCred, ok := s.store.Get()
	if !ok {
		s.Disarm()
		return nil
	}

	operation := func() (string, error) {
		cred, err := s.refresher.RefreshCredential(ctx)
		if err != nil {
			// A rejected credential will not become acceptable by retrying.
			if errors.Is(err, domain.ErrUnauthorized) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return cred, nil
	}

	cred, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(refreshRetryDelay)),
		backoff.WithMaxTries(refreshMaxTries))
	if err != nil {
		s.logger.Warn("credential refresh failed, clearing session", "error", err)
		s.cache.Clear()
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Error("failed to clear credential", "error", clearErr)
		}
		s.Disarm()
		return fmt.Errorf("refresh failed: %w", err)
	}

	// The credential may have been replaced (tenant switch) or destroyed
	// (401 elsewhere) while this tick was in flight; last writer wins, and a
	// stale result is simply discarded.
	current, ok := s.store.Get()
	if !ok || current != startCred {
		s.logger.Debug("discarding refresh result, credential changed mid-tick")
		return nil
	}

	if err := s.store.Set(cred); err != nil {
		return fmt.Errorf("failed to store refreshed credential: %w", err)
	}
	s.cache.Invalidate()
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.CredentialRotated, At: time.Now()})
	}
	return nil
}
