// Package notify surfaces transport failures to the user. The core emits
// category-tagged notifications; hosts decide how to render them (the CLI
// prints them, an embedding UI would toast them).
package notify

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"authgate/internal/domain"
)

// Func adapts a plain function to domain.Notifier.
type Func func(ctx context.Context, n domain.Notification)

// Notify implements domain.Notifier.
func (f Func) Notify(ctx context.Context, n domain.Notification) {
	f(ctx, n)
}

// SlogNotifier writes notifications to the structured log. Used as the
// default sink and behind host-provided renderers.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier backed by logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

// Notify implements domain.Notifier.
func (n *SlogNotifier) Notify(ctx context.Context, notification domain.Notification) {
	n.logger.WarnContext(ctx, "notification",
		"category", string(notification.Category),
		"message", notification.Message)
}

// RateLimited wraps a notifier with a per-category limiter so a burst of
// identical failures (every in-flight request hitting the same dead server)
// produces one visible notification, not dozens.
type RateLimited struct {
	inner domain.Notifier
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[domain.NotificationCategory]*rate.Limiter
}

// NewRateLimited wraps inner, allowing limit notifications per second with
// the given burst, independently per category.
func NewRateLimited(inner domain.Notifier, limit rate.Limit, burst int) *RateLimited {
	return &RateLimited{
		inner:    inner,
		limit:    limit,
		burst:    burst,
		limiters: make(map[domain.NotificationCategory]*rate.Limiter),
	}
}

// Notify forwards the notification unless its category is over budget.
func (r *RateLimited) Notify(ctx context.Context, n domain.Notification) {
	if !r.limiter(n.Category).Allow() {
		return
	}
	r.inner.Notify(ctx, n)
}

func (r *RateLimited) limiter(category domain.NotificationCategory) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[category]; ok {
		return l
	}
	l := rate.NewLimiter(r.limit, r.burst)
	r.limiters[category] = l
	return l
}
