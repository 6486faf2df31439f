// Package gateway is the single outbound path to the backend. Every request
// carries the stored credential; every failure is classified into the fixed
// taxonomy in domain, with the session side effects applied here, once,
// before the error is returned to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/events"
)

const tracerName = "authgate/gateway"

// invalidCredentialsBody is the backend's 401 body for a failed login
// attempt, as opposed to an expired session. Matched loosely: the legacy
// backend returns the bare phrase, newer ones a structured error code.
const (
	invalidCredentialsBody = "invalid credentials"
	invalidCredentialsCode = "invalid-credentials"
)

// User-visible messages per failure category.
const (
	msgSessionExpired = "Session expired, please login again"
	msgForbidden      = "You don't have permission to perform this action"
	msgNotFound       = "Resource not found"
	msgServerError    = "An unexpected error occurred. If the problem persists, contact support with this reference: %s"
	msgNetwork        = "Unable to connect to the server. Please check your internet connection."
)

// Client is the authenticated HTTP client for the backend API.
type Client struct {
	baseURL  string
	http     *http.Client
	store    domain.CredentialStore
	bus      *events.Bus
	notifier domain.Notifier
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewClient creates a client with a tuned transport. The store provides the
// bearer credential; the bus receives session-invalidated events; the
// notifier surfaces category notifications.
func NewClient(baseURL string, timeout time.Duration, store domain.CredentialStore, bus *events.Bus, notifier domain.Notifier, logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout, Transport: transport},
		store:    store,
		bus:      bus,
		notifier: notifier,
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
}

// do executes one request against the backend: marshals body (when non-nil),
// attaches the credential and request ID, classifies the response, applies
// side effects, and decodes into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if cred, ok := c.store.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "network unreachable")
		c.notify(ctx, domain.NotifyNetwork, msgNetwork)
		return fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "response read failed")
		c.notify(ctx, domain.NotifyNetwork, msgNetwork)
		return fmt.Errorf("%w: reading response: %v", domain.ErrNetworkUnreachable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	}

	classified := c.classify(ctx, resp.StatusCode, raw, path)
	span.SetStatus(codes.Error, classified.Error())
	return classified
}

// classify maps a non-2xx response onto the error taxonomy and applies the
// taxonomy's side effects. The error is always returned so callers keep
// their local handling.
func (c *Client) classify(ctx context.Context, status int, raw []byte, path string) error {
	var body domain.APIError
	if err := json.Unmarshal(raw, &body); err != nil {
		body = domain.APIError{Status: status, Message: strings.TrimSpace(string(raw)), Path: path}
	}
	if body.Status == 0 {
		body.Status = status
	}

	switch {
	case status == http.StatusUnauthorized:
		return c.invalidateSession(ctx, body, raw)

	case status == http.StatusForbidden:
		c.notify(ctx, domain.NotifyForbidden, msgForbidden)
		return domain.NewAPIError(domain.ErrForbidden, body)

	case status == http.StatusNotFound:
		c.notify(ctx, domain.NotifyNotFound, msgNotFound)
		return domain.NewAPIError(domain.ErrNotFound, body)

	case status >= 500:
		ref := body.CorrelationID
		if ref == "" {
			ref = "unavailable"
		}
		c.notify(ctx, domain.NotifyServerError, fmt.Sprintf(msgServerError, ref))
		return domain.NewAPIError(domain.ErrServerError, body)

	default:
		// 4xx outside the taxonomy (409, 422, ...) is backend-side
		// validation. No notification, no session side effects.
		return domain.NewAPIError(domain.ErrValidation, body)
	}
}

// invalidateSession handles the unauthorized classification: the credential
// is destroyed, the process-wide signal fires, and the user is told their
// session expired, unless the failure was a bad login attempt, which has
// its own inline UI and no session to lose.
func (c *Client) invalidateSession(ctx context.Context, body domain.APIError, raw []byte) error {
	if err := c.store.Clear(); err != nil {
		c.logger.ErrorContext(ctx, "failed to clear credential after 401", "error", err)
	}
	if c.bus != nil {
		c.bus.Publish(events.Event{Type: events.SessionInvalidated, Path: pathFromContext(ctx)})
	}

	if isInvalidCredentials(body, raw) {
		return domain.NewAPIError(domain.ErrInvalidCredentials, body)
	}

	c.notify(ctx, domain.NotifySessionExpired, msgSessionExpired)
	return domain.NewAPIError(domain.ErrUnauthorized, body)
}

func isInvalidCredentials(body domain.APIError, raw []byte) bool {
	if strings.EqualFold(body.ErrorCode, invalidCredentialsCode) {
		return true
	}
	trimmed := strings.ToLower(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	return trimmed == invalidCredentialsBody ||
		strings.EqualFold(strings.TrimSpace(body.Message), invalidCredentialsBody)
}

func (c *Client) notify(ctx context.Context, category domain.NotificationCategory, message string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, domain.Notification{Category: category, Message: message})
}

// attemptedPathKey carries the view path a request was issued for, so a 401
// can preserve it for post-login restoration.
type attemptedPathKey struct{}

// WithAttemptedPath annotates ctx with the view path being served; the
// session-invalidated event will carry it.
func WithAttemptedPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, attemptedPathKey{}, path)
}

func pathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(attemptedPathKey{}).(string); ok {
		return p
	}
	return ""
}

// IsAuthFailure reports whether err is any unauthorized classification.
func IsAuthFailure(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
