package domain

import (
	"errors"
	"fmt"
)

// Transport failure classifications. Every backend call resolves to exactly
// one of these (or succeeds); errors.Is against the sentinel identifies the
// category regardless of wrapping.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrServerError        = errors.New("server error")
	ErrNetworkUnreachable = errors.New("network unreachable")
)

// Local errors that never reach transport classification.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNoIdentity   = errors.New("identity not resolved")
	ErrSingleTenant = errors.New("user belongs to a single tenant")
)

// APIError is the structured error body the backend returns on failures.
// CorrelationID is surfaced to users on server errors so support can locate
// the failure server-side.
type APIError struct {
	Status        int    `json:"status"`
	ErrorCode     string `json:"error"`
	Message       string `json:"message"`
	Path          string `json:"path"`
	Timestamp     string `json:"timestamp"`
	CorrelationID string `json:"uuid"`

	category error
}

// NewAPIError binds a decoded backend error body to its classification.
func NewAPIError(category error, body APIError) *APIError {
	e := body
	e.category = category
	return &e
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.category, e.Message)
	}
	return fmt.Sprintf("%v: status %d", e.category, e.Status)
}

// Unwrap exposes the classification sentinel to errors.Is.
func (e *APIError) Unwrap() error {
	return e.category
}
