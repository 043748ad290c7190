package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsafeInput indicates the question was rejected by the safety gate.
	ErrUnsafeInput = errors.New("unsafe input")

	// ErrNoKeywordsExtracted indicates keyword extraction produced nothing usable.
	ErrNoKeywordsExtracted = errors.New("no keywords extracted")

	// ErrNoValidQueryTerms indicates sanitisation removed every query term.
	ErrNoValidQueryTerms = errors.New("no valid query terms")

	// ErrIndexQuery indicates the full-text engine failed to execute a query.
	// The orchestrator recovers from it with the full-document fallback.
	ErrIndexQuery = errors.New("index query failed")

	// ErrService is matched by every *ServiceError via errors.Is.
	ErrService = errors.New("service error")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrModerationUnavailable indicates the moderation service is not configured.
	ErrModerationUnavailable = errors.New("moderation service unavailable")

	// ErrIngestInProgress indicates another ingestion holds the memoir lock
	// and the caller asked not to wait.
	ErrIngestInProgress = errors.New("ingest in progress")
)

// ServiceErrorKind classifies remote dependency failures.
type ServiceErrorKind string

// Service error kinds.
const (
	// ServiceUnavailable covers network errors, timeouts and 5xx responses.
	ServiceUnavailable ServiceErrorKind = "unavailable"

	// ServiceRateLimited is an HTTP 429 response.
	ServiceRateLimited ServiceErrorKind = "rate_limited"

	// ServiceInvalidRequest covers 400/404/422 and malformed responses.
	ServiceInvalidRequest ServiceErrorKind = "invalid_request"

	// ServiceAuth covers 401/403 responses and missing credentials.
	ServiceAuth ServiceErrorKind = "auth"
)

// Transient reports whether a failure of this kind may succeed on retry.
func (k ServiceErrorKind) Transient() bool {
	return k == ServiceUnavailable || k == ServiceRateLimited
}

// ServiceError is a failure reported by a remote dependency
// (text generation or moderation).
type ServiceError struct {
	// Op names the failed operation, e.g. "complete" or "moderate".
	Op string

	// Kind classifies the failure.
	Kind ServiceErrorKind

	// StatusCode is the HTTP status when one was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// NewServiceError creates a ServiceError.
func NewServiceError(op string, kind ServiceErrorKind, err error) *ServiceError {
	return &ServiceError{Op: op, Kind: kind, Err: err}
}

// Error implements error.
func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is makes every ServiceError match ErrService.
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

// Transient reports whether the call may be retried.
func (e *ServiceError) Transient() bool {
	return e.Kind.Transient()
}

// IsTransient reports whether err is a transient ServiceError.
func IsTransient(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Transient()
	}
	return false
}
