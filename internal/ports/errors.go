package ports

import (
	"errors"
	"fmt"
	"time"
)

// Common infrastructure errors that can occur during collaborator
// interactions.
var (
	// ErrRateLimited indicates that a collaborator rate limited the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that an external collaborator is
	// unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates that a collaborator call timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidResponse indicates that a collaborator returned a response
	// the engine could not interpret.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// CollectError represents a failure while gathering votes for a session.
type CollectError struct {
	// SessionID identifies the session whose votes could not be collected.
	SessionID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for CollectError.
func (e *CollectError) Error() string {
	return fmt.Sprintf("vote collection error: session=%s, err=%v", e.SessionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *CollectError) Unwrap() error { return e.Err }

// NewCollectError creates a new CollectError with the given details.
func NewCollectError(sessionID string, err error) *CollectError {
	return &CollectError{SessionID: sessionID, Err: err}
}

// NotifyError represents a failure delivering an outcome to the
// applicant. The decision remains authoritative; the caller decides
// whether to re-deliver.
type NotifyError struct {
	// ApplicationID identifies the applicant who was not reached.
	ApplicationID string

	// Err is the underlying error.
	Err error

	// RetryAfter indicates how long to wait before redelivery, when the
	// channel provided one.
	RetryAfter *time.Duration
}

// Error implements the error interface for NotifyError.
func (e *NotifyError) Error() string {
	msg := fmt.Sprintf("notify error: application=%s, err=%v", e.ApplicationID, e.Err)
	if e.RetryAfter != nil {
		msg += fmt.Sprintf(", retry_after=%v", *e.RetryAfter)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *NotifyError) Unwrap() error { return e.Err }

// IsRetryable returns true if the delivery can be retried by the caller.
// Only transport-level failures are retryable; logic errors are not.
func (e *NotifyError) IsRetryable() bool {
	return errors.Is(e.Err, ErrRateLimited) ||
		errors.Is(e.Err, ErrServiceUnavailable) ||
		errors.Is(e.Err, ErrTimeout)
}

// NewNotifyError creates a new NotifyError with the given details.
func NewNotifyError(applicationID string, err error) *NotifyError {
	return &NotifyError{ApplicationID: applicationID, Err: err}
}

// StoreError represents a failure persisting an outcome for audit.
type StoreError struct {
	// ApplicationID identifies the outcome that was not persisted.
	ApplicationID string

	// Operation is the name of the store operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: operation=%s, application=%s, err=%v",
		e.Operation, e.ApplicationID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a new StoreError with the given details.
func NewStoreError(applicationID, operation string, err error) *StoreError {
	return &StoreError{ApplicationID: applicationID, Operation: operation, Err: err}
}

// ClassifierError represents a failure from an alignment classifier
// implementation, such as an unreachable model endpoint.
type ClassifierError struct {
	// Classifier names the implementation that failed.
	Classifier string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ClassifierError.
func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier error: classifier=%s, err=%v", e.Classifier, e.Err)
}

// Unwrap returns the underlying error.
func (e *ClassifierError) Unwrap() error { return e.Err }

// NewClassifierError creates a new ClassifierError with the given details.
func NewClassifierError(classifier string, err error) *ClassifierError {
	return &ClassifierError{Classifier: classifier, Err: err}
}
