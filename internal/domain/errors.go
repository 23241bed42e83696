package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors that can occur during a decision run.
var (
	// ErrInvalidWeightConfig indicates the component weight configuration
	// violates an invariant. It is fatal for the whole decision run and is
	// surfaced before any scoring happens.
	ErrInvalidWeightConfig = errors.New("invalid weight configuration")

	// ErrIncompleteAssessment indicates a required component score is
	// missing from the assessment bundle. It is fatal for the single
	// request only.
	ErrIncompleteAssessment = errors.New("incomplete assessment")

	// ErrEmptyVoteSet indicates a tally was requested with no votes.
	ErrEmptyVoteSet = errors.New("empty vote set")

	// ErrNoValidVotes indicates every submitted vote was malformed, so the
	// tally has nothing to score.
	ErrNoValidVotes = errors.New("no valid votes")

	// ErrInvalidTransition indicates a session lifecycle transition that
	// the state machine does not permit.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrInvalidState indicates a State operation received invalid input.
	ErrInvalidState = errors.New("invalid state")

	// ErrKeyNotFound indicates a requested state key does not exist.
	ErrKeyNotFound = errors.New("key not found")
)

// WeightConfigError describes exactly which weight invariant was violated
// so the caller can correct the configuration. It wraps
// ErrInvalidWeightConfig.
type WeightConfigError struct {
	// Sum is the observed weight total across present components.
	Sum float64

	// Missing lists required components absent from the configuration.
	Missing []Component

	// OutOfRange lists components whose weight falls outside [0,1].
	OutOfRange []Component

	// Weights is the configuration that failed validation.
	Weights WeightConfig
}

// Error implements the error interface for WeightConfigError.
func (e *WeightConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing components %v", e.Missing))
	}
	if len(e.OutOfRange) > 0 {
		parts = append(parts, fmt.Sprintf("weights out of [0,1] for %v", e.OutOfRange))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("weights sum to %.9f, want 1.0 within %g", e.Sum, WeightSumTolerance))
	}
	return fmt.Sprintf("%v: %s", ErrInvalidWeightConfig, strings.Join(parts, "; "))
}

// Unwrap returns ErrInvalidWeightConfig, supporting errors.Is matching.
func (e *WeightConfigError) Unwrap() error { return ErrInvalidWeightConfig }

// AssessmentError reports which component scores were missing from an
// assessment bundle so the caller can request the correct re-submission.
// It wraps ErrIncompleteAssessment.
type AssessmentError struct {
	// ApplicationID identifies the affected application.
	ApplicationID string

	// Missing lists the absent required components.
	Missing []Component
}

// Error implements the error interface for AssessmentError.
func (e *AssessmentError) Error() string {
	return fmt.Sprintf("%v: application %s missing components %v",
		ErrIncompleteAssessment, e.ApplicationID, e.Missing)
}

// Unwrap returns ErrIncompleteAssessment, supporting errors.Is matching.
func (e *AssessmentError) Unwrap() error { return ErrIncompleteAssessment }

// TransitionError describes a rejected session lifecycle transition.
// It wraps ErrInvalidTransition.
type TransitionError struct {
	// SessionID identifies the session.
	SessionID string

	// From is the session's current status.
	From SessionStatus

	// To is the requested status.
	To SessionStatus
}

// Error implements the error interface for TransitionError.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: session %s cannot move %s -> %s",
		ErrInvalidTransition, e.SessionID, e.From, e.To)
}

// Unwrap returns ErrInvalidTransition, supporting errors.Is matching.
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// StateError represents an error that occurred during State operations.
// It provides context about which key and operation caused the error.
type StateError struct {
	// Key is the state key involved in the failed operation.
	Key string

	// Operation describes what was being performed when the error occurred.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StateError.
func (e *StateError) Error() string {
	return fmt.Sprintf("state error: operation=%s, key=%s, err=%v", e.Operation, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StateError) Unwrap() error { return e.Err }
