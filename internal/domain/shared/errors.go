// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// ErrNotFound indicates an unknown person or entity.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidArgument indicates a malformed request parameter
	// (non-positive limit, non-positive months, unknown metric, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRange indicates a date window where from is after to.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrConflict indicates a write rejected by a uniqueness check
	// (duplicate criteria scope at create time).
	ErrConflict = errors.New("conflict")

	// ErrConflictingCriteria indicates a data integrity anomaly detected at
	// read time: two criteria records share the same exact scope. It is
	// surfaced, never auto-repaired.
	ErrConflictingCriteria = errors.New("conflicting criteria")
)

// ReasonCode is the stable, transport-safe identifier of an error class.
// Codes never expose storage details.
type ReasonCode string

const (
	ReasonNotFound            ReasonCode = "NOT_FOUND"
	ReasonInvalidArgument     ReasonCode = "INVALID_ARGUMENT"
	ReasonInvalidRange        ReasonCode = "INVALID_RANGE"
	ReasonConflict            ReasonCode = "CONFLICT"
	ReasonConflictingCriteria ReasonCode = "CONFLICTING_CRITERIA"
	ReasonInternal            ReasonCode = "INTERNAL"
)

// Reason maps an error to its reason code. Unknown errors map to internal.
func Reason(err error) ReasonCode {
	switch {
	case errors.Is(err, ErrConflictingCriteria):
		return ReasonConflictingCriteria
	case errors.Is(err, ErrConflict):
		return ReasonConflict
	case errors.Is(err, ErrInvalidRange):
		return ReasonInvalidRange
	case errors.Is(err, ErrInvalidArgument):
		return ReasonInvalidArgument
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	default:
		return ReasonInternal
	}
}

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "stats", "leaderboard", "criteria"
	Op      string // Operation that failed, e.g., "ComputeStats"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalid checks if the error is any kind of invalid-input error.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrInvalidRange)
}
