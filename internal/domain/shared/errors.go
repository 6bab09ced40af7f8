// Package shared contains common domain types and errors that are used
// across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")

	// Storage errors
	ErrStorageInconsistency   = errors.New("storage inconsistency detected")
	ErrStorageOperationFailed = errors.New("storage operation failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "film", "user", "friendship"
	Op      string // Operation that failed, e.g., "Create", "AddLike"
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

// Film domain errors
var (
	ErrFilmNotFound     = NewDomainError("film", "Find", ErrNotFound, "film not found")
	ErrFilmNameEmpty    = NewDomainError("film", "Validate", ErrEmptyValue, "film name cannot be empty")
	ErrFilmDescTooLong  = NewDomainError("film", "Validate", ErrValueOutOfRange, "description exceeds 200 characters")
	ErrFilmReleaseEarly = NewDomainError("film", "Validate", ErrValueOutOfRange, "release date before 1895-12-28")
	ErrFilmDuration     = NewDomainError("film", "Validate", ErrNegativeValue, "duration must be positive")
)

// User domain errors
var (
	ErrUserNotFound   = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserEmail      = NewDomainError("user", "Validate", ErrInvalidFormat, "email is empty or malformed")
	ErrUserLogin      = NewDomainError("user", "Validate", ErrInvalidFormat, "login is empty or contains spaces")
	ErrUserBirthday   = NewDomainError("user", "Validate", ErrFutureTimestamp, "birthday cannot be in the future")
	ErrFriendNotFound = NewDomainError("friendship", "Find", ErrNotFound, "friend not found")
)

// Lookup entity errors
var (
	ErrGenreNotFound = NewDomainError("genre", "Find", ErrNotFound, "genre not found")
	ErrMPANotFound   = NewDomainError("mpa", "Find", ErrNotFound, "MPA rating not found")
)

// Ranking errors
var (
	// ErrRankedFilmVanished is raised when a film id produced by the
	// popularity ranking no longer resolves to a film record. This is a
	// server-side fault (a race or a bug), distinct from an ordinary
	// client-facing NotFound.
	ErrRankedFilmVanished = NewDomainError("film", "MostPopular", ErrStorageInconsistency, "ranked film id failed to resolve")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrFutureTimestamp) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsStorageFault checks if the error is a server-side storage fault.
func IsStorageFault(err error) bool {
	return errors.Is(err, ErrStorageInconsistency) ||
		errors.Is(err, ErrStorageOperationFailed)
}
