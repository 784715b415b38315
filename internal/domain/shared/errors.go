// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("unauthorized")

	// Infrastructure errors
	ErrInternal = errors.New("internal error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "guide", "course", "progress"
	Op      string // Operation that failed, e.g., "Create", "Publish"
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

// Topic domain errors
var (
	ErrTopicNotFound    = NewDomainError("topic", "Find", ErrNotFound, "topic not found")
	ErrTopicNameTaken   = NewDomainError("topic", "Create", ErrAlreadyExists, "topic name already in use")
	ErrInvalidTopicName = NewDomainError("topic", "Validate", ErrEmptyValue, "topic name cannot be blank")
)

// Guide domain errors
var (
	ErrGuideNotFound          = NewDomainError("guide", "Find", ErrNotFound, "guide not found")
	ErrGuideDeleted           = NewDomainError("guide", "CheckStatus", ErrInvalidState, "guide has been deleted")
	ErrInvalidGuideTitle      = NewDomainError("guide", "Validate", ErrEmptyValue, "guide title cannot be blank")
	ErrGuideTitleTooLong      = NewDomainError("guide", "Validate", ErrValueOutOfRange, "guide title exceeds 200 characters")
	ErrNoAuthors              = NewDomainError("guide", "Validate", ErrInvalidInput, "at least one author is required")
	ErrTooManyAuthors         = NewDomainError("guide", "Validate", ErrValueOutOfRange, "maximum number of authors exceeded")
	ErrGuideStatusTransition  = NewDomainError("guide", "UpdateStatus", ErrStateTransition, "invalid guide status transition")
	ErrGuideAlreadyAssociated = NewDomainError("guide", "Associate", ErrAlreadyExists, "guide is already associated with a course")
	ErrGuideNotAssociated     = NewDomainError("guide", "Disassociate", ErrInvalidState, "guide is not associated with a course")
	ErrChallengeAlreadyLinked = NewDomainError("guide", "AddChallenge", ErrAlreadyExists, "challenge already linked to guide")
	ErrChallengeNotLinked     = NewDomainError("guide", "RemoveChallenge", ErrNotFound, "challenge not linked to guide")
	ErrAlreadyLiked           = NewDomainError("guide", "Like", ErrAlreadyExists, "guide already liked by user")
	ErrNotLiked               = NewDomainError("guide", "Unlike", ErrNotFound, "guide not liked by user")
)

// Page domain errors
var (
	ErrPageNotFound       = NewDomainError("guide", "FindPage", ErrNotFound, "page not found")
	ErrInvalidPageContent = NewDomainError("guide", "ValidatePage", ErrEmptyValue, "page content cannot be blank")
	ErrInvalidPageOrder   = NewDomainError("guide", "ValidatePage", ErrValueOutOfRange, "page order number must be positive")
	ErrPageOrderTaken     = NewDomainError("guide", "ValidatePage", ErrAlreadyExists, "a page with this order number already exists")
)

// Course domain errors
var (
	ErrCourseNotFound         = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrCourseDeleted          = NewDomainError("course", "CheckStatus", ErrInvalidState, "course has been deleted")
	ErrInvalidCourseTitle     = NewDomainError("course", "Validate", ErrEmptyValue, "course title cannot be blank")
	ErrInvalidDifficulty      = NewDomainError("course", "Validate", ErrInvalidInput, "invalid difficulty level")
	ErrCourseStatusTransition = NewDomainError("course", "UpdateStatus", ErrStateTransition, "invalid course status transition")
	ErrGuideAlreadyInCourse   = NewDomainError("course", "AddGuide", ErrAlreadyExists, "guide already belongs to this course")
	ErrGuideNotInCourse       = NewDomainError("course", "RemoveGuide", ErrNotFound, "guide does not belong to this course")
)

// Enrollment domain errors
var (
	ErrEnrollmentNotFound = NewDomainError("enrollment", "Find", ErrNotFound, "enrollment not found")
	ErrAlreadyEnrolled    = NewDomainError("enrollment", "Enroll", ErrAlreadyExists, "user is already enrolled in this course")
)

// Learning progress domain errors
var (
	ErrProgressNotFound         = NewDomainError("progress", "Find", ErrNotFound, "learning progress not found")
	ErrProgressAlreadyExists    = NewDomainError("progress", "Start", ErrAlreadyExists, "learning progress already exists for this user and entity")
	ErrInvalidEntityType        = NewDomainError("progress", "Validate", ErrInvalidInput, "invalid learning entity type")
	ErrCompletedItemsOutOfRange = NewDomainError("progress", "Update", ErrValueOutOfRange, "completed items must be between 0 and total items")
	ErrNegativeReadingTime      = NewDomainError("progress", "Update", ErrValueOutOfRange, "reading time cannot be negative")
)

// Authorization errors shared by all contexts
var (
	ErrAuthenticationRequired = NewDomainError("auth", "Require", ErrUnauthenticated, "authentication required")
	ErrMissingRole            = NewDomainError("auth", "RequireRole", ErrUnauthorized, "required role is missing")
	ErrNotOwner               = NewDomainError("auth", "CheckOwnership", ErrUnauthorized, "caller does not own this resource")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a uniqueness/conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrStateTransition)
}

// IsUnauthenticated checks if the error is an authentication error.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsUnauthorized checks if the error is a permission error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
