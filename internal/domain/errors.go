package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModuleNotFound is returned when a module ID does not exist in the catalog.
	ErrModuleNotFound = errors.New("module not found")
	// ErrCourseNotFound indicates the course could not be loaded.
	ErrCourseNotFound = errors.New("course not found")
	// ErrPathNotFound indicates the learning path could not be loaded.
	ErrPathNotFound = errors.New("learning path not found")
	// ErrQuizNotFound indicates a module has no quiz payload attached.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrUserNotFound indicates the catalog has no record of the user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAttemptNotFound indicates no attempt exists for the given seed.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	// ErrInterventionNotFound indicates an unknown intervention ID.
	ErrInterventionNotFound = errors.New("intervention not found")
	// ErrNotEligible is returned when a certificate is requested before the
	// course is complete, or a threshold is out of range.
	ErrNotEligible = errors.New("not eligible")
	// ErrStorageFailure wraps row or blob writes that could not be completed.
	ErrStorageFailure = errors.New("storage failure")
)

// ValidationError reports a malformed payload or submission. Submissions are
// rejected with details, never silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
