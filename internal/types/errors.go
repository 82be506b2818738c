// Package types provides type definitions for structured data used throughout the careerpilot engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// InvalidInputError reports a required field that is absent or malformed.
// An undefined set is invalid input; an empty set is not.
type InvalidInputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// IncompleteProfileError reports a resume with no work, education or skills.
type IncompleteProfileError struct {
	CandidateID string
}

func (e *IncompleteProfileError) Error() string {
	if e.CandidateID != "" {
		return fmt.Sprintf("incomplete profile %s: no work entries, education entries or skills to score", e.CandidateID)
	}
	return "incomplete profile: no work entries, education entries or skills to score"
}

// NewInvalidInput is a shorthand for building an InvalidInputError.
func NewInvalidInput(field, message string) *InvalidInputError {
	return &InvalidInputError{Field: field, Message: message}
}

// IsInvalidInput reports whether err is or wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsIncompleteProfile reports whether err is or wraps an IncompleteProfileError.
func IsIncompleteProfile(err error) bool {
	var target *IncompleteProfileError
	return errors.As(err, &target)
}

// fromValidation converts validator output into an InvalidInputError naming the first failing field.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &InvalidInputError{
			Field:   fe.Namespace(),
			Message: describeTag(fe),
			Cause:   err,
		}
	}

	return &InvalidInputError{Message: err.Error(), Cause: err}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "period_order":
		return "start must not be after end"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
