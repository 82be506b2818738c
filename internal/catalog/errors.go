package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a catalog lookup matches nothing.
var ErrNotFound = errors.New("not found")

// LoadError represents a failure reading a catalog source.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RecordError reports a catalog record that failed validation.
type RecordError struct {
	Kind  string
	ID    string
	Cause error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.ID, e.Cause)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}
