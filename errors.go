package graphgen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors of generated modules.
var (
	// ErrValidation is returned when a filter value cannot be coerced to the
	// type recorded for its property.
	ErrValidation = errors.New("graphgen: validation failed")

	// ErrQuery is returned when the query execution boundary fails.
	ErrQuery = errors.New("graphgen: query failed")
)

// ValidationError reports a filter value that does not fit its property type.
type ValidationError struct {
	Property string // Property name
	Native   string // Native type name, e.g. INTEGER
	Expected string // Expected Go type, e.g. int64
	Actual   string // Go type of the supplied value
	Value    any    // Supplied value
	Cause    error  // Coercion error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("graphgen: property %q expects %s (%s), got %s",
		e.Property, strings.ToLower(e.Native), e.Expected, e.Actual)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the coercion error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches ValidationError.
func (e *ValidationError) Is(err error) bool {
	return err == ErrValidation
}

// NewValidationError returns a new ValidationError for a property.
func NewValidationError(property, native, expected string, value any, cause error) *ValidationError {
	return &ValidationError{
		Property: property,
		Native:   native,
		Expected: expected,
		Actual:   TypeName(value),
		Value:    value,
		Cause:    cause,
	}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e) || errors.Is(err, ErrValidation)
}

// QueryError wraps a failure of the query execution boundary.
type QueryError struct {
	Kind  string // Node label or relationship type queried, if any
	Query string
	Err   error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("graphgen: query %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("graphgen: query: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches QueryError.
func (e *QueryError) Is(err error) bool {
	return err == ErrQuery
}

// NewQueryError returns a new QueryError.
func NewQueryError(kind, query string, err error) *QueryError {
	return &QueryError{Kind: kind, Query: query, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e) || errors.Is(err, ErrQuery)
}
