package load

import (
	"errors"
	"strings"
)

// ErrIntrospection indicates that a schema discovery query failed.
var ErrIntrospection = errors.New("graphgen: introspection failed")

// Introspection steps, in the order Collect runs them.
const (
	StepNodeKinds       = "node kinds"
	StepNodeProperties  = "node properties"
	StepEdgeKinds       = "edge kinds"
	StepEdgeProperties  = "edge properties"
	StepEdgeEndpoints   = "edge endpoints"
	StepServerTimestamp = "server timestamp"
)

// IntrospectionError represents a failed discovery query.
type IntrospectionError struct {
	Step  string // One of the Step constants
	Kind  string // Kind being inspected (if applicable)
	Cause error
}

// Error implements the error interface.
func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: introspection failed")
	if e.Step != "" {
		b.WriteString(" at ")
		b.WriteString(e.Step)
	}
	if e.Kind != "" {
		b.WriteString(" of ")
		b.WriteString(e.Kind)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *IntrospectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IntrospectionError.
func (e *IntrospectionError) Is(target error) bool {
	return target == ErrIntrospection
}

// NewIntrospectionError creates a new IntrospectionError.
func NewIntrospectionError(step, kind string, cause error) *IntrospectionError {
	return &IntrospectionError{Step: step, Kind: kind, Cause: cause}
}

// IsIntrospectionError reports whether err is an IntrospectionError.
func IsIntrospectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *IntrospectionError
	return errors.As(err, &e) || errors.Is(err, ErrIntrospection)
}
