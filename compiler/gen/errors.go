package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("graphgen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("graphgen: code generation failed")
	// ErrAssembly indicates that the module could not be formatted or written.
	ErrAssembly = errors.New("graphgen: module assembly failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("graphgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("graphgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "metadata", "naming", "runtime", etc.
	Kind    string // Node label or relationship type (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.Kind != "" {
		b.WriteString(" (kind: ")
		b.WriteString(e.Kind)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, kind, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// AssemblyError represents a failure to format or write a module.
type AssemblyError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: assembly error")
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *AssemblyError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for AssemblyError.
func (e *AssemblyError) Is(target error) bool {
	return target == ErrAssembly
}

// NewAssemblyError creates a new AssemblyError.
func NewAssemblyError(path, message string, cause error) *AssemblyError {
	return &AssemblyError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsAssemblyError reports whether the error is an AssemblyError.
func IsAssemblyError(err error) bool {
	var asmErr *AssemblyError
	return errors.As(err, &asmErr)
}
