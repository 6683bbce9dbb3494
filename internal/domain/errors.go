package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrSerializeFailed indicates the manifest serializer failed
	ErrSerializeFailed = errors.New("serialize failed")

	// ErrGenerateFailed indicates a custom manifest generator failed
	ErrGenerateFailed = errors.New("generate failed")

	// ErrWriteFailed indicates writing the manifest to disk failed
	ErrWriteFailed = errors.New("write failed")

	// ErrInvalidPattern indicates a configured regular expression is invalid
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNoOutputPath indicates the compiler has no output directory
	ErrNoOutputPath = errors.New("no output path")

	// ErrBuildFailed indicates the host build reported errors
	ErrBuildFailed = errors.New("build failed")
)

// EmitError represents a failed emit cycle for one manifest target
type EmitError struct {
	Target string
	Err    error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit failed for %s: %v", e.Target, e.Err)
}

func (e *EmitError) Unwrap() error {
	return e.Err
}

// NewEmitError creates a new EmitError
func NewEmitError(target string, err error) *EmitError {
	return &EmitError{
		Target: target,
		Err:    err,
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
