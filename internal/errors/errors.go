// Package errors provides centralized error definitions and error handling
// utilities for the maestro-ng codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - RenderError: errors from writing to the terminal output stream
//   - PlayError: errors from executing an orchestration play task
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewRenderError(3, streamErr)
//
//	// Semantic error
//	err := errors.NewValidationError("position", "-1", "must be in [0, lines)")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrPositionOutOfRange) { ... }
//
//	// Check for error types
//	var renderErr *errors.RenderError
//	if errors.As(err, &renderErr) { ... }
//
//	// Use classification helpers
//	if errors.IsAbort(err) { ... }
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Output-related sentinel errors
var (
	// ErrPositionOutOfRange indicates a formatter position outside the canvas.
	ErrPositionOutOfRange = New("position out of range")
	// ErrClosedSink indicates a write to a sink that has been closed.
	ErrClosedSink = New("sink is closed")
)

// Play-related sentinel errors
var (
	// ErrPlanInvalid indicates that a plan file failed validation.
	ErrPlanInvalid = New("plan is invalid")
	// ErrTaskNotFound indicates that a task could not be found.
	ErrTaskNotFound = New("task not found")
	// ErrUnknownDependency indicates a task depends on a name that does not exist.
	ErrUnknownDependency = New("unknown dependency")
	// ErrDependencyCycle indicates a circular dependency between tasks.
	ErrDependencyCycle = New("dependency cycle detected")
	// ErrTaskFailed indicates that a task execution failed.
	ErrTaskFailed = New("task failed")
	// ErrTaskAborted indicates a task was skipped because a dependency failed.
	ErrTaskAborted = New("task aborted")
	// ErrPlayCanceled indicates that the play's context was canceled.
	ErrPlayCanceled = New("play canceled")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// MaestroError is the base interface for all maestro-ng errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type MaestroError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// RenderError represents a failure to write rendered output to the terminal
// stream. It is the only error surface of the termout package: movement and
// formatting never fail on their own, only the underlying sink write can.
//
// Example:
//
//	err := errors.NewRenderError(3, io.ErrClosedPipe)
//	fmt.Println(err) // "render error [position=3]: io: read/write on closed pipe"
type RenderError struct {
	baseError
	Position int
}

// NewRenderError creates a new RenderError for the given canvas position.
func NewRenderError(position int, cause error) *RenderError {
	return &RenderError{
		baseError: baseError{
			message:    "write failed",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Position: position,
	}
}

// Error returns the formatted error message.
func (e *RenderError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("render error [position=%d]: %v", e.Position, e.cause)
	}
	return fmt.Sprintf("render error [position=%d]: %s", e.Position, e.message)
}

// Is checks if this error matches the target.
func (e *RenderError) Is(target error) bool {
	if _, ok := target.(*RenderError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PlayError represents the failure of a single named task within a play.
//
// Example:
//
//	err := errors.NewPlayError("web-1", execErr)
//	if errors.Is(err, errors.ErrTaskAborted) { ... }
type PlayError struct {
	baseError
	Task string
}

// NewPlayError creates a new PlayError for the given task name.
func NewPlayError(task string, cause error) *PlayError {
	return &PlayError{
		baseError: baseError{
			message:    "task failed",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Task: task,
	}
}

// WithSeverity sets the error severity.
func (e *PlayError) WithSeverity(s Severity) *PlayError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *PlayError) Error() string {
	prefix := "play error"
	if e.Task != "" {
		prefix = fmt.Sprintf("play error [task=%s]", e.Task)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PlayError) Is(target error) bool {
	if _, ok := target.(*PlayError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("concurrency", "-2", "must be >= 0")
type ValidationError struct {
	baseError
	Field  string
	Value  string
	Reason string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    "validation failed",
			cause:      ErrInvalidInput,
			severity:   SeverityWarning,
			userFacing: true,
		},
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Reason)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users. This checks for:
//   - Errors implementing MaestroError with IsUserFacing() returning true
//   - ValidationError instances
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var maestroErr MaestroError
	if As(err, &maestroErr) {
		return maestroErr.IsUserFacing()
	}

	var validation *ValidationError
	return As(err, &validation)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement MaestroError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var maestroErr MaestroError
	if As(err, &maestroErr) {
		return maestroErr.Severity()
	}

	return SeverityError
}

// IsAbort returns true if the error indicates a task that never ran because
// one of its dependencies failed, as opposed to a task that ran and failed.
func IsAbort(err error) bool {
	return Is(err, ErrTaskAborted)
}

// IsValidation returns true if the error is a validation error, including
// plan-shape problems detected before any task runs.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var validation *ValidationError
	return As(err, &validation) ||
		Is(err, ErrInvalidInput) || Is(err, ErrPlanInvalid) ||
		Is(err, ErrUnknownDependency) || Is(err, ErrDependencyCycle)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with an additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load plan")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to run task %s", name)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
