// Package errors provides consistent error types for pfsheet.
// It defines two main categories: UserError (fixable by the caller) and
// SystemError (storage and filesystem failures). Domain error kinds are
// sentinels carried by a UserError, so callers can test them with Is.
package errors

import (
	"errors"
	"fmt"
)

// Domain error kinds. A UserError built by the constructors below unwraps to one of these.
var (
	ErrMissingField           = errors.New("missing required field")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidDuration        = errors.New("invalid duration")
	ErrFieldContainsSeparator = errors.New("field contains separator")
	ErrNotFound               = errors.New("timesheet not found")
)

// Sentinel errors for system conditions.
var (
	ErrInvalidTemplate   = errors.New("invalid export template")
	ErrInvalidExport     = errors.New("malformed export content")
	ErrDiskFull          = errors.New("disk full")
	ErrDatabaseCorrupted = errors.New("database corrupted")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrLockHeld          = errors.New("database locked by another process")
)

// UserError represents an error that the caller can fix.
// Examples: invalid input, missing required fields, unknown record id.
type UserError struct {
	Kind       error  // Domain kind (one of the Err* sentinels), optional
	Message    string // What happened
	Reason     string // Why it happened (optional)
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

// Unwrap returns the domain kind so errors.Is matches the sentinels.
func (e *UserError) Unwrap() error {
	return e.Kind
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// MissingField reports that a required field is absent or empty.
func MissingField(name string) *UserError {
	return &UserError{
		Kind:       ErrMissingField,
		Message:    fmt.Sprintf("missing required field '%s'", name),
		Field:      name,
		Suggestion: Suggestions[ErrMissingField],
	}
}

// InvalidDate reports a date value matching none of the accepted forms.
func InvalidDate(field, raw string) *UserError {
	return &UserError{
		Kind:       ErrInvalidDate,
		Message:    fmt.Sprintf("invalid date in '%s'", field),
		Field:      field,
		Value:      raw,
		Suggestion: Suggestions[ErrInvalidDate],
	}
}

// InvalidDuration reports a duration value that does not parse or is out of range.
func InvalidDuration(field, raw string) *UserError {
	return &UserError{
		Kind:       ErrInvalidDuration,
		Message:    fmt.Sprintf("invalid duration in '%s'", field),
		Field:      field,
		Value:      raw,
		Suggestion: Suggestions[ErrInvalidDuration],
	}
}

// FieldContainsSeparator reports a text value that would break the export row layout.
func FieldContainsSeparator(name, value string) *UserError {
	return &UserError{
		Kind:       ErrFieldContainsSeparator,
		Message:    fmt.Sprintf("field '%s' contains a separator or line break", name),
		Field:      name,
		Value:      value,
		Suggestion: Suggestions[ErrFieldContainsSeparator],
	}
}

// NotFound reports that no timesheet exists with the given id.
func NotFound(id int64) *UserError {
	return &UserError{
		Kind:       ErrNotFound,
		Message:    "timesheet not found",
		Field:      "id",
		Value:      fmt.Sprint(id),
		Suggestion: Suggestions[ErrNotFound],
	}
}

// KindName returns the short name of the domain kind carried by err, or "" if none.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "MissingField"
	case errors.Is(err, ErrInvalidDate):
		return "InvalidDate"
	case errors.Is(err, ErrInvalidDuration):
		return "InvalidDuration"
	case errors.Is(err, ErrFieldContainsSeparator):
		return "FieldContainsSeparator"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	}
	return ""
}

// SystemError represents a system-level error that the user cannot directly fix.
// Examples: disk full, database corruption, unwritable export directory.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
