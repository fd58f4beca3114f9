package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/pfsheet/internal/errors"
)

// TimeParseError represents a date or duration parsing error with helpful suggestions.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	Kind       error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap returns the domain kind (errors.ErrInvalidDate or errors.ErrInvalidDuration).
func (e *TimeParseError) Unwrap() error {
	return e.Kind
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// DateExamples provides example date formats.
var DateExamples = []string{
	"2025-09-05",
	"05/09/2025",
	"1757030400",
	"1757030400000",
}

// DurationExamples provides example duration formats.
var DurationExamples = []string{
	"01:30",
	"90",
	"1.5h",
	"1,5hs",
}

// NewDateError creates a date parse error with standard examples.
func NewDateError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date",
		Message:    "expected YYYY-MM-DD, DD/MM/YYYY or a Unix timestamp",
		Examples:   DateExamples,
		Suggestion: "Timestamps above 1e11 are read as milliseconds.",
		Kind:       errors.ErrInvalidDate,
	}
}

// NewDurationError creates a duration parse error with standard examples.
func NewDurationError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "duration",
		Message:    "expected HH:MM, whole minutes or decimal hours",
		Examples:   DurationExamples,
		Suggestion: fmt.Sprintf("Durations must be between 1 and %d minutes.", MaxMinutes),
		Kind:       errors.ErrInvalidDuration,
	}
}

// ToUserError converts a TimeParseError into the domain error for field.
func (e *TimeParseError) ToUserError(field string) *errors.UserError {
	var ue *errors.UserError
	if e.Kind == errors.ErrInvalidDuration {
		ue = errors.InvalidDuration(field, e.Input)
	} else {
		ue = errors.InvalidDate(field, e.Input)
	}
	ue.Reason = e.Message
	if len(e.Examples) > 0 {
		ue.Suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	}
	return ue
}

// ValidateAndSuggest validates input and returns a helpful error if invalid.
func ValidateAndSuggest(inputType, input string) error {
	switch inputType {
	case "date":
		if r := ParseDate(input); !r.Valid {
			return r.Error
		}
	case "duration":
		if r := ParseDuration(input); !r.Valid {
			return r.Error
		}
	default:
		return fmt.Errorf("unknown input type: %s", inputType)
	}
	return nil
}
