package errors

import (
	"fmt"
	"strings"
)

// FormatStackTrace formats a stack trace for display.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Stack trace:\n")

	for i, frame := range frames {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, frame.Function)
		fmt.Fprintf(&sb, "       at %s:%d\n", frame.File, frame.Line)
	}

	return sb.String()
}

// FormatDebugError formats an error with full debug information.
// This includes the error chain and stack trace if available.
func FormatDebugError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	if chain := Chain(err); len(chain) > 1 {
		sb.WriteString("\nError chain:\n")
		for i, msg := range chain {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, msg)
		}
	}

	fmt.Fprintf(&sb, "\nCategory: %s\n", Classify(err).String())
	if kind := KindName(err); kind != "" {
		fmt.Fprintf(&sb, "Kind: %s\n", kind)
	}

	if suggestion := GetSuggestion(err); suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", suggestion)
	}

	if stack := GetStack(err); len(stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(FormatStackTrace(stack))
	}

	if root := RootCause(err); root != err {
		fmt.Fprintf(&sb, "\nRoot cause: %v\n", root)
	}

	return sb.String()
}

// FormatUserError formats an error for display to the user.
// This provides a clean, actionable message without technical details.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(err.Error())

	if suggestion := GetSuggestion(err); suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(suggestion)
	}

	if examples := GetExamples(err); len(examples) > 0 {
		sb.WriteString("\n\nExamples:\n")
		for _, ex := range examples {
			sb.WriteString("  ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
