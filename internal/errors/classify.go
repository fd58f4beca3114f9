package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the caller can fix (bad input, unknown id).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, permission denied).
	CategorySystem
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
// Nothing here is retried: validation failures must reach the caller unchanged.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if IsUserError(err) {
		return CategoryUser
	}
	if IsSystemError(err) {
		return CategorySystem
	}

	// Bare domain sentinels still count as caller errors
	if KindName(err) != "" {
		return CategoryUser
	}

	if isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC: // No space left on device
			return true
		case syscall.EACCES, syscall.EPERM: // Permission denied
			return true
		case syscall.ENOENT: // No such file or directory
			return true
		case syscall.EIO: // I/O error
			return true
		case syscall.EROFS: // Read-only filesystem
			return true
		}
	}

	if errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrInvalidTemplate) {
		return true
	}

	return false
}

// IsUserCategory returns true if the error is a caller-fixable error.
func IsUserCategory(err error) bool {
	return Classify(err) == CategoryUser
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	switch Classify(err) {
	case CategoryUser:
		if suggestion := GetSuggestion(err); suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategorySystem:
		if suggestion := GetSuggestion(err); suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg

	default:
		return msg
	}
}
