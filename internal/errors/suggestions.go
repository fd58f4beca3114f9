package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrMissingField:           "Required: legajo_personal, fecha, cliente, contrato_division, contrato_tipo, contrato_numero, tarea, tiempo.",
	ErrInvalidDate:            "Use YYYY-MM-DD, DD/MM/YYYY or a Unix timestamp in seconds or milliseconds.",
	ErrInvalidDuration:        "Use HH:MM, whole minutes (90) or hours (1.5h); at most 24 hours per entry.",
	ErrFieldContainsSeparator: "Remove ';' and line breaks from the value; the export format cannot escape them.",
	ErrNotFound:               "Use 'pfsheet list' to see existing timesheets.",

	ErrInvalidTemplate:   "Check export.template in the config file; it must be a PF template CSV.",
	ErrInvalidExport:     "The file is not a PF timesheet export.",
	ErrDiskFull:          "Free up disk space and try again.",
	ErrDatabaseCorrupted: "Move the database directory aside and start over, or restore it from a backup.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/pfsheet/).",
	ErrLockHeld:          "Another pfsheet process is using the database. Wait for it to finish.",
}

// GetSuggestion returns a suggestion for an error, if available.
// A UserError's own suggestion takes precedence over the per-kind default.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrMissingField: {
		"pfsheet create --legajo 1234 --fecha 2025-09-05 --cliente 1 --division IOT --tipo 7 --numero 1456 --tarea ATC --tiempo 1.5h",
	},
	ErrInvalidDate: {
		"pfsheet create ... --fecha 2025-09-05",
		"pfsheet create ... --fecha 05/09/2025",
		"pfsheet list --from 1756944000",
	},
	ErrInvalidDuration: {
		"pfsheet create ... --tiempo 01:30",
		"pfsheet create ... --tiempo 90",
		"pfsheet update 3 --tiempo 1,5hs",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for knownErr, examples := range CommandExamples {
		if errors.Is(err, knownErr) {
			return examples
		}
	}
	return nil
}
