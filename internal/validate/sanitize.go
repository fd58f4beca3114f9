package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separators are the characters a stored text value may never contain:
// ';' splits export fields and line breaks split export rows.
const Separators = ";\r\n"

// ContainsSeparator reports whether s contains any export separator.
func ContainsSeparator(s string) bool {
	return strings.ContainsAny(s, Separators)
}

// StripControlChars removes control characters other than line breaks and tabs.
// Line breaks are kept so ContainsSeparator still sees them.
func StripControlChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\r' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateRunes cuts s to at most maxLen characters without splitting a rune.
func TruncateRunes(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// SafeFilename converts a string to a safe filename component.
func SafeFilename(s string) string {
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"\x00", "",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	// Trim dots from ends
	s = strings.Trim(s, ".")

	if len(s) > 200 {
		s = s[:200]
	}

	return s
}
