package logging

import (
	"strings"
)

const (
	// MaskChar is the character used for masking.
	MaskChar = "*"
	// DefaultMaskLength is how many mask characters to show.
	DefaultMaskLength = 3
)

// SensitiveFields contains field names whose values are masked in logs:
// personal data of the people whose time is recorded, and credentials.
var SensitiveFields = map[string]bool{
	"nombre_personal": true,
	"observaciones":   true,
	"token":           true,
	"secret":          true,
	"password":        true,
	"api_key":         true,
	"credential":      true,
}

// MaskValue masks a sensitive value completely.
func MaskValue(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat(MaskChar, min(len(value), 8))
}

// MaskPartial masks a value but shows the first few characters.
func MaskPartial(value string, showChars int) string {
	runes := []rune(value)
	if len(runes) <= showChars {
		return strings.Repeat(MaskChar, len(runes))
	}
	return string(runes[:showChars]) + strings.Repeat(MaskChar, DefaultMaskLength)
}

// IsSensitiveField checks if a field name indicates sensitive data.
func IsSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	if SensitiveFields[lower] {
		return true
	}
	for keyword := range SensitiveFields {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskArgs masks sensitive values in a slice of logging arguments.
// Arguments are expected in key-value pairs: key1, value1, key2, value2, ...
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok || !IsSensitiveField(key) {
			continue
		}
		result[i+1] = maskAny(result[i+1])
	}

	return result
}

// MaskMap masks sensitive values in a field map, such as raw create input.
func MaskMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		switch {
		case IsSensitiveField(key):
			result[key] = maskAny(value)
		default:
			if nested, ok := value.(map[string]any); ok {
				result[key] = MaskMap(nested)
			} else {
				result[key] = value
			}
		}
	}
	return result
}

func maskAny(v any) any {
	if s, ok := v.(string); ok {
		return MaskValue(s)
	}
	return strings.Repeat(MaskChar, 8)
}
