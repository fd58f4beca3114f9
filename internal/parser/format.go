package parser

import (
	"fmt"
	"time"
)

// FormatDate renders a canonical YYYY-MM-DD date as DD/MM/YYYY.
// Input that is not a canonical date is returned unchanged.
func FormatDate(canonical string) string {
	t, err := time.Parse(CanonicalDateLayout, canonical)
	if err != nil {
		return canonical
	}
	return t.Format(DisplayDateLayout)
}

// FormatDuration renders minutes as zero-padded HH:MM. The 1440 minute
// boundary renders as "24:00".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatHours renders minutes as a short human duration ("1h30m", "45m").
func FormatHours(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
