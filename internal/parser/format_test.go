package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"canonical", "2025-09-05", "05/09/2025"},
		{"year_end", "2024-12-31", "31/12/2024"},
		{"not_canonical_unchanged", "05/09/2025", "05/09/2025"},
		{"empty_unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDate(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		expected string
	}{
		{"one_minute", 1, "00:01"},
		{"ninety", 90, "01:30"},
		{"eight_hours", 480, "08:00"},
		{"last_minute", 1439, "23:59"},
		{"boundary", 1440, "24:00"},
		{"negative_clamped", -3, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.minutes))
		})
	}
}

func TestFormatDurationRoundTrip(t *testing.T) {
	for m := 1; m <= MaxMinutes; m++ {
		r := ParseDuration(FormatDuration(m))
		if !assert.True(t, r.Valid, m) {
			return
		}
		assert.Equal(t, m, r.Minutes)
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "45m", FormatHours(45))
	assert.Equal(t, "2h", FormatHours(120))
	assert.Equal(t, "1h30m", FormatHours(90))
}
