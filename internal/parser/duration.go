package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxMinutes is the longest duration a single entry may record.
const MaxMinutes = 24 * 60

// DurationResult holds the outcome of parsing a duration.
type DurationResult struct {
	Minutes int
	Grammar string // Name of the grammar that accepted the input
	Valid   bool
	Error   error
}

// durationGrammar is one accepted duration form. When pattern matches, parse
// decides the outcome and no later grammar is tried.
type durationGrammar struct {
	name    string
	pattern *regexp.Regexp
	parse   func(m []string) (int, error)
}

// durationGrammars lists the accepted forms in priority order.
var durationGrammars = []durationGrammar{
	{
		// "1:30", "01:30"
		name:    "clock",
		pattern: regexp.MustCompile(`^(\d{1,2}):(\d{2})$`),
		parse: func(m []string) (int, error) {
			h, _ := strconv.Atoi(m[1])
			mm, _ := strconv.Atoi(m[2])
			if mm >= 60 {
				return 0, fmt.Errorf("minutes must be below 60")
			}
			return h*60 + mm, nil
		},
	},
	{
		// "90"
		name:    "minutes",
		pattern: regexp.MustCompile(`^\d+$`),
		parse: func(m []string) (int, error) {
			return strconv.Atoi(m[0])
		},
	},
	{
		// "1.5", "1.5h", "1,5 hs", "2H"
		name:    "hours",
		pattern: regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*(?:h|hs)?$`),
		parse: func(m []string) (int, error) {
			hours, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
			if err != nil {
				return 0, err
			}
			return int(math.Round(hours * 60)), nil
		},
	},
}

// DurationGrammars returns the names of the accepted duration forms in priority order.
func DurationGrammars() []string {
	names := make([]string, len(durationGrammars))
	for i, g := range durationGrammars {
		names[i] = g.name
	}
	return names
}

// ParseDuration parses a duration into whole minutes.
// Supports formats like:
//   - "01:30" or "1:30" (hours and minutes)
//   - "90" (whole minutes)
//   - "1.5", "1.5h", "1,5hs" (decimal hours, rounded to the nearest minute)
//
// The result must be in 1..MaxMinutes.
func ParseDuration(input string) DurationResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return DurationResult{Error: NewDurationError(input)}
	}

	for _, g := range durationGrammars {
		m := g.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		minutes, err := g.parse(m)
		if err != nil {
			perr := NewDurationError(input)
			perr.Message = err.Error()
			return DurationResult{Grammar: g.name, Error: perr}
		}
		if err := CheckMinutes(minutes); err != nil {
			perr := NewDurationError(input)
			perr.Message = err.Error()
			return DurationResult{Grammar: g.name, Error: perr}
		}
		return DurationResult{Minutes: minutes, Grammar: g.name, Valid: true}
	}

	return DurationResult{Error: NewDurationError(input)}
}

// CheckMinutes verifies that minutes is a storable duration.
func CheckMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	if minutes > MaxMinutes {
		return fmt.Errorf("duration exceeds %d minutes", MaxMinutes)
	}
	return nil
}
