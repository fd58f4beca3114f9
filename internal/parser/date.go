// Package parser converts the date and duration forms people type into the
// canonical stored forms, and back into the export display forms.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalDateLayout is the single stored form of a calendar date.
const CanonicalDateLayout = "2006-01-02"

// DisplayDateLayout is the form dates take in an export row.
const DisplayDateLayout = "02/01/2006"

const (
	// millisThreshold separates second from millisecond timestamps. 1e11 seconds
	// is past the year 5000 while 1e11 milliseconds is in 1973.
	millisThreshold = 1e11
	// maxUnixSeconds is 9999-12-31T23:59:59Z, the last instant with a four digit year.
	maxUnixSeconds = 253402300799
	// minUnixSeconds is 1973-03-03. Smaller numbers are compact dates such as
	// 20250905 or plain counts, never a timestamp anyone means.
	minUnixSeconds = 1e8
)

// DateResult holds the outcome of parsing a date.
type DateResult struct {
	Date    string // Canonical YYYY-MM-DD
	Grammar string // Name of the grammar that accepted the input
	Valid   bool
	Error   error
}

// dateGrammar is one accepted date form. When pattern matches, parse decides
// the outcome and no later grammar is tried.
type dateGrammar struct {
	name    string
	pattern *regexp.Regexp
	parse   func(s string, loc *time.Location) (time.Time, error)
}

// dateGrammars lists the accepted forms in priority order.
var dateGrammars = []dateGrammar{
	{
		name:    "iso",
		pattern: regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
		parse: func(s string, _ *time.Location) (time.Time, error) {
			return time.Parse("2006-1-2", s)
		},
	},
	{
		name:    "dmy",
		pattern: regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		parse: func(s string, _ *time.Location) (time.Time, error) {
			return time.Parse("2/1/2006", s)
		},
	},
	{
		name:    "timestamp",
		pattern: regexp.MustCompile(`^\d+(\.\d+)?$`),
		parse:   parseUnixTimestamp,
	},
}

// DateGrammars returns the names of the accepted date forms in priority order.
func DateGrammars() []string {
	names := make([]string, len(dateGrammars))
	for i, g := range dateGrammars {
		names[i] = g.name
	}
	return names
}

// ParseDate parses a date in any accepted form, reading timestamps as UTC.
func ParseDate(input string) DateResult {
	return ParseDateIn(input, time.UTC)
}

// ParseDateIn parses a date in any accepted form. Numeric timestamps are
// converted to a calendar day in loc.
func ParseDateIn(input string, loc *time.Location) DateResult {
	s := strings.TrimSpace(input)
	if s == "" {
		return DateResult{Error: NewDateError(input)}
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, g := range dateGrammars {
		if !g.pattern.MatchString(s) {
			continue
		}
		t, err := g.parse(s, loc)
		if err != nil {
			perr := NewDateError(input)
			perr.Message = err.Error()
			return DateResult{Grammar: g.name, Error: perr}
		}
		return DateResult{Date: t.Format(CanonicalDateLayout), Grammar: g.name, Valid: true}
	}

	return DateResult{Error: NewDateError(input)}
}

// parseUnixTimestamp reads seconds or milliseconds since the epoch, telling
// them apart by magnitude. Values below minUnixSeconds are rejected.
func parseUnixTimestamp(s string, loc *time.Location) (time.Time, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	if v < minUnixSeconds {
		return time.Time{}, fmt.Errorf("timestamp %s too small, use YYYY-MM-DD or DD/MM/YYYY", s)
	}
	if v >= millisThreshold {
		v /= 1000
	}
	if v < 0 || v > maxUnixSeconds {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", s)
	}
	return time.Unix(int64(v), 0).In(loc), nil
}

// IsCanonicalDate reports whether s is already in YYYY-MM-DD form.
func IsCanonicalDate(s string) bool {
	_, err := time.Parse(CanonicalDateLayout, s)
	return err == nil
}
