// Package validate converts loosely typed field maps into typed timesheet
// records, applying the required-field check and per-field normalization.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
)

// MaxTextLength is the longest stored text value, in characters.
const MaxTextLength = 255

// Normalizer validates and canonicalizes timesheet input.
type Normalizer struct {
	// Location converts numeric timestamps to calendar days. Nil means UTC.
	Location *time.Location
}

// NewNormalizer creates a Normalizer reading timestamps in loc.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{Location: loc}
}

func (n *Normalizer) location() *time.Location {
	if n == nil || n.Location == nil {
		return time.UTC
	}
	return n.Location
}

// Normalize turns a complete input map into a new record. The required-field
// check runs over model.RequiredFields in order before any value is parsed;
// the first missing field is reported. The returned record has no id or
// timestamps yet.
func (n *Normalizer) Normalize(in model.Input) (*model.Timesheet, error) {
	for _, name := range model.RequiredFields {
		if isBlank(in[name]) {
			return nil, errors.MissingField(name)
		}
	}

	ts := &model.Timesheet{}
	for _, name := range model.ExportFields {
		raw, ok := in[name]
		if !ok {
			continue
		}
		if err := n.assign(ts, name, raw); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Date normalizes a date value of any accepted form to YYYY-MM-DD.
// Numbers are read as Unix timestamps.
func (n *Normalizer) Date(field string, v any) (string, error) {
	raw := stringify(v)
	r := parser.ParseDateIn(raw, n.location())
	if !r.Valid {
		return "", dateError(field, raw, r.Error)
	}
	return r.Date, nil
}

// Duration normalizes a duration value to whole minutes. Integral numbers are
// minutes and fractional numbers are hours; strings go through the duration grammars.
func (n *Normalizer) Duration(field string, v any) (int, error) {
	raw := stringify(v)

	if f, isNum := number(v); isNum {
		minutes := f
		if f != math.Trunc(f) {
			minutes = math.Round(f * 60)
		}
		if !inMinuteRange(minutes) {
			return 0, errors.InvalidDuration(field, raw)
		}
		return int(minutes), nil
	}

	r := parser.ParseDuration(raw)
	if !r.Valid {
		return 0, durationError(field, raw, r.Error)
	}
	return r.Minutes, nil
}

// Minutes validates an explicit minute count such as tiempo_minutos.
func (n *Normalizer) Minutes(field string, v any) (int, error) {
	raw := stringify(v)
	f, isNum := number(v)
	if !isNum {
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, errors.InvalidDuration(field, raw)
		}
		f = float64(i)
	}
	if f != math.Trunc(f) || !inMinuteRange(f) {
		return 0, errors.InvalidDuration(field, raw)
	}
	return int(f), nil
}

// Text normalizes a free-text value: separators are rejected, surrounding
// whitespace trimmed and the result cut to MaxTextLength characters.
func Text(field string, v any) (string, error) {
	s := StripControlChars(stringify(v))
	if ContainsSeparator(s) {
		return "", errors.FieldContainsSeparator(field, s)
	}
	return TruncateRunes(strings.TrimSpace(s), MaxTextLength), nil
}

func (n *Normalizer) assign(ts *model.Timesheet, name string, raw any) error {
	switch name {
	case model.FieldFecha:
		d, err := n.Date(name, raw)
		if err != nil {
			return err
		}
		ts.Fecha = d
	case model.FieldTiempo:
		m, err := n.Duration(name, raw)
		if err != nil {
			return err
		}
		ts.TiempoMinutos = m
	default:
		s, err := Text(name, raw)
		if err != nil {
			return err
		}
		if s == "" && model.IsRequired(name) {
			return errors.MissingField(name)
		}
		ts.SetText(name, s)
	}
	return nil
}

func dateError(field, raw string, err error) error {
	if perr, ok := err.(*parser.TimeParseError); ok {
		return perr.ToUserError(field)
	}
	return errors.InvalidDate(field, raw)
}

func durationError(field, raw string, err error) error {
	if perr, ok := err.(*parser.TimeParseError); ok {
		return perr.ToUserError(field)
	}
	return errors.InvalidDuration(field, raw)
}

func inMinuteRange(f float64) bool {
	return !math.IsNaN(f) && f >= 1 && f <= parser.MaxMinutes
}

// isBlank reports whether a value counts as missing.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	return strings.TrimSpace(stringify(v)) == ""
}

// stringify renders an input value as text.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// number returns v as a float when it is a numeric value rather than text.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	}
	return 0, false
}
