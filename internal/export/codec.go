// Package export renders timesheets into the PF time-registration template
// and writes the result as named artifacts.
package export

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
)

//go:embed template/PF_PlantillaRegTiempos.csv
var templateCSV string

// Format constants of the PF template.
const (
	TemplateName = "PF_PlantillaRegTiempos"
	HeaderLines  = 10
	RowPrefix    = "D"
	Separator    = ";"
	LineEnding   = "\n"
)

const bom = "\ufeff"

// RowSegments is the number of Separator-delimited segments in a data line:
// the prefix plus one per export field.
var RowSegments = 1 + len(model.ExportFields)

// Codec converts between timesheets and the PF text format.
// The zero value is not usable; use NewCodec or DefaultCodec.
type Codec struct {
	header []string
}

// DefaultHeader returns the header block of the bundled template.
func DefaultHeader() []string {
	return splitHeader(templateCSV)
}

// DefaultCodec returns a codec using the bundled template header.
func DefaultCodec() *Codec {
	return &Codec{header: DefaultHeader()}
}

// NewCodec creates a codec with the given header block, which must have
// exactly HeaderLines lines without line breaks.
func NewCodec(header []string) (*Codec, error) {
	if len(header) != HeaderLines {
		return nil, fmt.Errorf("%w: header has %d lines, want %d", errors.ErrInvalidTemplate, len(header), HeaderLines)
	}
	for i, line := range header {
		if strings.ContainsAny(line, "\r\n") {
			return nil, fmt.Errorf("%w: header line %d contains a line break", errors.ErrInvalidTemplate, i+1)
		}
	}
	return &Codec{header: append([]string(nil), header...)}, nil
}

// LoadHeader reads the header block from a template file. The first
// HeaderLines lines are used; a shorter file is padded with empty lines.
func LoadHeader(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("read template", err.Error(), errors.ErrInvalidTemplate)
	}
	return splitHeader(string(data)), nil
}

// splitHeader takes the first HeaderLines lines of a template, dropping a
// byte-order mark and normalizing CRLF.
func splitHeader(text string) []string {
	lines := splitLines(text)
	header := make([]string, HeaderLines)
	copy(header, lines)
	return header
}

func splitLines(text string) []string {
	text = strings.TrimPrefix(text, bom)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Header returns a copy of the header block.
func (c *Codec) Header() []string {
	return append([]string(nil), c.header...)
}

// Row returns the export fields of ts in template order, with fecha as
// DD/MM/YYYY and tiempo as HH:MM. Optional fields render as empty strings.
func Row(ts *model.Timesheet) []string {
	fields := make([]string, len(model.ExportFields))
	for i, name := range model.ExportFields {
		switch name {
		case model.FieldFecha:
			fields[i] = parser.FormatDate(ts.Fecha)
		case model.FieldTiempo:
			fields[i] = parser.FormatDuration(ts.TiempoMinutos)
		default:
			fields[i], _ = ts.Text(name)
		}
	}
	return fields
}

// Line renders one data line without its line ending.
func Line(ts *model.Timesheet) string {
	return RowPrefix + Separator + strings.Join(Row(ts), Separator)
}

// Marshal renders the header block followed by one data line per record,
// in the given order. Every line ends with LineEnding; no byte-order mark is
// written. The output depends only on the header and the records.
func (c *Codec) Marshal(rows []*model.Timesheet) []byte {
	var sb strings.Builder
	for _, line := range c.header {
		sb.WriteString(line)
		sb.WriteString(LineEnding)
	}
	for _, ts := range rows {
		sb.WriteString(Line(ts))
		sb.WriteString(LineEnding)
	}
	return []byte(sb.String())
}

// Encode writes Marshal(rows) to w.
func (c *Codec) Encode(w io.Writer, rows []*model.Timesheet) error {
	_, err := w.Write(c.Marshal(rows))
	return err
}

// Decode parses export content back into field maps, one per data line, keyed
// by export field name with the display values as written. The header block
// must match the codec's header.
func (c *Codec) Decode(data []byte) ([]model.Input, error) {
	lines := splitLines(string(data))
	if len(lines) < HeaderLines {
		return nil, fmt.Errorf("%w: %d lines, header needs %d", errors.ErrInvalidExport, len(lines), HeaderLines)
	}
	for i, line := range lines[:HeaderLines] {
		if line != c.header[i] {
			return nil, fmt.Errorf("%w: header line %d differs from template", errors.ErrInvalidExport, i+1)
		}
	}

	rows := make([]model.Input, 0, len(lines)-HeaderLines)
	for i, line := range lines[HeaderLines:] {
		lineNo := HeaderLines + i + 1
		segments := strings.Split(line, Separator)
		if len(segments) != RowSegments {
			return nil, fmt.Errorf("%w: line %d has %d segments, want %d", errors.ErrInvalidExport, lineNo, len(segments), RowSegments)
		}
		if segments[0] != RowPrefix {
			return nil, fmt.Errorf("%w: line %d does not start with %q", errors.ErrInvalidExport, lineNo, RowPrefix+Separator)
		}
		in := make(model.Input, len(model.ExportFields))
		for j, name := range model.ExportFields {
			in[name] = segments[j+1]
		}
		rows = append(rows, in)
	}
	return rows, nil
}
