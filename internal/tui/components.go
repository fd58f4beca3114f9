package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
)

// TableComponent renders one page of records with a cursor.
type TableComponent struct {
	Rows   []*model.Timesheet
	Cursor int
	Width  int
}

// NewTableComponent creates a table component.
func NewTableComponent(rows []*model.Timesheet, cursor, width int) *TableComponent {
	return &TableComponent{Rows: rows, Cursor: cursor, Width: width}
}

// View renders the table.
func (tc *TableComponent) View() string {
	if len(tc.Rows) == 0 {
		return StyleTableBox.Render(StyleSubtitle.Render("No timesheets match."))
	}

	lines := make([]string, 0, len(tc.Rows)+1)
	lines = append(lines, StyleSubtitle.Render(fmt.Sprintf("  %-6s %-10s %-20s %-8s %5s  %s", "ID", "Fecha", "Contrato", "Tarea", "Tiempo", "Legajo")))
	for i, ts := range tc.Rows {
		lines = append(lines, tc.renderRow(ts, i == tc.Cursor))
	}
	return StyleTableBox.Render(strings.Join(lines, "\n"))
}

func (tc *TableComponent) renderRow(ts *model.Timesheet, selected bool) string {
	line := fmt.Sprintf("%-6d %-10s %-20s %-8s %5s  %s",
		ts.ID,
		parser.FormatDate(ts.Fecha),
		truncate(ts.Contract(), 20),
		truncate(ts.Tarea, 8),
		parser.FormatDuration(ts.TiempoMinutos),
		ts.LegajoPersonal,
	)
	if selected {
		return StyleSelected.Render("> " + line)
	}
	return "  " + line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// DetailComponent renders every field of one record.
type DetailComponent struct {
	Timesheet *model.Timesheet
	Width     int
}

// NewDetailComponent creates a detail component.
func NewDetailComponent(ts *model.Timesheet, width int) *DetailComponent {
	return &DetailComponent{Timesheet: ts, Width: width}
}

// View renders the detail box.
func (dc *DetailComponent) View() string {
	ts := dc.Timesheet
	if ts == nil {
		return ""
	}

	var lines []string
	lines = append(lines, StyleTitle.Render(fmt.Sprintf("Timesheet %d", ts.ID)))
	lines = append(lines, FormatLegajoTarea(ts.LegajoPersonal, ts.Tarea))
	for _, name := range model.ExportFields {
		var value string
		switch name {
		case model.FieldFecha:
			value = parser.FormatDate(ts.Fecha)
		case model.FieldTiempo:
			value = StyleDuration.Render(parser.FormatDuration(ts.TiempoMinutos))
		case model.FieldObservaciones:
			value = StyleNote.Render(ts.Observaciones)
		default:
			value, _ = ts.Text(name)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, StyleLabel.Render(name), value))
	}
	return StyleDetailBox.Render(strings.Join(lines, "\n"))
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "move"},
		{"←/→", "page"},
		{"enter", "details"},
		{"e", "export"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
