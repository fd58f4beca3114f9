package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleHeaderRow = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleBorder = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// TableHeaders are the columns of a timesheet listing.
var TableHeaders = []string{"ID", "Fecha", "Legajo", "Nombre", "Contrato", "Tarea", "Tiempo", "Observaciones"}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Field prints one "label: value" line of a detail view. Empty values are skipped.
func (c *CLIFormatter) Field(label, value string) {
	if value == "" {
		return
	}
	c.Printf("  %s %s\n", c.render(styleLabel, label+":"), value)
}

// withName joins a code and its optional display name.
func withName(code, name string) string {
	if name == "" {
		return code
	}
	return code + " (" + name + ")"
}

// PrintTimesheet prints the detail view of one record.
func (c *CLIFormatter) PrintTimesheet(ts *model.Timesheet) {
	c.Title(fmt.Sprintf("Timesheet %d", ts.ID))
	c.Field("Legajo", withName(ts.LegajoPersonal, ts.NombrePersonal))
	c.Field("Fecha", parser.FormatDate(ts.Fecha))
	c.Field("Tiempo", parser.FormatDuration(ts.TiempoMinutos)+" ("+parser.FormatHours(ts.TiempoMinutos)+")")
	c.Field("Cliente", withName(ts.Cliente, ts.NombreCliente))
	c.Field("División", withName(ts.ContratoDivision, ts.NombreDivision))
	c.Field("Tipo", withName(ts.ContratoTipo, ts.NombreTipo))
	c.Field("Contrato", withName(ts.ContratoNumero, ts.NombreContrato))
	c.Field("Tarea", withName(ts.Tarea, ts.NombreTarea))
	c.Field("Observaciones", ts.Observaciones)
	c.Field("Categoría", ts.Categoria)
	c.Field("Creado", FormatTime(ts.CreatedAt))
	c.Field("Modificado", FormatTime(ts.UpdatedAt))
}

// TableRow returns the listing columns of one record.
func TableRow(ts *model.Timesheet) []string {
	return []string{
		strconv.FormatInt(ts.ID, 10),
		parser.FormatDate(ts.Fecha),
		ts.LegajoPersonal,
		ts.NombrePersonal,
		ts.Contract(),
		ts.Tarea,
		parser.FormatDuration(ts.TiempoMinutos),
		ts.Observaciones,
	}
}

// RenderTable renders records as a bordered table.
func (c *CLIFormatter) RenderTable(rows []*model.Timesheet) string {
	cells := make([][]string, len(rows))
	for i, ts := range rows {
		cells[i] = TableRow(ts)
	}

	t := table.New().
		Headers(TableHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && c.IsColorEnabled() {
				return styleHeaderRow
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	if c.IsColorEnabled() {
		t = t.BorderStyle(styleBorder)
	}
	return t.Render()
}

// PrintList prints a page of records and the total match count.
func (c *CLIFormatter) PrintList(rows []*model.Timesheet, count int) {
	if len(rows) == 0 {
		if count > 0 {
			c.Muted(fmt.Sprintf("No timesheets on this page (%d total).", count))
		} else {
			c.Muted("No timesheets found.")
		}
		return
	}

	c.Println(c.RenderTable(rows))

	total := 0
	for _, ts := range rows {
		total += ts.TiempoMinutos
	}
	c.Muted(fmt.Sprintf("Showing %d of %d, %s total", len(rows), count, parser.FormatHours(total)))
}

// PrintPlain prints records as tab-separated lines without decoration.
func (c *CLIFormatter) PrintPlain(rows []*model.Timesheet) {
	for _, ts := range rows {
		c.Println(strings.Join(TableRow(ts), "\t"))
	}
}
