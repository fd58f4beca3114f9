package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/output"
	"github.com/manav03panchal/pfsheet/internal/parser"
)

// fieldsCmd represents the fields command.
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Describe the timesheet fields and accepted formats",
	Long: `Describe the timesheet fields, their command-line flags, the accepted
date and duration forms and the column order of an export row.

Examples:
  pfsheet fields
  pfsheet fields -f json`,
	Args: cobra.NoArgs,
	RunE: runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

// runFields handles the fields command. It runs without opening the store.
func runFields(cmd *cobra.Command, args []string) error {
	f := newFormatter(cmd)
	if f.IsJSON() {
		return f.JSON(output.NewFieldsResponse())
	}

	doc := fieldsMarkdown()
	if !f.IsColorEnabled() {
		f.Print(doc)
		return nil
	}

	rendered, err := renderMarkdown(doc)
	if err != nil {
		return err
	}
	f.Print(rendered)
	return nil
}

// flagFor returns the create flag bound to field, or "".
func flagFor(field string) string {
	for _, f := range inputFlags {
		if f.field == field {
			return "--" + f.flag
		}
	}
	return ""
}

// fieldsMarkdown builds the field reference as a markdown document.
func fieldsMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# Timesheet fields\n\n")

	sb.WriteString("## Required\n\n| Field | Flag |\n|---|---|\n")
	for _, name := range model.RequiredFields {
		fmt.Fprintf(&sb, "| `%s` | `%s` |\n", name, flagFor(name))
	}

	sb.WriteString("\n## Optional\n\n| Field | Flag |\n|---|---|\n")
	for _, name := range model.OptionalFields {
		fmt.Fprintf(&sb, "| `%s` | `%s` |\n", name, flagFor(name))
	}

	sb.WriteString("\n## Dates\n\n")
	for _, ex := range parser.DateExamples {
		fmt.Fprintf(&sb, "- `%s`\n", ex)
	}

	sb.WriteString("\n## Durations\n\nAt most 24 hours per entry.\n\n")
	for _, ex := range parser.DurationExamples {
		fmt.Fprintf(&sb, "- `%s`\n", ex)
	}

	sb.WriteString("\n## Export column order\n\n")
	for i, name := range model.ExportFields {
		fmt.Fprintf(&sb, "%d. `%s`\n", i+1, name)
	}
	return sb.String()
}

// renderMarkdown renders markdown for the terminal.
func renderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
