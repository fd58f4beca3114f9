package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/pfsheet/internal/output"
	"github.com/manav03panchal/pfsheet/internal/storage"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "query"},
	Short:   "List timesheet entries",
	Long: `List timesheet entries ordered by date, then by id.

Date bounds are inclusive and accept any date form create accepts.
--limit 0 lists every match.

Examples:
  pfsheet list
  pfsheet list --from 2025-09-01 --to 2025-09-30
  pfsheet list --legajo 1234 --limit 20 --offset 20
  pfsheet list --from 1756944000 -f json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().Int("limit", 0, "Maximum entries to show (default from config, 0 for all)")
	listCmd.Flags().Int("offset", 0, "Number of matching entries to skip")
	rootCmd.AddCommand(listCmd)
}

// addFilterFlags registers the date range and legajo flags.
func addFilterFlags(c *cobra.Command) {
	c.Flags().String("from", "", "First date to include")
	c.Flags().String("to", "", "Last date to include")
	c.Flags().String("legajo", "", "Only entries of this employee")
	_ = c.RegisterFlagCompletionFunc("legajo", completeLegajos)
}

// filterFromFlags builds a filter from the flags of c. Paging is left unset.
func filterFromFlags(c *cobra.Command) storage.Filter {
	from, _ := c.Flags().GetString("from")
	to, _ := c.Flags().GetString("to")
	legajo, _ := c.Flags().GetString("legajo")
	return storage.Filter{DateFrom: from, DateTo: to, Legajo: legajo}
}

// runList handles the list command.
func runList(cmd *cobra.Command, args []string) error {
	f := filterFromFlags(cmd)
	f.Limit = ctx.DefaultLimit()
	if cmd.Flags().Changed("limit") {
		f.Limit, _ = cmd.Flags().GetInt("limit")
	}
	f.Offset, _ = cmd.Flags().GetInt("offset")

	res, err := ctx.Repo.Query(cmd.Context(), f)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(&output.ListResponse{
			Rows:  output.NewRowOutputs(res.Rows),
			Count: res.Count,
		})
	}

	cli := ctx.CLIFormatter()
	if ctx.IsPlain() {
		cli.PrintPlain(res.Rows)
		return nil
	}
	cli.PrintList(res.Rows, res.Count)
	return nil
}
