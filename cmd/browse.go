package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/pfsheet/internal/tui"
)

// browseCmd represents the browse command.
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui", "b"},
	Short:   "Browse timesheet entries interactively",
	Long: `Open an interactive terminal browser over the matching entries.

Keyboard Controls:
  j/k, up/down   Move the selection
  n/p, h/l       Next and previous page
  enter          Show the selected entry
  esc            Close the entry view
  e              Export the filtered entries
  r              Reload
  q              Quit

Examples:
  pfsheet browse
  pfsheet browse --from 2025-09-01 --legajo 1234`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	addFilterFlags(browseCmd)
	browseCmd.Flags().Int("page-size", 15, "Entries per page")
	rootCmd.AddCommand(browseCmd)
}

// runBrowse handles the browse command.
func runBrowse(cmd *cobra.Command, args []string) error {
	f, err := ctx.Repo.CanonicalFilter(filterFromFlags(cmd))
	if err != nil {
		return err
	}
	pageSize, _ := cmd.Flags().GetInt("page-size")

	return tui.Run(tui.BrowserConfig{
		Repo:     ctx.Repo,
		Exporter: ctx.Exporter,
		Filter:   f,
		PageSize: pageSize,
	})
}
