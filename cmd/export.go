package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write matching entries as a PF CSV file",
	Long: `Write every entry matching the filters as a PF "Plantilla Registro de
Tiempos" CSV file in the export directory.

The file is named PF_PlantillaRegTiempos_<YYYYMM>_<legajo|todos>.csv, where
YYYYMM is the month of --from (the current month without it). An existing
file is never overwritten: _2, _3 and so on are appended instead.

Examples:
  pfsheet export --from 2025-09-01 --to 2025-09-30
  pfsheet export --from 2025-09-01 --to 2025-09-30 --legajo 1234
  pfsheet export --legajo 1234 -f json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().Bool("stdout", false, "Also print the file content")
	rootCmd.AddCommand(exportCmd)
}

// runExport handles the export command.
func runExport(cmd *cobra.Command, args []string) error {
	artifact, err := ctx.Exporter.Export(cmd.Context(), filterFromFlags(cmd))
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(artifact)
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		ctx.Formatter.Print(artifact.Content)
	}
	if ctx.IsPlain() {
		ctx.Formatter.Println(artifact.Path)
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Exported %d timesheets to %s", artifact.Count, artifact.Filename))
	cli.Field("Path", artifact.Path)
	cli.Field("ID", artifact.ID)
	return nil
}
