package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/pfsheet/internal/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Manage application configuration",
	Long: `View and create the configuration file.

Settings are read from the config file, then overridden by PFSHEET_DATABASE,
PFSHEET_BACKEND, PFSHEET_EXPORT_DIR, PFSHEET_TEMPLATE, PFSHEET_TIMEZONE,
PFSHEET_DEFAULT_LIMIT and PFSHEET_LOG_LEVEL.

Examples:
  pfsheet config show
  pfsheet config path
  pfsheet config init`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cfgPath)
	},
}

// configInitCmd writes a config file holding the defaults.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow handles the config show command.
func runConfigShow(cmd *cobra.Command, args []string) error {
	if flagFormat == "json" {
		f := newFormatter(cmd)
		return f.JSON(map[string]any{
			"path":          cfgPath,
			"backend":       cfg.Storage.Backend,
			"database":      cfg.DatabasePath(),
			"export_dir":    cfg.ExportDir(),
			"template":      cfg.Export.Template,
			"timezone":      cfg.Dates.Timezone,
			"default_limit": cfg.Query.DefaultLimit,
			"log_level":     cfg.Log.Level,
		})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", cfgPath)
	fmt.Fprintf(out, "# database: %s\n# export dir: %s\n", cfg.DatabasePath(), cfg.ExportDir())
	_, err = out.Write(data)
	return err
}

// runConfigInit handles the config init command.
func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", cfgPath)
	}

	if err := config.Save(cfgPath, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgPath)
	return nil
}
