// Package cmd provides the CLI commands for pfsheet.
//
// Copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/pfsheet/internal/config"
	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/logging"
	"github.com/manav03panchal/pfsheet/internal/output"
	"github.com/manav03panchal/pfsheet/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagConfig string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// cfg is the loaded configuration and cfgPath the file it was read from.
var (
	cfg     *config.Config
	cfgPath string
)

// noRuntime lists commands that never touch the store.
var noRuntime = map[string]bool{
	"completion": true,
	"help":       true,
	"version":    true,
	"fields":     true,
}

// needsRuntime reports whether cmd opens the store.
func needsRuntime(cmd *cobra.Command) bool {
	if noRuntime[cmd.Name()] {
		return false
	}
	// Config commands work without a usable store
	return cmd.Name() != "config" && (cmd.Parent() == nil || cmd.Parent().Name() != "config")
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pfsheet",
	Short: "Record timesheets and export them as PF CSV files",
	Long: `pfsheet records employee timesheet entries, lists them by date range
and employee, and writes them as semicolon separated CSV files in the PF
"Plantilla Registro de Tiempos" layout.

Examples:
  pfsheet create --legajo 1234 --fecha 2025-09-05 --cliente 1 --division IOT --tipo 7 --numero 1456 --tarea ATC --tiempo 1.5h
  pfsheet list --from 2025-09-01 --to 2025-09-30
  pfsheet export --from 2025-09-01 --to 2025-09-30 --legajo 1234
  pfsheet browse`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		cfgPath = flagConfig
		if cfgPath == "" {
			cfgPath = config.DefaultPath()
		}
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		if flagDebug {
			logging.InitDebug()
		} else {
			logging.Init(cfg.LoggingConfig())
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		reqCtx := logging.NewRequestContext(parent)
		cmd.SetContext(reqCtx)
		logging.DebugContext(reqCtx, "command started", "command", cmd.CommandPath(), "config", cfgPath)

		if !needsRuntime(cmd) {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.Config = cfg
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}
		ctx.Formatter.Writer = cmd.OutOrStdout()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			err := ctx.Close()
			ctx = nil
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Errors are reported here, as JSON when --format json is in effect.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		reportError(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), err)
	}
	if ctx != nil {
		_ = ctx.Close()
		ctx = nil
	}
	return err
}

// newFormatter builds a formatter from the global flags for commands that
// run without a runtime context. Flag values were checked before RunE.
func newFormatter(cmd *cobra.Command) *output.Formatter {
	f := output.NewFormatter()
	f.Writer = cmd.OutOrStdout()
	if format, err := output.ParseFormat(flagFormat); err == nil {
		f.Format = format
	}
	if colorMode, err := output.ParseColorMode(flagColor); err == nil {
		f.ColorMode = colorMode
	}
	return f
}

// reportError prints err the way the selected output format expects.
func reportError(stdout, stderr io.Writer, err error) {
	if flagFormat == string(output.FormatJSON) {
		f := output.NewFormatter()
		f.Writer = stdout
		f.Format = output.FormatJSON
		_ = f.JSON(output.NewErrorResponse(err))
		return
	}

	switch {
	case flagDebug:
		fmt.Fprint(stderr, errors.FormatDebugError(err))
	case errors.IsUserCategory(err):
		fmt.Fprintln(stderr, "Error: "+strings.TrimRight(errors.FormatUserError(err), "\n"))
	default:
		fmt.Fprintln(stderr, "Error: "+errors.FormatByCategory(err))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default: $XDG_CONFIG_HOME/pfsheet/config.yaml)")

	rootCmd.AddCommand(versionCmd)

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"create": {
				Stdin: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "Timesheet fields as a JSON object, read when --input - is given",
				},
				Stdout: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "{created, row} with --format json",
				},
				Examples: []mtp.Example{
					{Description: "Create an entry from flags", Command: "pfsheet create --legajo 1234 --fecha 2025-09-05 --cliente 1 --division IOT --tipo 7 --numero 1456 --tarea ATC --tiempo 1.5h"},
					{Description: "Create an entry from JSON", Command: "echo '{\"legajo_personal\":\"1234\",...}' | pfsheet create --input - -f json"},
				},
			},
			"get": {
				Stdout: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "{found, row} with --format json",
				},
				Examples: []mtp.Example{
					{Description: "Show one entry", Command: "pfsheet get 3"},
				},
			},
			"update": {
				Stdin: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "Fields to change as a JSON object, read when --input - is given",
				},
				Examples: []mtp.Example{
					{Description: "Change the duration of an entry", Command: "pfsheet update 3 --tiempo 02:00"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete without confirmation", Command: "pfsheet delete 3 --force"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "{rows, count} with --format json; count is the total before paging",
				},
				Examples: []mtp.Example{
					{Description: "List one employee's September entries", Command: "pfsheet list --from 2025-09-01 --to 2025-09-30 --legajo 1234"},
				},
			},
			"export": {
				Stdout: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "{id, filename, saved_path, content, count} with --format json",
				},
				Examples: []mtp.Example{
					{Description: "Export every entry of September", Command: "pfsheet export --from 2025-09-01 --to 2025-09-30"},
				},
			},
			"fields": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Required and optional fields, export column order and accepted formats",
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("pfsheet %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
