package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/output"
)

// inputFlag binds a command-line flag to an input field.
type inputFlag struct {
	flag  string
	field string
	usage string
}

// inputFlags lists the field flags shared by create and update.
var inputFlags = []inputFlag{
	{"legajo", model.FieldLegajoPersonal, "Employee file number (legajo)"},
	{"nombre", model.FieldNombrePersonal, "Employee name"},
	{"fecha", model.FieldFecha, "Work date: YYYY-MM-DD, DD/MM/YYYY or Unix timestamp"},
	{"cliente", model.FieldCliente, "Client code"},
	{"nombre-cliente", model.FieldNombreCliente, "Client name"},
	{"division", model.FieldContratoDivision, "Contract division code"},
	{"nombre-division", model.FieldNombreDivision, "Contract division name"},
	{"tipo", model.FieldContratoTipo, "Contract type code"},
	{"nombre-tipo", model.FieldNombreTipo, "Contract type name"},
	{"numero", model.FieldContratoNumero, "Contract number"},
	{"nombre-contrato", model.FieldNombreContrato, "Contract name"},
	{"tarea", model.FieldTarea, "Task code"},
	{"nombre-tarea", model.FieldNombreTarea, "Task name"},
	{"tiempo", model.FieldTiempo, "Time worked: HH:MM, minutes (90) or hours (1.5h)"},
	{"observaciones", model.FieldObservaciones, "Free-text notes"},
	{"categoria", model.FieldCategoria, "Category"},
}

// createCmd represents the create command.
var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"add", "new"},
	Short:   "Record a timesheet entry",
	Long: `Record a timesheet entry.

Required: --legajo --fecha --cliente --division --tipo --numero --tarea --tiempo.
Fields can also be read as a JSON object with --input (a path, or - for stdin);
flags given alongside override the JSON values.

Examples:
  pfsheet create --legajo 1234 --nombre Ana --fecha 2025-09-05 --cliente 1 --division IOT --tipo 7 --numero 1456 --tarea ATC --tiempo 1.5h
  pfsheet create --legajo 1234 --fecha 05/09/2025 --cliente 1 --division IOT --tipo 7 --numero 1456 --tarea ATC --tiempo 01:30
  cat entry.json | pfsheet create --input - -f json`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

// getCmd represents the get command.
var getCmd = &cobra.Command{
	Use:     "get ID",
	Aliases: []string{"show"},
	Short:   "Show one timesheet entry",
	Long: `Show one timesheet entry by id.

Examples:
  pfsheet get 3
  pfsheet get 3 -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// updateCmd represents the update command.
var updateCmd = &cobra.Command{
	Use:     "update ID",
	Aliases: []string{"edit"},
	Short:   "Change fields of a timesheet entry",
	Long: `Change fields of a timesheet entry. Only the given fields change.

--tiempo-minutos sets the duration as whole minutes; --tiempo wins when both are given.

Examples:
  pfsheet update 3 --tiempo 02:00
  pfsheet update 3 --tiempo-minutos 45 --observaciones "guardia"
  echo '{"fecha":"2025-09-06"}' | pfsheet update 3 --input -`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a timesheet entry",
	Long: `Delete a timesheet entry. Asks for confirmation on a terminal unless --force is given.

Examples:
  pfsheet delete 3
  pfsheet delete 3 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		addInputFlags(c)
		c.Flags().String("input", "", "Read fields from a JSON file, or - for stdin")
		_ = c.RegisterFlagCompletionFunc("legajo", completeLegajos)
	}
	updateCmd.Flags().Int("tiempo-minutos", 0, "Time worked in whole minutes")
	deleteCmd.Flags().Bool("force", false, "Delete without confirmation")

	for _, c := range []*cobra.Command{getCmd, updateCmd, deleteCmd} {
		c.ValidArgsFunction = completeIDs
	}

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// addInputFlags registers one string flag per input field.
func addInputFlags(c *cobra.Command) {
	for _, f := range inputFlags {
		c.Flags().String(f.flag, "", f.usage)
	}
}

// readInput collects the fields given to a create or update command.
func readInput(cmd *cobra.Command) (model.Input, error) {
	in := model.Input{}

	if src, _ := cmd.Flags().GetString("input"); src != "" {
		if err := decodeInput(cmd, src, in); err != nil {
			return nil, err
		}
	}

	for _, f := range inputFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		in[f.field] = v
	}
	if cmd.Flags().Lookup("tiempo-minutos") != nil && cmd.Flags().Changed("tiempo-minutos") {
		v, _ := cmd.Flags().GetInt("tiempo-minutos")
		in[model.FieldTiempoMinutos] = v
	}
	return in, nil
}

// decodeInput reads a JSON object of fields from src into in.
func decodeInput(cmd *cobra.Command, src string, in model.Input) error {
	var r io.Reader
	if src == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(src)
		if err != nil {
			return errors.NewUserErrorWithField("input", src, "cannot open input file", "Pass a readable JSON file, or - for stdin.")
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return errors.NewUserErrorWithField("input", src,
			fmt.Sprintf("input is not a JSON object: %v", err),
			`Pass an object such as {"legajo_personal": "1234", "fecha": "2025-09-05", ...}.`)
	}
	return nil
}

// parseID reads a record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewUserErrorWithField("id", arg, "invalid timesheet id", "Use the numeric id shown by 'pfsheet list'.")
	}
	return id, nil
}

// printRow prints a single record in the selected format; resp is the JSON form.
func printRow(row *model.Timesheet, resp any, message string) error {
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(resp)
	}

	cli := ctx.CLIFormatter()
	if ctx.IsPlain() {
		cli.PrintPlain([]*model.Timesheet{row})
		return nil
	}
	if message != "" {
		cli.Success(message)
	}
	cli.PrintTimesheet(row)
	return nil
}

// runCreate handles the create command.
func runCreate(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd)
	if err != nil {
		return err
	}

	row, err := ctx.Repo.Create(cmd.Context(), in)
	if err != nil {
		return err
	}

	resp := &output.CreatedResponse{Created: true, Row: output.NewRowOutput(row)}
	return printRow(row, resp, fmt.Sprintf("Created timesheet %d", row.ID))
}

// runGet handles the get command.
func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	row, err := ctx.Repo.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	resp := &output.FoundResponse{Found: true, Row: output.NewRowOutput(row)}
	return printRow(row, resp, "")
}

// runUpdate handles the update command.
func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	in, err := readInput(cmd)
	if err != nil {
		return err
	}

	row, err := ctx.Repo.Update(cmd.Context(), id, in)
	if err != nil {
		return err
	}

	resp := &output.UpdatedResponse{Updated: true, Row: output.NewRowOutput(row)}
	return printRow(row, resp, fmt.Sprintf("Updated timesheet %d", row.ID))
}

// runDelete handles the delete command.
func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force && !ctx.IsJSON() && term.IsTerminal(int(os.Stdin.Fd())) {
		row, err := ctx.Repo.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		cli := ctx.CLIFormatter()
		cli.PrintTimesheet(row)
		cli.Println("")

		confirmed, err := promptConfirmation(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete this timesheet? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			cli.Muted("Cancelled")
			return nil
		}
	}

	if err := ctx.Repo.Delete(cmd.Context(), id); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(&output.DeletedResponse{Deleted: true, ID: id})
	}
	if ctx.IsPlain() {
		ctx.Formatter.Println(id)
		return nil
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Deleted timesheet %d", id))
	return nil
}

// promptConfirmation prompts the user for a yes/no confirmation.
func promptConfirmation(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	var response string
	_, err := fmt.Fscanln(in, &response)
	if err != nil {
		// Empty input (just Enter) means no
		return false, nil
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
