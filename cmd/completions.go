package cmd

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
	"github.com/manav03panchal/pfsheet/internal/storage"
)

// completionRows loads every stored record for dynamic completion.
func completionRows() []*model.Timesheet {
	if ctx == nil || ctx.Repo == nil {
		return nil
	}
	res, err := ctx.Repo.Query(context.Background(), storage.Filter{})
	if err != nil {
		return nil
	}
	return res.Rows
}

// completeLegajos completes employee file numbers, described by name.
func completeLegajos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make(map[string]string)
	for _, ts := range completionRows() {
		if !strings.HasPrefix(ts.LegajoPersonal, toComplete) {
			continue
		}
		if names[ts.LegajoPersonal] == "" {
			names[ts.LegajoPersonal] = ts.NombrePersonal
		}
	}

	completions := make([]string, 0, len(names))
	for legajo, name := range names {
		if name != "" {
			completions = append(completions, legajo+"\t"+name)
		} else {
			completions = append(completions, legajo)
		}
	}
	sort.Strings(completions)
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeIDs completes record ids, described by date, legajo and duration.
func completeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, ts := range completionRows() {
		id := strconv.FormatInt(ts.ID, 10)
		if !strings.HasPrefix(id, toComplete) {
			continue
		}
		desc := parser.FormatDate(ts.Fecha) + " " + ts.LegajoPersonal + " " + parser.FormatDuration(ts.TiempoMinutos)
		completions = append(completions, id+"\t"+desc)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
