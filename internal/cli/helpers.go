package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tenderlist/internal/admin"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = func() string {
	names := make([]string, len(types.StandardTables))
	for i, id := range types.StandardTables {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}()

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no arguments", cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s: expected %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s: expected at least %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// parseTable resolves a table name given on the command line.
func parseTable(name string) (types.TableID, error) {
	id, err := types.ParseTableID(name)
	if err != nil {
		return "", fmt.Errorf("%w (valid: %s)", err, validTableNamesStr)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// printReport writes a save report. Backup warnings go to stderr.
func printReport(cmd *cobra.Command, rt *runtime, report *admin.SaveReport) error {
	if rt.jsonMode {
		return printJSON(cmd, report)
	}
	out := cmd.OutOrStdout()
	for _, p := range report.Backups {
		fmt.Fprintf(out, "backup: %s\n", p)
	}
	for _, id := range report.Saved {
		fmt.Fprintf(out, "saved: %s\n", id)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "failed: %s: %s\n", f.Table, f.Error)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if len(report.Saved) == 0 && len(report.Failed) == 0 {
		fmt.Fprintln(out, "nothing to save")
	}
	return nil
}
