package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tenderlist/internal/admin"
	"github.com/mesh-intelligence/tenderlist/internal/csvstore"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// errSaveFailed reports a save where at least one table was not written.
var errSaveFailed = errors.New("save failed")

func newAdminCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Edit the reference tables",
		Long: "Show and edit the parameters, circulars, policy and lists tables.\n" +
			"Every write backs up the current file first.\n\n" +
			"Valid table names: " + validTableNamesStr,
	}
	cmd.AddCommand(newAdminShowCmd(rt))
	cmd.AddCommand(newAdminEditCmd(rt))
	cmd.AddCommand(newAdminDeleteCmd(rt))
	cmd.AddCommand(newAdminSaveCmd(rt))
	cmd.AddCommand(newAdminBackupsCmd(rt))
	cmd.AddCommand(newAdminRestoreCmd(rt))
	return cmd
}

func newAdminShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <table>",
		Short: "Display a table with its row labels",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTable(args[0])
			if err != nil {
				return err
			}
			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			view := admin.ViewRows(a.Store.Load(id))
			if rt.jsonMode {
				return printJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d rows): %s\n", id, len(view.Rows), strings.Join(view.Header, ", "))
			for _, r := range view.Rows {
				fmt.Fprintln(out, r.Label)
			}
			return nil
		},
	}
}

func newAdminEditCmd(rt *runtime) *cobra.Command {
	var (
		file   string
		labels []string
	)
	cmd := &cobra.Command{
		Use:   "edit <table> --file <edited.csv>",
		Short: "Replace a table with an edited CSV file",
		Long: `Replace a table with an edited copy, then back up and save it.

The parameters table is edited as its Parameter and Help columns; each
Parameter keeps the Value stored under the same name. --delete removes rows of
the edited table by their "<index>: ..." label before saving.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTable(args[0])
			if err != nil {
				return err
			}
			if file == "" {
				return usagef("%s: --file is required", cmd.CommandPath())
			}
			rows, err := csvstore.DecodeCSV(id, file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			session := admin.NewSession(a.Store.Snapshot())
			if err := session.ReplaceTable(rows); err != nil {
				return err
			}
			if len(labels) > 0 {
				if _, err := session.DeleteLabels(id, labels); err != nil {
					return err
				}
			}
			return saveSession(cmd, rt, a.Editor, session)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "edited CSV file")
	cmd.Flags().StringArrayVar(&labels, "delete", nil, "row label to delete from the edited table (repeatable)")
	return cmd
}

func newAdminDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <label>...",
		Short: "Delete rows from a stored table by label",
		Long: `Delete rows by the "<index>: ..." labels shown by "admin show". Labels that
name no row are ignored.`,
		Args: minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTable(args[0])
			if err != nil {
				return err
			}
			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			report, err := a.Editor.DeleteRows(cmd.Context(), id, args[1:])
			if perr := printReport(cmd, rt, report); perr != nil {
				return perr
			}
			return err
		},
	}
}

func newAdminSaveCmd(rt *runtime) *cobra.Command {
	files := make(map[types.TableID]*string, len(types.StandardTables))
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save several edited tables at once",
		Long: `Save edited CSV files for any of the four tables. Tables are written in the
order circulars, lists, parameters, policy; a failed table does not stop the
others and tables already written stay written.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var edited []types.Rows
			for _, id := range types.StandardTables {
				path := *files[id]
				if path == "" {
					continue
				}
				rows, err := csvstore.DecodeCSV(id, path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				edited = append(edited, rows)
			}
			if len(edited) == 0 {
				return usagef("%s: name at least one edited table file", cmd.CommandPath())
			}

			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			session := admin.NewSession(a.Store.Snapshot())
			for _, rows := range edited {
				if err := session.ReplaceTable(rows); err != nil {
					return err
				}
			}
			return saveSession(cmd, rt, a.Editor, session)
		},
	}
	for _, id := range types.StandardTables {
		files[id] = cmd.Flags().String(string(id), "", "edited "+id.FileName())
	}
	return cmd
}

func saveSession(cmd *cobra.Command, rt *runtime, editor *admin.Editor, session *admin.Session) error {
	report, err := editor.SaveSession(cmd.Context(), session)
	if perr := printReport(cmd, rt, report); perr != nil {
		return perr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}
	return nil
}

func newAdminBackupsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backups, newest first",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			snaps, err := a.Backups.List()
			if err != nil {
				return err
			}
			if rt.jsonMode {
				if snaps == nil {
					return printJSON(cmd, []any{})
				}
				return printJSON(cmd, snaps)
			}
			out := cmd.OutOrStdout()
			for _, s := range snaps {
				fmt.Fprintf(out, "%s  %s\n", s.Stamp, strings.Join(s.Files, " "))
			}
			return nil
		},
	}
}

func newAdminRestoreCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <stamp> <table>",
		Short: "Put a backed-up table back in place",
		Long:  "Restore a table from a backup. The current file is backed up first.",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTable(args[1])
			if err != nil {
				return err
			}
			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			safety, err := a.Restore(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			if rt.jsonMode {
				return printJSON(cmd, map[string]string{"table": string(id), "stamp": args[0], "backup": safety})
			}
			out := cmd.OutOrStdout()
			if safety != "" {
				fmt.Fprintf(out, "backup: %s\n", safety)
			}
			fmt.Fprintf(out, "restored %s from %s\n", id, args[0])
			return nil
		},
	}
}
