package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tenderlist/internal/checklist"
)

// checklistFlag binds a command-line flag to a checklist field.
type checklistFlag struct {
	name  string
	field string
}

var checklistFlags = []checklistFlag{
	{"tender-id", checklist.FieldTenderID},
	{"description", checklist.FieldDescription},
	{"department", checklist.FieldDepartment},
	{"tender-type", checklist.FieldTenderType},
	{"platform", checklist.FieldPlatform},
	{"category", checklist.FieldCategory},
	{"criticality", checklist.FieldCriticality},
	{"standard-template", checklist.FieldStandardTemplate},
	{"reverse-auction", checklist.FieldReverseAuction},
	{"estimate", checklist.FieldEstimate},
	{"years", checklist.FieldYears},
}

func newChecklistCmd(rt *runtime) *cobra.Command {
	values := make(map[string]*string, len(checklistFlags))

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Fill in the tender checklist",
		Long: `Compute the annualized value and work-order breakpoints for a tender and
show the standing guidance. Empty selections take the first option of their list.

Example:
  tenderlist checklist --tender-id T-104 --category AMC --estimate 12,00,000 --years 3`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := make(map[string]string, len(values))
			for field, v := range values {
				in[field] = *v
			}
			inputs, err := checklist.ParseInputs(in)
			if err != nil {
				return err
			}

			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			sheet, err := a.Checklist(inputs)
			if err != nil {
				return err
			}
			if rt.jsonMode {
				return printJSON(cmd, sheet)
			}
			printSheet(cmd, sheet)
			return nil
		},
	}

	for _, f := range checklistFlags {
		values[f.field] = cmd.Flags().String(f.name, "", f.field)
	}

	cmd.AddCommand(newOptionsCmd(rt))
	cmd.AddCommand(newGuideCmd(rt))
	return cmd
}

func printSheet(cmd *cobra.Command, sheet checklist.Sheet) {
	out := cmd.OutOrStdout()
	in := sheet.Inputs
	rows := [][2]string{
		{checklist.FieldTenderID, in.TenderID},
		{checklist.FieldDescription, in.Description},
		{checklist.FieldDepartment, in.Department},
		{checklist.FieldTenderType, in.TenderType},
		{checklist.FieldPlatform, in.Platform},
		{checklist.FieldCategory, in.Category},
		{checklist.FieldCriticality, in.Criticality},
		{checklist.FieldStandardTemplate, in.StandardTemplate},
		{checklist.FieldReverseAuction, in.ReverseAuction},
		{checklist.FieldEstimate, checklist.FormatAmount(in.Estimate)},
		{checklist.FieldYears, fmt.Sprint(in.Years)},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-24s %s\n", r[0]+":", r[1])
	}

	fmt.Fprintln(out, "\nSummary")
	for _, l := range sheet.Lines {
		fmt.Fprintf(out, "  %-18s %s\n", l.Label+":", l.Formatted)
	}

	for _, g := range sheet.Guidance {
		if g.Help == "" && g.Circular == nil {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", g.Parameter)
		if g.Help != "" {
			fmt.Fprintf(out, "  %s\n", g.Help)
		}
		if g.Circular != nil {
			fmt.Fprintf(out, "  Circular: %s (%s), effective %s\n", g.Circular.Title, g.Circular.Link, g.Circular.EffectiveFrom)
		}
	}
}

func newOptionsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "options [list]",
		Short: "Show the options of a list, or the list names",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usagef("%s: expected at most 1 argument, got %d", cmd.CommandPath(), len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			var values []string
			if len(args) == 0 {
				values, err = a.ListNames()
			} else {
				values, err = a.Options(args[0])
			}
			if err != nil {
				return err
			}
			if rt.jsonMode {
				return printJSON(cmd, values)
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newGuideCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "guide <parameter>",
		Short: "Show the help text and active circular for a parameter",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(cmd.Context(), "")
			if err != nil {
				return err
			}
			g, err := a.Guide(args[0])
			if err != nil {
				return err
			}
			if rt.jsonMode {
				return printJSON(cmd, g)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, g.Help)
			if g.Circular != nil {
				fmt.Fprintf(out, "Circular: %s\nLink: %s\nEffective from: %s\n",
					g.Circular.Title, g.Circular.Link, g.Circular.EffectiveFrom)
			}
			return nil
		},
	}
}
