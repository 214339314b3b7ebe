package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tenderlist/pkg/tenderlist"
)

const modulePath = "github.com/mesh-intelligence/tenderlist"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tenderlist version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tenderlist v%s\nmodule: %s\n", tenderlist.Version, modulePath)
			return nil
		},
	}
}
