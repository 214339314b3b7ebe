package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

func newInitCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the config directory",
		Long: "Create the config directory and config.yaml, move table files left in the\n" +
			"legacy location into it, and write the built-in content for missing tables.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, rt)
		},
	}
}

type initResult struct {
	ConfigDir     string          `json:"config_dir"`
	ConfigWritten bool            `json:"config_written"`
	Migrated      []string        `json:"migrated"`
	Seeded        []types.TableID `json:"seeded"`
	Warnings      []string        `json:"warnings"`
}

func runInit(cmd *cobra.Command, rt *runtime) error {
	written, err := writeConfigIfMissing(filepath.Join(rt.resolvedConfigDir, configFileExt))
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	a, err := rt.open(cmd.Context(), "")
	if err != nil {
		return err
	}
	seeded, err := a.Store.Seed()
	if err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}

	res := initResult{
		ConfigDir:     rt.resolvedConfigDir,
		ConfigWritten: written,
		Migrated:      append([]string{}, a.Migration.Moved...),
		Seeded:        append([]types.TableID{}, seeded...),
		Warnings:      []string{},
	}
	for _, w := range a.Migration.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}

	if rt.jsonMode {
		return printJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	for _, name := range res.Migrated {
		fmt.Fprintf(out, "moved %s into %s\n", name, res.ConfigDir)
	}
	for _, id := range res.Seeded {
		fmt.Fprintf(out, "wrote default %s\n", id.FileName())
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	fmt.Fprintf(out, "Config directory ready: %s\n", res.ConfigDir)
	return nil
}
