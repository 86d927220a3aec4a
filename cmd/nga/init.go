package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nga/internal/config"
	ngaerrors "nga/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default nga configuration",
	Long:  "Creates .nga/config.json with the default configuration in the workspace root",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, err := filepath.Abs(workspaceDir)
	if err != nil {
		return ngaerrors.NewNgaError(ngaerrors.WorkspaceUnreadable, "cannot resolve workspace root", err, nil)
	}

	out := cmd.OutOrStdout()
	configPath := filepath.Join(root, ".nga", "config.json")
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		fmt.Fprintf(out, "nga already initialized.\nConfiguration at: %s\n", configPath)
		fmt.Fprintln(out, "\nRun 'nga init --force' to overwrite it.")
		return nil
	}

	if err := config.DefaultConfig().Save(root); err != nil {
		return ngaerrors.NewNgaError(ngaerrors.InternalError, "failed to write config file", err, nil)
	}

	fmt.Fprintf(out, "Configuration written to %s\n", configPath)
	return nil
}
