package main

import (
	"github.com/spf13/cobra"

	"nga/internal/version"
)

var (
	workspaceDir string
	verbosity    int
	quiet        bool
	logLevel     string
	logFormat    string
	logFile      string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "nga",
	Short: "nga - Nx/Angular workspace analyzer",
	Long: `nga resolves the TypeScript imports of every project in an Nx workspace,
classifies Angular components, directives, pipes, modules and services, and
builds the file dependency graph of the workspace.

The graph of the latest run is kept in a SQLite store so that dependencies,
dependents and cycles can be queried without re-analyzing.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("nga version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&workspaceDir, "dir", "d", ".", "Workspace root directory")
	flags.CountVarP(&verbosity, "verbose", "v", "Verbose output (repeat for debug logs)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.StringVar(&logFormat, "log-format", "", "Log format: human or json (default from config)")
	flags.StringVar(&logFile, "log-file", "", "Also write JSON logs at debug level to this file")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
}
