package main

import (
	"github.com/spf13/cobra"
)

var (
	depsReverse    bool
	depsTransitive bool
	depsRun        string
	depsDB         string
	depsFormat     string
)

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "Show the dependencies of a file from the latest analysis",
	Long: `Deps queries the graph store written by "nga analyze".

By default it lists the files the given file imports. --reverse lists the
files importing it instead; --transitive follows the graph to the end.

Examples:
  nga deps apps/shell/src/app/app.component.ts
  nga deps libs/ui/src/index.ts --reverse --transitive
  nga deps libs/ui/src/index.ts --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVarP(&depsReverse, "reverse", "r", false, "List dependents instead of dependencies")
	depsCmd.Flags().BoolVar(&depsTransitive, "transitive", false, "Follow the graph transitively")
	depsCmd.Flags().StringVar(&depsRun, "run", "", "Query this run instead of the latest")
	depsCmd.Flags().StringVar(&depsDB, "db", "", "Graph store path (default from config)")
	depsCmd.Flags().StringVar(&depsFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := newContext()
	defer cancel()

	store, runID, err := openStore(ctx, s, storePath(s, depsDB), depsRun)
	if err != nil {
		return err
	}
	defer store.Close()

	file := storeFile(s.root, args[0])
	var files []string
	switch {
	case depsReverse && depsTransitive:
		files, err = store.AllDependents(ctx, runID, file)
	case depsReverse:
		files, err = store.Dependents(ctx, runID, file)
	case depsTransitive:
		files, err = store.AllDependencies(ctx, runID, file)
	default:
		files, err = store.Dependencies(ctx, runID, file)
	}
	if err != nil {
		return err
	}

	resp := &DepsResponse{
		RunID:      runID,
		File:       file,
		Reverse:    depsReverse,
		Transitive: depsTransitive,
		Files:      nonNilStrings(files),
	}
	out, err := FormatResponse(resp, OutputFormat(depsFormat))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write([]byte(out + "\n"))
	return err
}
