package main

import (
	"github.com/spf13/cobra"
)

var (
	cyclesRun    string
	cyclesDB     string
	cyclesFormat string
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "List circular dependencies found by the latest analysis",
	Args:  cobra.NoArgs,
	RunE:  runCycles,
}

func init() {
	cyclesCmd.Flags().StringVar(&cyclesRun, "run", "", "Query this run instead of the latest")
	cyclesCmd.Flags().StringVar(&cyclesDB, "db", "", "Graph store path (default from config)")
	cyclesCmd.Flags().StringVar(&cyclesFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(cyclesCmd)
}

func runCycles(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := newContext()
	defer cancel()

	store, runID, err := openStore(ctx, s, storePath(s, cyclesDB), cyclesRun)
	if err != nil {
		return err
	}
	defer store.Close()

	cycles, err := store.Cycles(ctx, runID)
	if err != nil {
		return err
	}
	if cycles == nil {
		cycles = [][]string{}
	}

	out, err := FormatResponse(&CyclesResponse{RunID: runID, Cycles: cycles}, OutputFormat(cyclesFormat))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write([]byte(out + "\n"))
	return err
}
