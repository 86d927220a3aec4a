package main

import (
	"github.com/spf13/cobra"

	"nga/internal/export"
	"nga/internal/ng"
	"nga/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show [analysis.json]",
	Short: "Summarize a saved analysis document",
	Long: `Show prints the project summary of a JSON analysis document written by
"nga analyze", compressed or not. Without an argument the configured output
path is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	path := s.cfg.Output.Path
	if len(args) == 1 {
		path = args[0]
	}
	doc, err := export.ReadJSON(path)
	if err != nil {
		return err
	}

	return report.WriteSummary(cmd.OutOrStdout(), documentSummary(doc), report.Options{
		Verbose:    verbosity > 0,
		NoColor:    noColor,
		HideTiming: true,
	})
}

// documentSummary rebuilds per-project element counts from a document.
func documentSummary(doc *export.Document) report.Summary {
	counts := make(map[string]map[ng.Kind]int)
	for _, e := range doc.Results.Elements() {
		pkg := e.Base().PackageName
		if counts[pkg] == nil {
			counts[pkg] = make(map[ng.Kind]int)
		}
		counts[pkg][e.Kind()]++
	}

	s := report.Summary{
		WorkspaceRoot: doc.WorkspaceRoot,
		Nodes:         len(doc.Graph.Nodes),
		Edges:         len(doc.Graph.Edges),
		Cycles:        doc.Graph.Cycles,
		Warnings:      doc.Warnings,
	}
	for _, p := range doc.Projects {
		s.Projects = append(s.Projects, report.ProjectSummary{
			Name:   p.Name,
			Root:   p.Root,
			Files:  p.Files,
			Counts: counts[p.Name],
		})
	}
	return s
}
