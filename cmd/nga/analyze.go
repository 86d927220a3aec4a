package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"nga/internal/analysis"
	"nga/internal/config"
	"nga/internal/depgraph"
	"nga/internal/export"
	"nga/internal/report"
	"nga/internal/watcher"
)

var (
	analyzeCacheDuration      int
	analyzeOutput             string
	analyzeFormat             string
	analyzeProjects           string
	analyzeExcludeNodeModules bool
	analyzeTypeScriptOnly     bool
	analyzeChunkSize          int
	analyzeWorkers            int
	analyzeDB                 string
	analyzeNoDB               bool
	analyzeTiming             string
	analyzeWatch              bool
	analyzeDebounce           time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze every project of an Nx workspace",
	Long: `Analyze discovers the projects of the workspace, resolves the imports of
their TypeScript files concurrently, classifies Angular elements and writes
the analysis document.

The output format follows --format, else the output file extension.
A .zst suffix compresses the output.

Examples:
  nga analyze
  nga analyze -d ~/src/monorepo -p shell,ui
  nga analyze -o analysis.yaml.zst
  nga analyze -f scip -o index.scip --timing timing-analysis.json
  nga analyze --watch`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	defaults := config.DefaultConfig()
	flags := analyzeCmd.Flags()
	flags.IntVar(&analyzeCacheDuration, "cache-duration", defaults.Cache.ContentTtlSeconds, "File content cache duration in seconds (0 keeps files for the whole run)")
	flags.StringVarP(&analyzeOutput, "output", "o", defaults.Output.Path, "Output file for analysis results")
	flags.StringVarP(&analyzeFormat, "format", "f", "", "Output format: json, yaml, toml or scip")
	flags.StringVarP(&analyzeProjects, "projects", "p", "", "Only analyze these projects (comma separated)")
	flags.BoolVarP(&analyzeExcludeNodeModules, "exclude-node-modules", "n", defaults.Analysis.ExcludeNodeModules, "Exclude node_modules")
	flags.BoolVarP(&analyzeTypeScriptOnly, "typescript-only", "t", defaults.Analysis.TypeScriptOnly, "Only analyze .ts files")
	flags.IntVar(&analyzeChunkSize, "chunk-size", defaults.Analysis.ChunkSize, "Files per worker task")
	flags.IntVar(&analyzeWorkers, "workers", defaults.Analysis.Workers, "Concurrent workers (0 = number of CPUs)")
	flags.StringVar(&analyzeDB, "db", "", "Graph store path (default from config)")
	flags.BoolVar(&analyzeNoDB, "no-db", false, "Do not write the graph store")
	flags.StringVar(&analyzeTiming, "timing", "", "Write timing metrics as JSON to this file")
	flags.BoolVarP(&analyzeWatch, "watch", "w", false, "Re-run the analysis whenever source files change")
	flags.DurationVar(&analyzeDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before a watched change triggers a run")
	rootCmd.AddCommand(analyzeCmd)
}

// applyAnalyzeFlags copies explicitly set flags over the configuration.
func applyAnalyzeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("cache-duration") {
		cfg.Cache.ContentTtlSeconds = analyzeCacheDuration
	}
	if flags.Changed("output") {
		cfg.Output.Path = analyzeOutput
	}
	if flags.Changed("format") {
		cfg.Output.Format = analyzeFormat
	}
	if flags.Changed("projects") {
		cfg.Projects = splitList(analyzeProjects)
	}
	if flags.Changed("exclude-node-modules") {
		cfg.Analysis.ExcludeNodeModules = analyzeExcludeNodeModules
	}
	if flags.Changed("typescript-only") {
		cfg.Analysis.TypeScriptOnly = analyzeTypeScriptOnly
	}
	if flags.Changed("chunk-size") {
		cfg.Analysis.ChunkSize = analyzeChunkSize
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = analyzeWorkers
	}
	if flags.Changed("db") {
		cfg.Output.DBPath = analyzeDB
	}
	if flags.Changed("timing") {
		cfg.Output.TimingPath = analyzeTiming
	}
}

// outputFormat picks the explicit format, else the one implied by the path.
func outputFormat(cfg *config.Config, explicit bool) (export.Format, error) {
	if explicit || (cfg.Output.Format != "" && cfg.Output.Format != string(export.FormatJSON)) {
		return export.ParseFormat(cfg.Output.Format)
	}
	return export.FormatForPath(cfg.Output.Path), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	applyAnalyzeFlags(cmd.Flags(), s.cfg)
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	format, err := outputFormat(s.cfg, cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	if err := analyzeOnce(ctx, cmd, s, format); err != nil {
		return err
	}
	if !analyzeWatch {
		return nil
	}
	return watchAndAnalyze(ctx, cmd, s, format)
}

// analyzeOnce runs one full analysis and writes its outputs.
func analyzeOnce(ctx context.Context, cmd *cobra.Command, s *session, format export.Format) error {
	if verbosity > 0 {
		s.logger.Info("Starting analysis",
			"root", s.root,
			"cacheDuration", time.Duration(s.cfg.Cache.ContentTtlSeconds)*time.Second,
			"output", s.cfg.Output.Path,
			"format", format,
		)
	}

	opts := analysis.OptionsFromConfig(s.root, s.cfg)
	opts.Logger = s.logger
	res, err := analysis.Run(ctx, opts)
	if err != nil {
		return err
	}

	var files []string
	for _, p := range res.Projects {
		files = append(files, p.Files...)
	}
	runID := export.NewRunID()
	fingerprint := export.Fingerprint(res.Workspace.Root, files)

	doc := export.NewDocument(res, runID, fingerprint)
	if err := export.WriteFile(s.cfg.Output.Path, doc, format); err != nil {
		return err
	}

	if !analyzeNoDB && s.cfg.Output.DBPath != "" {
		if err := saveSnapshot(ctx, s, res.Snapshot(runID, fingerprint)); err != nil {
			return err
		}
	}

	if s.cfg.Output.TimingPath != "" {
		if err := res.Timing.SaveJSON(s.cfg.Output.TimingPath); err != nil {
			s.logger.Warn("Failed to write timing", "path", s.cfg.Output.TimingPath, "error", err.Error())
		}
	}

	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out, res.Summary(), report.Options{
		Verbose: verbosity > 0,
		NoColor: noColor,
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nAnalysis results saved to %s (%s, run %s)\n", s.cfg.Output.Path, format, runID)
	return nil
}

// watchAndAnalyze re-runs the analysis after each debounced batch of
// source changes until ctx is cancelled. Runs never overlap; changes seen
// during a run queue exactly one follow-up run.
func watchAndAnalyze(ctx context.Context, cmd *cobra.Command, s *session, format export.Format) error {
	trigger := make(chan struct{}, 1)
	w, err := watcher.New(s.root, watcher.Options{
		Debounce:   analyzeDebounce,
		Extensions: s.cfg.SourceExtensions(),
		Ignore:     s.cfg.Analysis.ExcludeGlobs,
		Logger:     s.logger,
	}, func(events []watcher.Event) {
		s.logger.Info("Change detected", "files", len(events), "first", events[0].Path)
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	fmt.Fprintln(cmd.OutOrStdout(), "\nWatching for changes (Ctrl+C to stop)")

	for {
		select {
		case <-ctx.Done():
			return <-done
		case err := <-done:
			return err
		case <-trigger:
			if err := analyzeOnce(ctx, cmd, s, format); err != nil {
				if ctx.Err() != nil {
					return <-done
				}
				s.logger.Error("Analysis failed", "error", err.Error())
			}
		}
	}
}

func saveSnapshot(ctx context.Context, s *session, snap depgraph.Snapshot) error {
	path := storePath(s, "")
	store, err := depgraph.OpenStore(path, s.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRun(ctx, snap); err != nil {
		return err
	}
	s.logger.Debug("Graph store updated", "path", path, "run", snap.Run.ID)
	return nil
}
