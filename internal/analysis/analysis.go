// Package analysis runs a full workspace analysis: project discovery,
// per-project concurrent extraction over one shared resolution cache and
// dependency graph, and reference linking.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nga/internal/config"
	"nga/internal/content"
	"nga/internal/depgraph"
	"nga/internal/imports"
	"nga/internal/ng"
	"nga/internal/paths"
	"nga/internal/pipeline"
	"nga/internal/report"
	"nga/internal/slogutil"
	"nga/internal/tsparse"
	"nga/internal/workspace"
)

// Options configure a run.
type Options struct {
	Root     string
	Projects []string

	ChunkSize int
	Workers   int

	ExcludeNodeModules bool
	Extensions         []string
	ExcludeGlobs       []string

	// ContentTTL is how long file text is served from memory. Zero or less
	// keeps it for the whole run; the configured default is five minutes.
	ContentTTL      time.Duration
	ModuleCacheSize int

	// Parse replaces the tree-sitter parser when set.
	Parse  tsparse.ParseFunc
	Logger *slog.Logger
}

// OptionsFromConfig maps a loaded configuration onto run options.
func OptionsFromConfig(root string, cfg *config.Config) Options {
	return Options{
		Root:               root,
		Projects:           cfg.Projects,
		ChunkSize:          cfg.Analysis.ChunkSize,
		Workers:            cfg.Analysis.Workers,
		ExcludeNodeModules: cfg.Analysis.ExcludeNodeModules,
		Extensions:         cfg.SourceExtensions(),
		ExcludeGlobs:       cfg.Analysis.ExcludeGlobs,
		ContentTTL:         time.Duration(cfg.Cache.ContentTtlSeconds) * time.Second,
		ModuleCacheSize:    cfg.Cache.ModuleCacheSize,
	}
}

func newContentCache(opts Options, copts ...content.Option) *content.Cache {
	return content.NewCache(opts.ContentTTL, copts...)
}

// ProjectResult is the outcome for one project.
type ProjectResult struct {
	Project  workspace.Project
	Files    []string
	Results  ng.Results
	Duration time.Duration
}

// Result is the outcome of a run.
type Result struct {
	Workspace  *workspace.Workspace
	Projects   []ProjectResult
	Elements   ng.Results
	Graph      *depgraph.Graph
	Cycles     [][]string
	Warnings   []string
	Content    content.Stats
	Timing     report.Timing
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run analyzes the workspace at opts.Root. Only an unreadable workspace or
// cancellation of ctx fails the run; project problems become warnings.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	started := time.Now()

	ws, err := workspace.Discover(opts.Root, workspace.Options{Projects: opts.Projects, Logger: logger})
	if err != nil {
		return nil, err
	}
	loaded := time.Since(started)
	logger.Info("Workspace loaded", "root", ws.Root, "projects", len(ws.Projects), "duration", loaded)

	reader := newContentCache(opts)

	var loaderOpts []tsparse.LoaderOption
	if opts.Parse != nil {
		loaderOpts = append(loaderOpts, tsparse.WithParseFunc(opts.Parse))
	}
	loader, err := tsparse.NewLoader(reader, opts.ModuleCacheSize, loaderOpts...)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Workspace: ws,
		Graph:     depgraph.New(),
		StartedAt: started,
		Timing: report.Timing{
			WorkspaceLoad: loaded,
			Projects:      make(map[string]time.Duration),
			Files:         make(map[string]time.Duration),
		},
	}
	for _, w := range ws.Warnings {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", paths.RelativeTo(w.Path, ws.Root), w.Message))
	}

	cache := imports.NewCache()
	filter := fileFilter(opts)

	for _, project := range ws.Projects {
		pr, timings, err := runProject(ctx, ws.Root, project, cache, res.Graph, loader, filter, opts, logger)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Skipping project", "project", project.Name, "error", err.Error())
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", project.Name, err.Error()))
			continue
		}
		for file, d := range timings {
			res.Timing.Files[paths.RelativeTo(file, ws.Root)] = d
		}
		res.Timing.Projects[project.Name] = pr.Duration
		res.Projects = append(res.Projects, pr)
		res.Elements = res.Elements.Merge(pr.Results)

		logger.Info("Project processed",
			"project", project.Name,
			"files", len(pr.Files),
			"elements", pr.Results.Len(),
			"duration", pr.Duration,
		)
	}

	res.Elements = ng.LinkReferences(res.Elements)
	res.Cycles = res.Graph.CircularDependencies()
	res.Content = reader.Stats()
	res.FinishedAt = time.Now()
	res.Timing.Total = res.FinishedAt.Sub(started)

	if len(res.Cycles) > 0 {
		logger.Warn("Circular dependencies found", "count", len(res.Cycles))
	}
	return res, nil
}

func runProject(
	ctx context.Context,
	root string,
	project workspace.Project,
	cache *imports.Cache,
	graph *depgraph.Graph,
	loader *tsparse.Loader,
	filter pipeline.Filter,
	opts Options,
	logger *slog.Logger,
) (ProjectResult, map[string]time.Duration, error) {
	start := time.Now()

	files, err := pipeline.ListFiles(project.Root, filter)
	if err != nil {
		return ProjectResult{}, nil, err
	}

	plog := logger.With("project", project.Name)
	ext := ng.NewExtractor(root, project.Name, project.Aliases, loader, plog)
	proc := pipeline.NewProcessor[ng.Results](root, cache, graph, loader, ext.ExtractFile, pipeline.Options{
		ChunkSize: opts.ChunkSize,
		Workers:   opts.Workers,
		Logger:    plog,
	})

	results, err := proc.Run(ctx, files)
	if err != nil {
		return ProjectResult{}, nil, err
	}

	return ProjectResult{
		Project:  project,
		Files:    files,
		Results:  results,
		Duration: time.Since(start),
	}, proc.Timings(), nil
}

func fileFilter(opts Options) pipeline.Filter {
	var filters []pipeline.Filter
	if opts.ExcludeNodeModules {
		filters = append(filters, pipeline.ExcludeNodeModules())
	}
	if len(opts.Extensions) > 0 {
		filters = append(filters, pipeline.Extensions(opts.Extensions...))
	}
	if len(opts.ExcludeGlobs) > 0 {
		filters = append(filters, pipeline.ExcludeGlobs(opts.ExcludeGlobs...))
	}
	return pipeline.Chain(filters...)
}

// AnalyzedFiles returns the workspace-relative paths of every listed file
// with its project, in project then path order.
func (r *Result) AnalyzedFiles() []depgraph.FileRecord {
	kinds := make(map[string]ng.Kind)
	for _, fk := range r.Elements.Files() {
		if _, ok := kinds[fk.Path]; !ok {
			kinds[fk.Path] = fk.Kind
		}
	}

	var out []depgraph.FileRecord
	for _, p := range r.Projects {
		for _, f := range p.Files {
			rel := paths.RelativeTo(f, r.Workspace.Root)
			out = append(out, depgraph.FileRecord{Path: rel, Project: p.Project.Name, Kind: string(kinds[rel])})
		}
	}
	return out
}

// Summary condenses the result for report.WriteSummary.
func (r *Result) Summary() report.Summary {
	s := report.Summary{
		WorkspaceRoot: r.Workspace.Root,
		Cycles:        r.relativeCycles(),
		Warnings:      r.Warnings,
		ContentBytes:  r.Content.TotalBytes,
		Timing:        r.Timing,
	}
	stats := r.Graph.Stats()
	s.Nodes, s.Edges = stats.Nodes, stats.Edges

	for _, p := range r.Projects {
		s.Projects = append(s.Projects, report.ProjectSummary{
			Name:     p.Project.Name,
			Root:     p.Project.RelativeRoot,
			Files:    len(p.Files),
			Counts:   p.Results.Counts(),
			Duration: p.Duration,
		})
	}
	return s
}

func (r *Result) relativeCycles() [][]string {
	out := make([][]string, len(r.Cycles))
	for i, cycle := range r.Cycles {
		rel := make([]string, len(cycle))
		for j, f := range cycle {
			rel[j] = paths.RelativeTo(f, r.Workspace.Root)
		}
		out[i] = rel
	}
	return out
}

// Snapshot builds the persisted form of the run with workspace-relative
// paths throughout.
func (r *Result) Snapshot(runID, fingerprint string) depgraph.Snapshot {
	return depgraph.SnapshotOf(depgraph.Run{
		ID:            runID,
		WorkspaceRoot: r.Workspace.Root,
		Fingerprint:   fingerprint,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}, r.Graph.Relative(r.Workspace.Root), r.AnalyzedFiles())
}
