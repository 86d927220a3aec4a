// Package pipeline runs per-file analysis over a project on a bounded
// worker pool and folds the results.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"nga/internal/depgraph"
	"nga/internal/imports"
	"nga/internal/shardmap"
	"nga/internal/slogutil"
)

// FileFunc analyzes one file with the worker's resolver.
type FileFunc[T any] func(ctx context.Context, r *imports.Resolver, file string) (T, error)

// Options tune a Processor.
type Options struct {
	ChunkSize int
	// Workers bounds concurrently running chunks; 0 means runtime.NumCPU().
	Workers int
	Logger  *slog.Logger
}

// Processor owns the state shared by every worker of a run: the resolution
// cache, the dependency graph and the module loader. Each chunk gets its own
// Resolver bound to those shared handles.
type Processor[T Unit[T]] struct {
	base    string
	cache   *imports.Cache
	graph   *depgraph.Graph
	loader  imports.ModuleLoader
	process FileFunc[T]
	opts    Options
	timings *shardmap.Map[time.Duration]
}

// NewProcessor creates a processor resolving against the workspace base.
func NewProcessor[T Unit[T]](base string, cache *imports.Cache, graph *depgraph.Graph, loader imports.ModuleLoader, fn FileFunc[T], opts Options) *Processor[T] {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slogutil.NewDiscardLogger()
	}
	return &Processor[T]{
		base:    base,
		cache:   cache,
		graph:   graph,
		loader:  loader,
		process: fn,
		opts:    opts,
		timings: shardmap.New[time.Duration](),
	}
}

// Run processes files in chunks and returns the merged result. A file that
// fails contributes the identity and is logged. Only cancellation of ctx
// makes Run fail.
func (p *Processor[T]) Run(ctx context.Context, files []string) (T, error) {
	chunks := Chunk(files, p.opts.ChunkSize)
	results := make([]T, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(p.opts.Workers, len(chunks))))

	for i, chunk := range chunks {
		g.Go(func() error {
			r, err := p.runChunk(gctx, chunk)
			results[i] = r
			return err
		})
	}

	if err := g.Wait(); err != nil {
		var zero T
		return zero, err
	}
	return Fold(results...), nil
}

func (p *Processor[T]) runChunk(ctx context.Context, files []string) (T, error) {
	resolver := imports.NewResolver(p.base, p.cache, p.graph, p.loader)

	var acc T
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return acc, err
		}

		start := time.Now()
		unit, err := p.process(ctx, resolver, file)
		p.timings.Store(file, time.Since(start))
		if err != nil {
			p.opts.Logger.Warn("Skipping file", "file", file, "error", err.Error())
			continue
		}
		acc = acc.Merge(unit)
	}
	return acc, nil
}

// Timings returns the analysis duration of every processed file.
func (p *Processor[T]) Timings() map[string]time.Duration {
	out := make(map[string]time.Duration, p.timings.Len())
	p.timings.Range(func(k string, v time.Duration) bool {
		out[k] = v
		return true
	})
	return out
}

// Graph returns the shared dependency graph.
func (p *Processor[T]) Graph() *depgraph.Graph {
	return p.graph
}
