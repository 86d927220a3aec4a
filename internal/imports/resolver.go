package imports

import (
	"context"
	"path/filepath"

	"nga/internal/paths"
)

// EdgeRecorder receives file dependency edges.
type EdgeRecorder interface {
	AddDependency(source, target string)
}

// Resolver resolves imports for one worker. The cache, edge recorder and
// loader are shared handles; a Resolver itself is not shared between
// goroutines.
type Resolver struct {
	base   string
	paths  *PathResolver
	chaser *Chaser
	cache  *Cache
	edges  EdgeRecorder
}

// NewResolver creates a resolver rooted at base.
func NewResolver(base string, cache *Cache, edges EdgeRecorder, loader ModuleLoader) *Resolver {
	return &Resolver{
		base:   base,
		paths:  NewPathResolver(base),
		chaser: NewChaser(loader),
		cache:  cache,
		edges:  edges,
	}
}

// Resolve finds the file declaring name as imported by specifier from
// currentFile, records the dependency edge and returns the resolution.
// ok is false when the specifier or the symbol cannot be resolved.
//
// A cache hit still records the edge. The lookup and the insert are not
// one atomic step: two workers missing on the same key both compute the
// same value and the later insert wins.
func (r *Resolver) Resolve(ctx context.Context, specifier, name, currentFile string, aliases AliasTable) (ResolvedImport, bool) {
	return r.resolve(specifier, name, currentFile, aliases, func(candidate string) (string, bool) {
		return r.chaser.Find(ctx, candidate, name)
	})
}

// ResolveModule resolves specifier to a file without looking for a
// particular symbol. Used for namespace and side-effect imports.
func (r *Resolver) ResolveModule(_ context.Context, specifier, currentFile string, aliases AliasTable) (ResolvedImport, bool) {
	return r.resolve(specifier, ModuleSymbol, currentFile, aliases, findModuleFile)
}

func (r *Resolver) resolve(specifier, name, currentFile string, aliases AliasTable, locate func(string) (string, bool)) (ResolvedImport, bool) {
	source := paths.Normalize(currentFile)
	key := r.cacheKey(specifier, currentFile, aliases)

	if cached, ok := r.cache.Get(key, name); ok {
		r.edges.AddDependency(source, cached.Path)
		cached.Specifier = specifier
		return cached, true
	}

	candidate, kind, ok := r.paths.Resolve(specifier, currentFile, aliases)
	if !ok {
		return ResolvedImport{}, false
	}
	declaring, ok := locate(candidate)
	if !ok {
		return ResolvedImport{}, false
	}

	path := paths.Normalize(declaring)
	ri := ResolvedImport{
		Specifier:    specifier,
		Path:         path,
		RelativePath: paths.RelativeTo(path, r.base),
		Kind:         kind,
		Symbol:       Symbol{Name: name, Kind: Named},
	}
	if name == ModuleSymbol {
		ri.Symbol.Kind = Namespace
	}

	r.cache.Put(key, name, ri)
	r.edges.AddDependency(source, path)
	return ri, true
}

// cacheKey qualifies specifiers whose meaning depends on the importer:
// relative specifiers by the importing directory, aliased ones by the
// alias table contents.
func (r *Resolver) cacheKey(specifier, currentFile string, aliases AliasTable) string {
	switch Classify(specifier) {
	case Relative:
		return filepath.Join(filepath.Dir(currentFile), specifier)
	case AliasedPackage:
		return aliases.ID() + "|" + specifier
	default:
		return specifier
	}
}
