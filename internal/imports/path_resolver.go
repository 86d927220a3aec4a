package imports

import (
	"os"
	"path/filepath"
	"strings"

	"nga/internal/paths"
)

// PathResolver turns a specifier into a candidate file-system path.
type PathResolver struct {
	base string
}

// NewPathResolver creates a resolver rooted at the workspace base directory.
func NewPathResolver(base string) *PathResolver {
	return &PathResolver{base: base}
}

// Resolve classifies specifier and returns a candidate path for it. The
// candidate may lack an extension; locating the final file is left to the
// caller. ok is false when no candidate can be produced.
func (r *PathResolver) Resolve(specifier, currentFile string, aliases AliasTable) (candidate string, kind Kind, ok bool) {
	kind = Classify(specifier)
	switch kind {
	case Relative:
		return r.relative(specifier, currentFile), kind, true
	case Absolute:
		return filepath.Join(r.base, strings.TrimPrefix(specifier, "/")), kind, true
	case AliasedPackage:
		candidate, ok = r.aliased(specifier, aliases)
		return candidate, kind, ok
	default:
		candidate, ok = r.ambient(specifier)
		return candidate, kind, ok
	}
}

func (r *PathResolver) relative(specifier, currentFile string) string {
	joined := filepath.Join(filepath.Dir(currentFile), specifier)
	if paths.IsFile(joined) {
		return joined
	}
	for _, ext := range relativeExtensions {
		if candidate := joined + ext; paths.IsFile(candidate) {
			return candidate
		}
	}
	return joined
}

// aliased consults only the first matching alias. There is no fallback to
// node_modules when nothing matches.
func (r *PathResolver) aliased(specifier string, aliases AliasTable) (string, bool) {
	alias, rest, ok := aliases.Match(specifier)
	if !ok {
		return "", false
	}
	for _, pattern := range alias.Expand(rest) {
		if file, ok := findModuleFile(filepath.Join(r.base, pattern)); ok {
			return file, true
		}
	}
	return "", false
}

// ambient looks for <dir>/node_modules/<specifier> from the base directory
// up to the file-system root.
func (r *PathResolver) ambient(specifier string) (string, bool) {
	dir := r.base
	for {
		candidate := filepath.Join(dir, paths.NodeModulesDir, specifier)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
