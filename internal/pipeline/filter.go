package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"

	"nga/internal/paths"
)

// Filter decides whether an entry found while listing a project is kept.
// rel is slash-separated and relative to the listing root. Rejecting a
// directory prunes it.
type Filter func(rel string, dir bool) bool

// ExcludeNodeModules rejects anything inside a node_modules directory.
func ExcludeNodeModules() Filter {
	return func(rel string, _ bool) bool {
		return !paths.IsNodeModules(rel)
	}
}

// Extensions keeps files whose final extension is one of exts. Directories
// always pass.
func Extensions(exts ...string) Filter {
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = struct{}{}
	}
	return func(rel string, dir bool) bool {
		if dir {
			return true
		}
		_, ok := allowed[filepath.Ext(rel)]
		return ok
	}
}

// ExcludeGlobs rejects entries matching any doublestar pattern.
// Malformed patterns never match.
func ExcludeGlobs(patterns ...string) Filter {
	return func(rel string, _ bool) bool {
		for _, p := range patterns {
			if ok, err := doublestar.Match(p, rel); err == nil && ok {
				return false
			}
		}
		return true
	}
}

// Chain keeps an entry only if every filter keeps it. Filters run in order
// and stop at the first rejection.
func Chain(filters ...Filter) Filter {
	return func(rel string, dir bool) bool {
		for _, f := range filters {
			if f != nil && !f(rel, dir) {
				return false
			}
		}
		return true
	}
}
