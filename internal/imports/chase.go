package imports

import (
	"context"
	"path/filepath"

	"nga/internal/tsparse"
)

// ModuleLoader returns the parsed summary of a file.
type ModuleLoader interface {
	Load(ctx context.Context, path string) (*tsparse.Module, error)
}

// visitedSet records the files entered by one chase.
type visitedSet map[string]struct{}

// enter marks path visited and reports whether it was new.
func (v visitedSet) enter(path string) bool {
	if _, seen := v[path]; seen {
		return false
	}
	v[path] = struct{}{}
	return true
}

// Chaser follows re-export chains to the file that declares a symbol.
type Chaser struct {
	loader ModuleLoader
}

// NewChaser creates a chaser reading modules through loader.
func NewChaser(loader ModuleLoader) *Chaser {
	return &Chaser{loader: loader}
}

// Find returns the file that declares name, starting from candidate.
// Every call starts with an empty visited set.
func (c *Chaser) Find(ctx context.Context, candidate, name string) (string, bool) {
	return c.find(ctx, candidate, name, visitedSet{})
}

func (c *Chaser) find(ctx context.Context, candidate, name string, visited visitedSet) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	file, ok := findModuleFile(candidate)
	if !ok || !visited.enter(file) {
		return "", false
	}

	mod, err := c.loader.Load(ctx, file)
	if err != nil {
		return "", false
	}
	if mod.Declares(name) {
		return file, true
	}

	dir := filepath.Dir(file)
	for _, re := range mod.ReExports {
		target := filepath.Join(dir, re.Source)
		switch {
		case re.All:
			if found, ok := c.find(ctx, target, name, visited); ok {
				return found, true
			}
		case re.Namespace != "":
			if re.Namespace == name {
				return file, true
			}
		default:
			for _, spec := range re.Specifiers {
				if spec.Exported != name {
					continue
				}
				if found, ok := c.find(ctx, target, spec.Name, visited); ok {
					return found, true
				}
			}
		}
	}
	return "", false
}
