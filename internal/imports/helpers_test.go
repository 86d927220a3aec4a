package imports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"nga/internal/tsparse"
)

// fakeLoader serves module summaries registered per file path.
type fakeLoader struct {
	mu      sync.Mutex
	modules map[string]*tsparse.Module
	loads   map[string]int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{modules: map[string]*tsparse.Module{}, loads: map[string]int{}}
}

func (f *fakeLoader) add(path string, mod *tsparse.Module) {
	mod.Path = path
	f.modules[path] = mod
}

func (f *fakeLoader) Load(_ context.Context, path string) (*tsparse.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads[path]++
	mod, ok := f.modules[path]
	if !ok {
		return nil, fmt.Errorf("no module for %s", path)
	}
	return mod, nil
}

// edgeLog records dependency edges.
type edgeLog struct {
	mu    sync.Mutex
	edges []string
}

func (e *edgeLog) AddDependency(source, target string) {
	e.mu.Lock()
	e.edges = append(e.edges, source+" -> "+target)
	e.mu.Unlock()
}

func (e *edgeLog) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := append([]string(nil), e.edges...)
	sort.Strings(out)
	return out
}

// touch creates the named files (slash separated, relative to root).
func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
}

func at(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
