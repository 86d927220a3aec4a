package ng

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nga/internal/imports"
	"nga/internal/tsparse"
)

// fakeSource serves registered modules and template text.
type fakeSource struct {
	modules map[string]*tsparse.Module
	texts   map[string]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{modules: map[string]*tsparse.Module{}, texts: map[string]string{}}
}

func (f *fakeSource) add(path string, mod *tsparse.Module) {
	mod.Path = path
	f.modules[path] = mod
}

func (f *fakeSource) Load(_ context.Context, path string) (*tsparse.Module, error) {
	mod, ok := f.modules[path]
	if !ok {
		return nil, fmt.Errorf("no module for %s", path)
	}
	return mod, nil
}

func (f *fakeSource) Read(path string) (string, error) {
	text, ok := f.texts[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return text, nil
}

type noEdges struct{}

func (noEdges) AddDependency(string, string) {}

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

func str(s string) tsparse.Value {
	return tsparse.Value{Kind: tsparse.KindString, Text: s}
}

func ident(s string) tsparse.Value {
	return tsparse.Value{Kind: tsparse.KindIdentifier, Text: s}
}

func boolean(b bool) tsparse.Value {
	return tsparse.Value{Kind: tsparse.KindBool, Bool: b}
}

func array(items ...tsparse.Value) tsparse.Value {
	return tsparse.Value{Kind: tsparse.KindArray, Items: items}
}

func object(props map[string]tsparse.Value) tsparse.Value {
	return tsparse.Value{Kind: tsparse.KindObject, Props: props}
}

func decorated(class, decorator string, meta tsparse.Value) tsparse.Class {
	return tsparse.Class{Name: class, Decorators: []tsparse.Decorator{{Name: decorator, Args: []tsparse.Value{meta}}}}
}

func newResolver(root string, src *fakeSource) *imports.Resolver {
	return imports.NewResolver(root, imports.NewCache(), noEdges{}, src)
}
