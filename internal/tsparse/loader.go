package tsparse

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"nga/internal/content"
	"nga/internal/errors"
)

// DefaultLoaderSize bounds the number of parsed modules kept in memory.
const DefaultLoaderSize = 4096

// ParseFunc turns source text into a module summary.
type ParseFunc func(ctx context.Context, path string, src []byte) (*Module, error)

type cachedModule struct {
	sum uint64
	mod *Module
}

// Loader reads files through a content Reader and memoizes their parsed
// summaries. A memoized summary is reused only while the file text hashes
// to the same value, so content-cache expiry also invalidates it.
type Loader struct {
	reader content.Reader
	parse  ParseFunc
	cache  *lru.Cache[string, cachedModule]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithParseFunc replaces the tree-sitter parser.
func WithParseFunc(fn ParseFunc) LoaderOption {
	return func(l *Loader) { l.parse = fn }
}

// NewLoader creates a loader keeping at most size parsed modules.
func NewLoader(reader content.Reader, size int, opts ...LoaderOption) (*Loader, error) {
	if size <= 0 {
		size = DefaultLoaderSize
	}
	cache, err := lru.New[string, cachedModule](size)
	if err != nil {
		return nil, fmt.Errorf("create module cache: %w", err)
	}
	l := &Loader{reader: reader, parse: Parse, cache: cache}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Read returns the text of path through the underlying content reader.
func (l *Loader) Read(path string) (string, error) {
	return l.reader.Read(path)
}

// Load returns the parsed summary of path.
func (l *Loader) Load(ctx context.Context, path string) (*Module, error) {
	text, err := l.reader.Read(path)
	if err != nil {
		return nil, err
	}

	sum := xxhash.Sum64String(text)
	if c, ok := l.cache.Get(path); ok && c.sum == sum {
		return c.mod, nil
	}

	mod, err := l.parse(ctx, path, []byte(text))
	if err != nil {
		return nil, errors.NewNgaError(errors.ParseFailed, fmt.Sprintf("cannot parse %s", path), err, nil)
	}
	l.cache.Add(path, cachedModule{sum: sum, mod: mod})
	return mod, nil
}

// Len returns the number of memoized modules.
func (l *Loader) Len() int {
	return l.cache.Len()
}
