//go:build !cgo

package tsparse

import "context"

// Available reports whether Parse is backed by tree-sitter.
const Available = false

// Parse always fails when built without cgo.
func Parse(_ context.Context, _ string, _ []byte) (*Module, error) {
	return nil, ErrParserUnavailable
}
