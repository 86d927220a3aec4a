// Package tsparse extracts the module-level facts the analyzer needs from
// TypeScript sources: imports, exported declarations, re-exports and
// decorated classes.
package tsparse

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrParserUnavailable is returned when the binary was built without cgo.
var ErrParserUnavailable = errors.New("tree-sitter parser unavailable (built without cgo)")

// BindingKind is the shape of an import binding.
type BindingKind string

const (
	BindingNamed     BindingKind = "named"
	BindingDefault   BindingKind = "default"
	BindingNamespace BindingKind = "namespace"
)

// Binding is one name introduced by an import statement. For named
// bindings Name is the exported name and Local the name in this file;
// otherwise both are the local name.
type Binding struct {
	Kind  BindingKind `json:"kind"`
	Name  string      `json:"name"`
	Local string      `json:"local"`
}

// Import is one import statement. A side-effect import has no bindings.
type Import struct {
	Source   string    `json:"source"`
	TypeOnly bool      `json:"typeOnly,omitempty"`
	Bindings []Binding `json:"bindings,omitempty"`
	Line     int       `json:"line"`
}

// ExportSpecifier is one entry of an export clause: Name as declared in
// the source module, Exported as visible to importers.
type ExportSpecifier struct {
	Name     string `json:"name"`
	Exported string `json:"exported"`
}

// ReExport is an export statement with a from-clause. A local export
// clause naming an imported binding is recorded the same way, with the
// import's source.
//
//	export * from './a'          All
//	export * as ns from './a'    Namespace = "ns"
//	export { a, b as c } from    Specifiers
type ReExport struct {
	Source     string            `json:"source"`
	All        bool              `json:"all,omitempty"`
	Namespace  string            `json:"namespace,omitempty"`
	Specifiers []ExportSpecifier `json:"specifiers,omitempty"`
	Line       int               `json:"line"`
}

// Decorator is a class decorator with its literal arguments.
type Decorator struct {
	Name string  `json:"name"`
	Args []Value `json:"args,omitempty"`
}

// Arg returns the i-th argument, or a zero Value.
func (d Decorator) Arg(i int) Value {
	if i < 0 || i >= len(d.Args) {
		return Value{}
	}
	return d.Args[i]
}

// Class is an exported class declaration.
type Class struct {
	Name       string      `json:"name"`
	Decorators []Decorator `json:"decorators,omitempty"`
	Line       int         `json:"line"`
}

// Decorator returns the decorator with the given name.
func (c Class) Decorator(name string) (Decorator, bool) {
	for _, d := range c.Decorators {
		if d.Name == name {
			return d, true
		}
	}
	return Decorator{}, false
}

// Module is the parsed summary of one source file. Loaded modules are
// shared between goroutines and must not be modified.
type Module struct {
	Path      string     `json:"path"`
	Imports   []Import   `json:"imports,omitempty"`
	Exports   []string   `json:"exports,omitempty"`
	ReExports []ReExport `json:"reExports,omitempty"`
	Classes   []Class    `json:"classes,omitempty"`
}

// DefaultExport is the export name of a default export.
const DefaultExport = "default"

// Declares reports whether the module itself exports name, either through
// an exported declaration or a local export clause naming a declaration of
// this file.
func (m *Module) Declares(name string) bool {
	for _, e := range m.Exports {
		if e == name {
			return true
		}
	}
	return false
}

func (m *Module) addExport(name string) {
	if name == "" || m.Declares(name) {
		return
	}
	m.Exports = append(m.Exports, name)
}

// Dialect selects the grammar for a file.
type Dialect int

const (
	DialectTypeScript Dialect = iota
	DialectTSX
)

// DialectFor picks the grammar from the file extension.
func DialectFor(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return DialectTSX
	default:
		return DialectTypeScript
	}
}
