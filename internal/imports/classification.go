// Package imports resolves import specifiers to the files that declare the
// imported symbols and records the resulting file dependencies.
package imports

import "strings"

// Kind represents the classification of an import specifier
type Kind string

const (
	// Relative represents a specifier starting with ./ or ../
	Relative Kind = "relative"

	// Absolute represents a specifier starting with /, rooted at the workspace base
	Absolute Kind = "absolute"

	// AliasedPackage represents a scoped specifier (@scope/...) mapped through the alias table
	AliasedPackage Kind = "aliased-package"

	// AmbientModule represents a bare specifier resolved from node_modules
	AmbientModule Kind = "ambient-module"
)

// SymbolKind is how a symbol was imported
type SymbolKind string

const (
	Named     SymbolKind = "named"
	Default   SymbolKind = "default"
	Namespace SymbolKind = "namespace"
)

// ModuleSymbol is the symbol name used when a whole module is imported.
const ModuleSymbol = "*"

// Symbol describes the imported symbol. Name is the name in the importing
// file; Alias, when set, is the name exported by the declaring file.
type Symbol struct {
	Name  string     `json:"name" yaml:"name" toml:"name"`
	Alias string     `json:"alias,omitempty" yaml:"alias,omitempty" toml:"alias,omitempty"`
	Kind  SymbolKind `json:"kind" yaml:"kind" toml:"kind"`
}

// ResolvedImport is the outcome of resolving one (specifier, symbol) pair.
// Values are immutable once cached and copied into each file's result.
type ResolvedImport struct {
	// Specifier is the module string as written in the importing file
	Specifier string `json:"specifier" yaml:"specifier" toml:"specifier"`

	// Path is the normalized absolute path of the declaring file
	Path string `json:"path" yaml:"path" toml:"path"`

	// RelativePath is Path relative to the workspace base, slash separated
	RelativePath string `json:"relativePath" yaml:"relativePath" toml:"relativePath"`

	// Kind is the classification of Specifier
	Kind Kind `json:"kind" yaml:"kind" toml:"kind"`

	// Symbol is the imported symbol
	Symbol Symbol `json:"symbol" yaml:"symbol" toml:"symbol"`

	// Line is the 1-based line of the import statement, when known
	Line int `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
}

// WithSymbol returns a copy of r describing sym.
func (r ResolvedImport) WithSymbol(sym Symbol) ResolvedImport {
	r.Symbol = sym
	return r
}

// Classify classifies a specifier by prefix. Precedence: ./ or ../ is
// Relative, / is Absolute, @ is AliasedPackage, anything else is
// AmbientModule.
func Classify(specifier string) Kind {
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		return Relative
	case strings.HasPrefix(specifier, "/"):
		return Absolute
	case strings.HasPrefix(specifier, "@"):
		return AliasedPackage
	default:
		return AmbientModule
	}
}
