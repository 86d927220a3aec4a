package export

import (
	"sort"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"nga/internal/ng"
	"nga/internal/version"
)

const scipLanguage = "TypeScript"

// SymbolFor returns the SCIP symbol of an element: the nga scheme, the
// project as package and the file path plus name as descriptors.
func SymbolFor(b *ng.BaseInfo) string {
	pkg := b.PackageName
	if pkg == "" {
		pkg = "."
	}
	return version.Name + " ng " + escapeSpaces(pkg) + " . " + pathDescriptor(b.RelativePath) + escapeName(b.Name) + "#"
}

// fileSymbol is the symbol used for a file imported as a whole.
func fileSymbol(rel string) string {
	return version.Name + " ng . . " + pathDescriptor(rel)
}

func pathDescriptor(rel string) string {
	return "`" + strings.ReplaceAll(rel, "`", "``") + "`/"
}

func escapeName(name string) string {
	for _, r := range name {
		if !(r == '_' || r == '$' || r == '+' || r == '-' || r == '.' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')) {
			return "`" + strings.ReplaceAll(name, "`", "``") + "`"
		}
	}
	return name
}

func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "  ")
}

// ToSCIP builds a SCIP index with one document per file that holds an
// element. Elements become definitions and resolved imports become import
// occurrences of the declaring element, or of the file when no element is
// declared there.
func ToSCIP(doc *Document) *scippb.Index {
	elements := doc.Results.Elements()

	byFileName := make(map[string]string)
	for _, e := range elements {
		b := e.Base()
		byFileName[b.RelativePath+"\x00"+b.Name] = SymbolFor(b)
	}

	docs := make(map[string]*scippb.Document)
	document := func(rel string) *scippb.Document {
		d, ok := docs[rel]
		if !ok {
			d = &scippb.Document{Language: scipLanguage, RelativePath: rel}
			docs[rel] = d
		}
		return d
	}

	for _, e := range elements {
		b := e.Base()
		d := document(b.RelativePath)
		sym := SymbolFor(b)

		d.Occurrences = append(d.Occurrences, &scippb.Occurrence{
			Range:       lineRange(b.Line),
			Symbol:      sym,
			SymbolRoles: int32(scippb.SymbolRole_Definition),
		})
		d.Symbols = append(d.Symbols, &scippb.SymbolInformation{
			Symbol:        sym,
			DisplayName:   b.Name,
			Documentation: []string{string(e.Kind())},
		})

		for _, imp := range b.Imports {
			target, ok := byFileName[imp.RelativePath+"\x00"+importedName(imp.Symbol.Name, imp.Symbol.Alias)]
			if !ok {
				target = fileSymbol(imp.RelativePath)
			}
			d.Occurrences = append(d.Occurrences, &scippb.Occurrence{
				Range:       lineRange(imp.Line),
				Symbol:      target,
				SymbolRoles: int32(scippb.SymbolRole_Import),
			})
		}
	}

	rels := make([]string, 0, len(docs))
	for rel := range docs {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			ToolInfo: &scippb.ToolInfo{
				Name:      version.Name,
				Version:   doc.Version,
				Arguments: []string{"analyze"},
			},
			ProjectRoot:          "file:///" + strings.TrimPrefix(toSlash(doc.WorkspaceRoot), "/"),
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}
	for _, rel := range rels {
		index.Documents = append(index.Documents, docs[rel])
	}
	return index
}

// importedName is the name the declaring file exports.
func importedName(name, alias string) string {
	if alias != "" {
		return alias
	}
	return name
}

// lineRange is a zero-width SCIP range at the start of a 1-based line.
func lineRange(line int) []int32 {
	l := int32(max(line-1, 0))
	return []int32{l, 0, 0}
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
