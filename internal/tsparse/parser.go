//go:build cgo

package tsparse

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Available reports whether Parse is backed by tree-sitter.
const Available = true

func grammar(d Dialect) *sitter.Language {
	if d == DialectTSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// Parse parses src and returns its module summary. Every call uses its own
// parser because tree-sitter parsers are not safe for concurrent use. The
// grammar is error tolerant, so malformed input still yields the
// statements that could be recovered.
func Parse(ctx context.Context, path string, src []byte) (*Module, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar(DialectFor(path)))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	w := &walker{src: src, mod: &Module{Path: path}, declared: make(map[string]bool)}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		w.statement(root.NamedChild(i))
	}
	w.resolveLocalExports()
	return w.mod, nil
}

type walker struct {
	src []byte
	mod *Module

	// declared holds every module-level name declared in the file,
	// exported or not.
	declared map[string]bool
	// localExports are export clauses without a source, resolved once the
	// whole file has been seen.
	localExports []localExport
}

type localExport struct {
	spec ExportSpecifier
	line int
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func (w *walker) statement(n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		w.importStatement(n)
	case "export_statement":
		w.exportStatement(n)
	default:
		for _, name := range w.declNames(n) {
			w.declared[name] = true
		}
	}
}

func (w *walker) importStatement(n *sitter.Node) {
	imp := Import{Line: line(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "type":
			imp.TypeOnly = true
		case "import_clause":
			imp.Bindings = w.importClause(c)
		case "import_require_clause":
			if id := firstChildOfType(c, "identifier"); id != nil {
				local := w.text(id)
				imp.Bindings = []Binding{{Kind: BindingNamespace, Name: local, Local: local}}
			}
			if s := firstChildOfType(c, "string"); s != nil {
				imp.Source = w.stringValue(s)
			}
		case "string":
			imp.Source = w.stringValue(c)
		}
	}
	if imp.Source == "" {
		return
	}
	w.mod.Imports = append(w.mod.Imports, imp)
}

func (w *walker) importClause(n *sitter.Node) []Binding {
	var bindings []Binding
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "identifier":
			local := w.text(c)
			bindings = append(bindings, Binding{Kind: BindingDefault, Name: local, Local: local})
		case "namespace_import":
			if id := firstChildOfType(c, "identifier"); id != nil {
				local := w.text(id)
				bindings = append(bindings, Binding{Kind: BindingNamespace, Name: local, Local: local})
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := w.nameText(spec.ChildByFieldName("name"))
				local := name
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = w.nameText(alias)
				}
				if name != "" {
					bindings = append(bindings, Binding{Kind: BindingNamed, Name: name, Local: local})
				}
			}
		}
	}
	return bindings
}

func (w *walker) exportStatement(n *sitter.Node) {
	var (
		decorators []Decorator
		clause     *sitter.Node
		nsExport   *sitter.Node
		star       bool
		isDefault  bool
	)
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "decorator":
			decorators = append(decorators, w.decorator(c))
		case "export_clause":
			clause = c
		case "namespace_export":
			nsExport = c
		case "*":
			star = true
		case "default":
			isDefault = true
		}
	}

	src := n.ChildByFieldName("source")
	if src == nil && (clause != nil || nsExport != nil || star) {
		src = firstChildOfType(n, "string")
	}
	if src != nil {
		re := ReExport{Source: w.stringValue(src), Line: line(n)}
		switch {
		case clause != nil:
			re.Specifiers = w.exportSpecifiers(clause)
		case nsExport != nil:
			re.Namespace = w.namespaceName(nsExport)
		default:
			re.All = true
		}
		w.mod.ReExports = append(w.mod.ReExports, re)
		return
	}

	if clause != nil {
		for _, s := range w.exportSpecifiers(clause) {
			w.localExports = append(w.localExports, localExport{spec: s, line: line(n)})
		}
		return
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		w.declaration(decl, decorators)
	}
	if isDefault {
		w.mod.addExport(DefaultExport)
	}
}

func (w *walker) exportSpecifiers(clause *sitter.Node) []ExportSpecifier {
	var specs []ExportSpecifier
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		if c.Type() != "export_specifier" {
			continue
		}
		name := w.nameText(c.ChildByFieldName("name"))
		exported := name
		if alias := c.ChildByFieldName("alias"); alias != nil {
			exported = w.nameText(alias)
		}
		if name != "" {
			specs = append(specs, ExportSpecifier{Name: name, Exported: exported})
		}
	}
	return specs
}

func (w *walker) namespaceName(n *sitter.Node) string {
	if id := firstChildOfType(n, "identifier"); id != nil {
		return w.text(id)
	}
	if s := firstChildOfType(n, "string"); s != nil {
		return w.stringValue(s)
	}
	return ""
}

func (w *walker) declaration(decl *sitter.Node, decorators []Decorator) {
	if decl.Type() == "ambient_declaration" {
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			w.declaration(decl.NamedChild(i), decorators)
		}
		return
	}

	names := w.declNames(decl)
	for _, name := range names {
		w.declared[name] = true
		w.mod.addExport(name)
	}

	switch decl.Type() {
	case "class_declaration", "abstract_class_declaration":
		if len(names) == 0 {
			return
		}
		for i := 0; i < int(decl.ChildCount()); i++ {
			if c := decl.Child(i); c.Type() == "decorator" {
				decorators = append(decorators, w.decorator(c))
			}
		}
		w.mod.Classes = append(w.mod.Classes, Class{Name: names[0], Decorators: decorators, Line: line(decl)})
	}
}

// declNames returns the module-level names a declaration binds.
func (w *walker) declNames(decl *sitter.Node) []string {
	var names []string
	switch decl.Type() {
	case "class_declaration", "abstract_class_declaration",
		"function_declaration", "generator_function_declaration", "function_signature",
		"interface_declaration", "type_alias_declaration", "enum_declaration":
		if name := w.text(decl.ChildByFieldName("name")); name != "" {
			names = append(names, name)
		}
	case "internal_module", "module":
		name := w.nameText(decl.ChildByFieldName("name"))
		if i := strings.IndexByte(name, '.'); i > 0 {
			name = name[:i]
		}
		if name != "" {
			names = append(names, name)
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			if c := decl.NamedChild(i); c.Type() == "variable_declarator" {
				names = w.patternNames(c.ChildByFieldName("name"), names)
			}
		}
	case "ambient_declaration", "expression_statement":
		// A bare "namespace N {}" parses as an expression statement.
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			c := decl.NamedChild(i)
			if decl.Type() == "expression_statement" && c.Type() != "internal_module" {
				continue
			}
			names = append(names, w.declNames(c)...)
		}
	}
	return names
}

// patternNames appends every identifier bound by a declarator pattern.
func (w *walker) patternNames(n *sitter.Node, names []string) []string {
	if n == nil {
		return names
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return append(names, w.text(n))
	case "object_assignment_pattern", "assignment_pattern":
		return w.patternNames(n.ChildByFieldName("left"), names)
	case "pair_pattern":
		return w.patternNames(n.ChildByFieldName("value"), names)
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			names = w.patternNames(n.NamedChild(i), names)
		}
		return names
	}
}

// resolveLocalExports settles "export { a as b }" clauses without a source.
// A name declared in this file becomes an export. A name bound by an import
// becomes a re-export of that import's source, so the chase keeps going to
// the declaring file. Anything else is dropped.
func (w *walker) resolveLocalExports() {
	if len(w.localExports) == 0 {
		return
	}

	type origin struct {
		source  string
		binding Binding
	}
	imported := make(map[string]origin)
	for _, imp := range w.mod.Imports {
		for _, b := range imp.Bindings {
			imported[b.Local] = origin{source: imp.Source, binding: b}
		}
	}

	for _, le := range w.localExports {
		if w.declared[le.spec.Name] {
			w.mod.addExport(le.spec.Exported)
			continue
		}
		from, ok := imported[le.spec.Name]
		if !ok {
			continue
		}
		re := ReExport{Source: from.source, Line: le.line}
		switch from.binding.Kind {
		case BindingNamespace:
			re.Namespace = le.spec.Exported
		case BindingDefault:
			re.Specifiers = []ExportSpecifier{{Name: DefaultExport, Exported: le.spec.Exported}}
		default:
			re.Specifiers = []ExportSpecifier{{Name: from.binding.Name, Exported: le.spec.Exported}}
		}
		w.mod.ReExports = append(w.mod.ReExports, re)
	}

	slices.SortStableFunc(w.mod.ReExports, func(a, b ReExport) int {
		return cmp.Compare(a.Line, b.Line)
	})
}

func (w *walker) decorator(n *sitter.Node) Decorator {
	if n.NamedChildCount() == 0 {
		return Decorator{}
	}
	expr := n.NamedChild(0)
	if expr.Type() != "call_expression" {
		return Decorator{Name: w.calleeName(expr)}
	}

	d := Decorator{Name: w.calleeName(expr.ChildByFieldName("function"))}
	if args := expr.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			if c := args.NamedChild(i); c.Type() != "comment" {
				d.Args = append(d.Args, w.value(c))
			}
		}
	}
	return d
}

func (w *walker) calleeName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() == "member_expression" {
		return w.text(n.ChildByFieldName("property"))
	}
	return w.text(n)
}

func (w *walker) value(n *sitter.Node) Value {
	switch n.Type() {
	case "string":
		return Value{Kind: KindString, Text: w.stringValue(n)}
	case "template_string":
		return Value{Kind: KindString, Text: strings.TrimSuffix(strings.TrimPrefix(w.text(n), "`"), "`")}
	case "number":
		return Value{Kind: KindNumber, Text: w.text(n)}
	case "true":
		return Value{Kind: KindBool, Bool: true, Text: "true"}
	case "false":
		return Value{Kind: KindBool, Bool: false, Text: "false"}
	case "identifier", "member_expression":
		return Value{Kind: KindIdentifier, Text: w.text(n)}
	case "array":
		v := Value{Kind: KindArray}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() != "comment" {
				v.Items = append(v.Items, w.value(c))
			}
		}
		return v
	case "object":
		v := Value{Kind: KindObject, Props: make(map[string]Value)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "pair":
				key := w.nameText(c.ChildByFieldName("key"))
				if val := c.ChildByFieldName("value"); key != "" && val != nil {
					v.Props[key] = w.value(val)
				}
			case "shorthand_property_identifier":
				name := w.text(c)
				v.Props[name] = Value{Kind: KindIdentifier, Text: name}
			}
		}
		return v
	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
		if n.NamedChildCount() > 0 {
			return w.value(n.NamedChild(0))
		}
	}
	return Value{Kind: KindOther, Text: w.text(n)}
}

// nameText returns identifier text, or the contents of a string literal
// used as a name.
func (w *walker) nameText(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() == "string" {
		return w.stringValue(n)
	}
	return w.text(n)
}

func (w *walker) stringValue(n *sitter.Node) string {
	var b strings.Builder
	parts := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "string_fragment":
			b.WriteString(w.text(c))
			parts++
		case "escape_sequence":
			raw := w.text(c)
			if s, err := strconv.Unquote(`"` + raw + `"`); err == nil {
				b.WriteString(s)
			} else {
				b.WriteString(raw)
			}
			parts++
		}
	}
	if parts > 0 {
		return b.String()
	}
	return strings.Trim(w.text(n), "\"'")
}
