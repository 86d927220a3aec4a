package ng

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"nga/internal/imports"
	"nga/internal/paths"
	"nga/internal/slogutil"
	"nga/internal/tsparse"
)

// Source loads parsed modules and raw file text.
type Source interface {
	Load(ctx context.Context, path string) (*tsparse.Module, error)
	Read(path string) (string, error)
}

// Extractor turns the files of one project into Results.
type Extractor struct {
	base    string
	project string
	aliases imports.AliasTable
	source  Source
	logger  *slog.Logger
}

// NewExtractor creates an extractor for project. base is the workspace
// root used for relative paths.
func NewExtractor(base, project string, aliases imports.AliasTable, source Source, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Extractor{
		base:    base,
		project: project,
		aliases: aliases,
		source:  source,
		logger:  logger,
	}
}

// ExtractFile parses file, resolves its imports with r and classifies it.
// Unresolved imports are dropped.
func (e *Extractor) ExtractFile(ctx context.Context, r *imports.Resolver, file string) (Results, error) {
	mod, err := e.source.Load(ctx, file)
	if err != nil {
		return Results{}, err
	}

	resolved := e.resolveImports(ctx, r, file, mod)
	base := func(name string) BaseInfo {
		return BaseInfo{
			Name:         name,
			Imports:      resolved,
			SourcePath:   file,
			RelativePath: paths.RelativeTo(file, e.base),
			PackageName:  e.project,
		}
	}

	var res Results
	if isTestSpec(file) {
		res.TestSpecs = append(res.TestSpecs, TestSpec{BaseInfo: base(stem(file))})
		return res, nil
	}

	decorated := false
	lastClass := ""
	for _, class := range mod.Classes {
		lastClass = class.Name
		for _, d := range class.Decorators {
			info := base(class.Name)
			info.Line = class.Line
			if e.classify(&res, class, d, info, file) {
				decorated = true
			}
		}
	}

	if !decorated && len(resolved) > 0 {
		name := lastClass
		if name == "" {
			name = stem(file)
		}
		res.Others = append(res.Others, Other{BaseInfo: base(name)})
	}
	return res, nil
}

// classify appends the element for an Angular decorator and reports
// whether d was one.
func (e *Extractor) classify(res *Results, class tsparse.Class, d tsparse.Decorator, base BaseInfo, file string) bool {
	meta := d.Arg(0)

	switch d.Name {
	case "Component":
		res.Components = append(res.Components, e.component(meta, base, file))
	case "Directive":
		res.Directives = append(res.Directives, directive(meta, base))
	case "Pipe":
		res.Pipes = append(res.Pipes, pipe(meta, base))
	case "NgModule":
		res.Modules = append(res.Modules, ngModule(meta, base))
	case "Injectable":
		res.Services = append(res.Services, service(meta, base))
	default:
		e.logger.Debug("Ignoring decorator", "class", class.Name, "decorator", d.Name, "file", file)
		return false
	}
	return true
}

func (e *Extractor) component(meta tsparse.Value, base BaseInfo, file string) Component {
	c := Component{
		BaseInfo:   base,
		Selector:   stringProp(meta, "selector"),
		Standalone: boolProp(meta, "standalone", false),
		StylePaths: []string{},
	}
	if v, ok := meta.Prop("styleUrls"); ok {
		c.StylePaths = append(c.StylePaths, v.Strings()...)
	}
	if v, ok := meta.Prop("styleUrl"); ok {
		c.StylePaths = append(c.StylePaths, v.Strings()...)
	}

	if url := stringProp(meta, "templateUrl"); url != "" {
		c.TemplatePath = url
		templateFile := filepath.Join(filepath.Dir(file), filepath.FromSlash(url))
		text, err := e.source.Read(templateFile)
		if err != nil {
			e.logger.Debug("Template not readable", "component", base.Name, "template", templateFile, "error", err.Error())
		} else {
			c.TemplateUsage = ParseTemplate(text)
		}
	} else if tpl := stringProp(meta, "template"); tpl != "" {
		c.InlineTemplate = true
		c.TemplateUsage = ParseTemplate(tpl)
	}
	return c
}

func directive(meta tsparse.Value, base BaseInfo) Directive {
	d := Directive{
		BaseInfo:      base,
		Selector:      stringProp(meta, "selector"),
		Standalone:    boolProp(meta, "standalone", false),
		HostBindings:  []string{},
		HostListeners: []string{},
	}
	if host, ok := meta.Prop("host"); ok {
		props := host.StringProps()
		for _, key := range host.Keys() {
			value, ok := props[key]
			if !ok {
				continue
			}
			if strings.HasPrefix(key, "(") {
				d.HostListeners = append(d.HostListeners, value)
			} else {
				d.HostBindings = append(d.HostBindings, value)
			}
		}
	}
	return d
}

func pipe(meta tsparse.Value, base BaseInfo) Pipe {
	return Pipe{
		BaseInfo:   base,
		PipeName:   stringProp(meta, "name"),
		Pure:       boolProp(meta, "pure", true),
		Standalone: boolProp(meta, "standalone", false),
	}
}

func ngModule(meta tsparse.Value, base BaseInfo) NgModule {
	return NgModule{
		BaseInfo:      base,
		Declarations:  namesProp(meta, "declarations"),
		ModuleImports: namesProp(meta, "imports"),
		Exports:       namesProp(meta, "exports"),
		Providers:     namesProp(meta, "providers"),
		Bootstrap:     namesProp(meta, "bootstrap"),
	}
}

func service(meta tsparse.Value, base BaseInfo) Service {
	s := Service{BaseInfo: base, ProvidedIn: "root"}
	if v, ok := meta.Prop("providedIn"); ok {
		switch v.Kind {
		case tsparse.KindString, tsparse.KindIdentifier:
			s.ProvidedIn = v.Text
		}
	}
	return s
}

// resolveImports resolves every binding of every import in source order.
func (e *Extractor) resolveImports(ctx context.Context, r *imports.Resolver, file string, mod *tsparse.Module) []imports.ResolvedImport {
	resolved := []imports.ResolvedImport{}
	for _, imp := range mod.Imports {
		if len(imp.Bindings) == 0 {
			if ri, ok := r.ResolveModule(ctx, imp.Source, file, e.aliases); ok {
				ri = ri.WithSymbol(imports.Symbol{Name: imports.ModuleSymbol, Kind: imports.Namespace})
				ri.Line = imp.Line
				resolved = append(resolved, ri)
			} else {
				e.unresolved(file, imp.Source, "")
			}
			continue
		}

		for _, b := range imp.Bindings {
			ri, ok := e.resolveBinding(ctx, r, file, imp.Source, b)
			if !ok {
				e.unresolved(file, imp.Source, b.Local)
				continue
			}
			ri.Line = imp.Line
			resolved = append(resolved, ri)
		}
	}
	return resolved
}

func (e *Extractor) resolveBinding(ctx context.Context, r *imports.Resolver, file, source string, b tsparse.Binding) (imports.ResolvedImport, bool) {
	switch b.Kind {
	case tsparse.BindingNamed:
		ri, ok := r.Resolve(ctx, source, b.Name, file, e.aliases)
		if !ok {
			return ri, false
		}
		sym := imports.Symbol{Name: b.Local, Kind: imports.Named}
		if b.Local != b.Name {
			sym.Alias = b.Name
		}
		return ri.WithSymbol(sym), true

	case tsparse.BindingDefault:
		ri, ok := r.Resolve(ctx, source, b.Local, file, e.aliases)
		if !ok {
			ri, ok = r.Resolve(ctx, source, tsparse.DefaultExport, file, e.aliases)
		}
		if !ok {
			return ri, false
		}
		return ri.WithSymbol(imports.Symbol{Name: b.Local, Kind: imports.Default}), true

	default:
		ri, ok := r.ResolveModule(ctx, source, file, e.aliases)
		if !ok {
			return ri, false
		}
		return ri.WithSymbol(imports.Symbol{Name: b.Local, Kind: imports.Namespace}), true
	}
}

func (e *Extractor) unresolved(file, source, name string) {
	e.logger.Debug("Unresolved import", "file", file, "specifier", source, "symbol", name)
}

func stringProp(v tsparse.Value, key string) string {
	p, ok := v.Prop(key)
	if !ok {
		return ""
	}
	s, _ := p.AsString()
	return s
}

func boolProp(v tsparse.Value, key string, def bool) bool {
	p, ok := v.Prop(key)
	if !ok {
		return def
	}
	if b, ok := p.AsBool(); ok {
		return b
	}
	return def
}

func namesProp(v tsparse.Value, key string) []string {
	p, ok := v.Prop(key)
	if !ok {
		return []string{}
	}
	names := p.Names()
	if names == nil {
		return []string{}
	}
	return names
}

func isTestSpec(file string) bool {
	return strings.HasSuffix(file, ".spec.ts")
}

// stem is the file name without its extensions.
func stem(file string) string {
	name := filepath.Base(file)
	if i := strings.Index(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
