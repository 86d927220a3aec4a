// Package ng classifies Angular source files into components, directives,
// pipes, modules, services, test specs and plain files.
package ng

import "nga/internal/imports"

// Kind names an element variant.
type Kind string

const (
	KindComponent Kind = "component"
	KindDirective Kind = "directive"
	KindPipe      Kind = "pipe"
	KindModule    Kind = "module"
	KindService   Kind = "service"
	KindTestSpec  Kind = "test-spec"
	KindOther     Kind = "other"
)

// Kinds lists every element kind in report order.
var Kinds = []Kind{KindComponent, KindDirective, KindPipe, KindModule, KindService, KindTestSpec, KindOther}

// References records who uses an element. Entries are "Name:relative/path".
type References struct {
	UsedByTemplate []string `json:"usedByTemplate" yaml:"usedByTemplate" toml:"usedByTemplate"`
	UsedByImports  []string `json:"usedByImports" yaml:"usedByImports" toml:"usedByImports"`
}

// BaseInfo is shared by every element.
type BaseInfo struct {
	Name         string                   `json:"name" yaml:"name" toml:"name"`
	Imports      []imports.ResolvedImport `json:"imports" yaml:"imports" toml:"imports"`
	SourcePath   string                   `json:"sourcePath" yaml:"sourcePath" toml:"sourcePath"`
	RelativePath string                   `json:"relativePath" yaml:"relativePath" toml:"relativePath"`
	PackageName  string                   `json:"packageName" yaml:"packageName" toml:"packageName"`
	Line         int                      `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	References   References               `json:"references" yaml:"references" toml:"references"`
}

// Key identifies an element across the workspace.
func (b *BaseInfo) Key() string {
	return b.Name + ":" + b.RelativePath
}

// Element is the closed set of element variants. Use a type switch over
// the concrete pointer types to handle each one.
type Element interface {
	Kind() Kind
	Base() *BaseInfo
	sealed()
}

// TemplateUsage lists what a component template refers to.
type TemplateUsage struct {
	Components []string `json:"components" yaml:"components" toml:"components"`
	Directives []string `json:"directives" yaml:"directives" toml:"directives"`
	Pipes      []string `json:"pipes" yaml:"pipes" toml:"pipes"`
}

type Component struct {
	BaseInfo       `yaml:",inline"`
	Selector       string        `json:"selector" yaml:"selector" toml:"selector"`
	TemplatePath   string        `json:"templatePath" yaml:"templatePath" toml:"templatePath"`
	InlineTemplate bool          `json:"inlineTemplate,omitempty" yaml:"inlineTemplate,omitempty" toml:"inlineTemplate,omitempty"`
	StylePaths     []string      `json:"stylePaths" yaml:"stylePaths" toml:"stylePaths"`
	Standalone     bool          `json:"standalone" yaml:"standalone" toml:"standalone"`
	TemplateUsage  TemplateUsage `json:"templateUsage" yaml:"templateUsage" toml:"templateUsage"`
}

type Directive struct {
	BaseInfo      `yaml:",inline"`
	Selector      string   `json:"selector" yaml:"selector" toml:"selector"`
	Standalone    bool     `json:"standalone" yaml:"standalone" toml:"standalone"`
	HostBindings  []string `json:"hostBindings" yaml:"hostBindings" toml:"hostBindings"`
	HostListeners []string `json:"hostListeners" yaml:"hostListeners" toml:"hostListeners"`
}

type Pipe struct {
	BaseInfo   `yaml:",inline"`
	PipeName   string `json:"pipeName" yaml:"pipeName" toml:"pipeName"`
	Pure       bool   `json:"pure" yaml:"pure" toml:"pure"`
	Standalone bool   `json:"standalone" yaml:"standalone" toml:"standalone"`
}

// NgModule is a class decorated with @NgModule.
type NgModule struct {
	BaseInfo      `yaml:",inline"`
	Declarations  []string `json:"declarations" yaml:"declarations" toml:"declarations"`
	ModuleImports []string `json:"moduleImports" yaml:"moduleImports" toml:"moduleImports"`
	Exports       []string `json:"exports" yaml:"exports" toml:"exports"`
	Providers     []string `json:"providers" yaml:"providers" toml:"providers"`
	Bootstrap     []string `json:"bootstrap" yaml:"bootstrap" toml:"bootstrap"`
}

// Service is a class decorated with @Injectable.
type Service struct {
	BaseInfo   `yaml:",inline"`
	ProvidedIn string `json:"providedIn" yaml:"providedIn" toml:"providedIn"`
}

// TestSpec is a *.spec.ts file.
type TestSpec struct {
	BaseInfo `yaml:",inline"`
}

// Other is a file with resolved imports but no Angular decorator.
type Other struct {
	BaseInfo `yaml:",inline"`
}

func (*Component) Kind() Kind { return KindComponent }
func (*Directive) Kind() Kind { return KindDirective }
func (*Pipe) Kind() Kind      { return KindPipe }
func (*NgModule) Kind() Kind  { return KindModule }
func (*Service) Kind() Kind   { return KindService }
func (*TestSpec) Kind() Kind  { return KindTestSpec }
func (*Other) Kind() Kind     { return KindOther }

func (c *Component) Base() *BaseInfo { return &c.BaseInfo }
func (d *Directive) Base() *BaseInfo { return &d.BaseInfo }
func (p *Pipe) Base() *BaseInfo      { return &p.BaseInfo }
func (m *NgModule) Base() *BaseInfo  { return &m.BaseInfo }
func (s *Service) Base() *BaseInfo   { return &s.BaseInfo }
func (t *TestSpec) Base() *BaseInfo  { return &t.BaseInfo }
func (o *Other) Base() *BaseInfo     { return &o.BaseInfo }

func (*Component) sealed() {}
func (*Directive) sealed() {}
func (*Pipe) sealed()      {}
func (*NgModule) sealed()  {}
func (*Service) sealed()   {}
func (*TestSpec) sealed()  {}
func (*Other) sealed()     {}
