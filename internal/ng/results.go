package ng

import (
	"slices"
	"sort"
)

// Results collects the elements of any number of files. The zero value
// is empty and is the identity of Merge.
type Results struct {
	Components []Component `json:"components" yaml:"components" toml:"components"`
	Directives []Directive `json:"directives" yaml:"directives" toml:"directives"`
	Pipes      []Pipe      `json:"pipes" yaml:"pipes" toml:"pipes"`
	Modules    []NgModule  `json:"modules" yaml:"modules" toml:"modules"`
	Services   []Service   `json:"services" yaml:"services" toml:"services"`
	TestSpecs  []TestSpec  `json:"testSpecs" yaml:"testSpecs" toml:"testSpecs"`
	Others     []Other     `json:"others" yaml:"others" toml:"others"`
}

// Merge returns the multiset union of r and other. Neither input is
// modified.
func (r Results) Merge(other Results) Results {
	return Results{
		Components: slices.Concat(r.Components, other.Components),
		Directives: slices.Concat(r.Directives, other.Directives),
		Pipes:      slices.Concat(r.Pipes, other.Pipes),
		Modules:    slices.Concat(r.Modules, other.Modules),
		Services:   slices.Concat(r.Services, other.Services),
		TestSpecs:  slices.Concat(r.TestSpecs, other.TestSpecs),
		Others:     slices.Concat(r.Others, other.Others),
	}
}

// Len returns the number of elements.
func (r Results) Len() int {
	return len(r.Components) + len(r.Directives) + len(r.Pipes) + len(r.Modules) +
		len(r.Services) + len(r.TestSpecs) + len(r.Others)
}

// Counts returns the number of elements per kind.
func (r Results) Counts() map[Kind]int {
	return map[Kind]int{
		KindComponent: len(r.Components),
		KindDirective: len(r.Directives),
		KindPipe:      len(r.Pipes),
		KindModule:    len(r.Modules),
		KindService:   len(r.Services),
		KindTestSpec:  len(r.TestSpecs),
		KindOther:     len(r.Others),
	}
}

// Elements returns pointers to every element of r, grouped by kind in
// Kinds order. The pointers alias r's slices.
func (r Results) Elements() []Element {
	out := make([]Element, 0, r.Len())
	for i := range r.Components {
		out = append(out, &r.Components[i])
	}
	for i := range r.Directives {
		out = append(out, &r.Directives[i])
	}
	for i := range r.Pipes {
		out = append(out, &r.Pipes[i])
	}
	for i := range r.Modules {
		out = append(out, &r.Modules[i])
	}
	for i := range r.Services {
		out = append(out, &r.Services[i])
	}
	for i := range r.TestSpecs {
		out = append(out, &r.TestSpecs[i])
	}
	for i := range r.Others {
		out = append(out, &r.Others[i])
	}
	return out
}

// Sorted returns a copy of r with every list ordered by relative path and
// name. Empty lists are non-nil so they serialize as empty arrays.
func (r Results) Sorted() Results {
	return Results{
		Components: sortedCopy(r.Components, (*Component).Base),
		Directives: sortedCopy(r.Directives, (*Directive).Base),
		Pipes:      sortedCopy(r.Pipes, (*Pipe).Base),
		Modules:    sortedCopy(r.Modules, (*NgModule).Base),
		Services:   sortedCopy(r.Services, (*Service).Base),
		TestSpecs:  sortedCopy(r.TestSpecs, (*TestSpec).Base),
		Others:     sortedCopy(r.Others, (*Other).Base),
	}
}

func sortedCopy[T any](in []T, base func(*T) *BaseInfo) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := base(&out[i]), base(&out[j])
		if a.RelativePath != b.RelativePath {
			return a.RelativePath < b.RelativePath
		}
		return a.Name < b.Name
	})
	return out
}

// Files returns the relative path and kind of every element, one entry per
// file and kind, sorted by path.
func (r Results) Files() []FileKind {
	seen := make(map[FileKind]bool)
	var out []FileKind
	for _, e := range r.Elements() {
		fk := FileKind{Path: e.Base().RelativePath, Kind: e.Kind(), Project: e.Base().PackageName}
		if !seen[fk] {
			seen[fk] = true
			out = append(out, fk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// FileKind pairs an analyzed file with an element kind found in it.
type FileKind struct {
	Path    string
	Kind    Kind
	Project string
}
