package ng

import (
	"sort"
	"strings"
)

// LinkReferences returns a sorted copy of results with References filled
// in. A component using another element's selector, directive name or
// pipe name in its template appears in that element's UsedByTemplate; an
// element importing a file appears in UsedByImports of the components,
// directives, pipes, modules and services declared there. Self references
// are dropped.
func LinkReferences(results Results) Results {
	out := results.Sorted()

	components := make(map[string][]string)
	directives := make(map[string][]string)
	pipes := make(map[string][]string)
	byPath := make(map[string][]string)

	for i := range out.Components {
		c := &out.Components[i]
		for _, sel := range selectorNames(c.Selector) {
			components[sel] = append(components[sel], c.Key())
		}
		byPath[c.RelativePath] = append(byPath[c.RelativePath], c.Key())
	}
	for i := range out.Directives {
		d := &out.Directives[i]
		for _, sel := range selectorNames(d.Selector) {
			directives[sel] = append(directives[sel], d.Key())
		}
		byPath[d.RelativePath] = append(byPath[d.RelativePath], d.Key())
	}
	for i := range out.Pipes {
		p := &out.Pipes[i]
		if p.PipeName != "" {
			pipes[p.PipeName] = append(pipes[p.PipeName], p.Key())
		}
		byPath[p.RelativePath] = append(byPath[p.RelativePath], p.Key())
	}
	for i := range out.Modules {
		byPath[out.Modules[i].RelativePath] = append(byPath[out.Modules[i].RelativePath], out.Modules[i].Key())
	}
	for i := range out.Services {
		byPath[out.Services[i].RelativePath] = append(byPath[out.Services[i].RelativePath], out.Services[i].Key())
	}

	usedByTemplate := make(map[string]map[string]bool)
	usedByImports := make(map[string]map[string]bool)
	mark := func(stats map[string]map[string]bool, target, user string) {
		if target == user {
			return
		}
		if stats[target] == nil {
			stats[target] = make(map[string]bool)
		}
		stats[target][user] = true
	}

	for i := range out.Components {
		c := &out.Components[i]
		user := c.Key()
		for _, tag := range c.TemplateUsage.Components {
			for _, target := range components[tag] {
				mark(usedByTemplate, target, user)
			}
		}
		for _, name := range c.TemplateUsage.Directives {
			for _, target := range directives[name] {
				mark(usedByTemplate, target, user)
			}
		}
		for _, name := range c.TemplateUsage.Pipes {
			for _, target := range pipes[name] {
				mark(usedByTemplate, target, user)
			}
		}
	}

	elements := out.Elements()
	for _, e := range elements {
		user := e.Base().Key()
		for _, imp := range e.Base().Imports {
			for _, target := range byPath[imp.RelativePath] {
				mark(usedByImports, target, user)
			}
		}
	}

	for _, e := range elements {
		b := e.Base()
		key := b.Key()
		b.References = References{
			UsedByTemplate: setList(usedByTemplate[key]),
			UsedByImports:  setList(usedByImports[key]),
		}
	}
	return out
}

// selectorNames splits a selector list into the names templates use:
// element names as written and attribute selectors without brackets.
func selectorNames(selector string) []string {
	var out []string
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimSuffix(strings.TrimPrefix(part, "["), "]")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setList(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
