package ng

import (
	"regexp"
	"sort"
)

var (
	componentTagRe  = regexp.MustCompile(`<([a-z][a-z0-9]*-[a-z0-9-]+)`)
	structuralDirRe = regexp.MustCompile(`\*ng([A-Z][a-zA-Z]*)`)
	attributeDirRe  = regexp.MustCompile(`\[(ng[A-Z][a-zA-Z]*)\]`)
	pipeRe          = regexp.MustCompile(`(?:^|[^|])\|\s*([a-zA-Z][a-zA-Z0-9]*)`)
)

// ParseTemplate finds custom element tags, ng directives and pipes in a
// template. Each list is sorted and free of duplicates.
func ParseTemplate(template string) TemplateUsage {
	directives := captures(structuralDirRe, template, "ng")
	directives = append(directives, captures(attributeDirRe, template, "")...)

	return TemplateUsage{
		Components: uniqueSorted(captures(componentTagRe, template, "")),
		Directives: uniqueSorted(directives),
		Pipes:      uniqueSorted(captures(pipeRe, template, "")),
	}
}

func captures(re *regexp.Regexp, s, prefix string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, prefix+m[1])
	}
	return out
}

func uniqueSorted(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
