package imports

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Alias maps a specifier prefix to candidate path patterns. A pattern
// containing * receives the rest of the specifier in place of the
// wildcard; a pattern without one gets the rest appended. An exact alias
// matches only the specifier equal to its prefix.
type Alias struct {
	Prefix   string   `json:"prefix" toml:"prefix"`
	Patterns []string `json:"patterns" toml:"patterns"`
	Exact    bool     `json:"exact,omitempty" toml:"exact,omitempty"`
}

// Matches reports whether the alias applies to specifier.
func (a Alias) Matches(specifier string) bool {
	if a.Exact {
		return specifier == a.Prefix
	}
	return strings.HasPrefix(specifier, a.Prefix)
}

// key is the tsconfig paths key the alias was built from.
func (a Alias) key() string {
	if a.Exact || strings.HasSuffix(a.Prefix, "/") {
		return a.Prefix
	}
	return a.Prefix + "*"
}

// Expand returns the candidate paths for the part of a specifier that
// follows the prefix.
func (a Alias) Expand(rest string) []string {
	out := make([]string, 0, len(a.Patterns))
	for _, p := range a.Patterns {
		if strings.Contains(p, "*") {
			out = append(out, strings.Replace(p, "*", rest, 1))
		} else {
			out = append(out, p+rest)
		}
	}
	return out
}

// AliasTable is an ordered alias list: longest prefix first, ties broken
// lexically. The zero value matches nothing.
type AliasTable struct {
	entries []Alias
	id      string
}

// NewAliasTable builds a table from tsconfig-style paths. A trailing * on
// a key is dropped to form the prefix. A key ending in / is a prefix as
// well; any other key is exact, as tsconfig treats keys without a wildcard.
func NewAliasTable(paths map[string][]string) AliasTable {
	entries := make([]Alias, 0, len(paths))
	for key, patterns := range paths {
		prefix, wildcard := strings.CutSuffix(key, "*")
		entries = append(entries, Alias{
			Prefix:   prefix,
			Patterns: append([]string(nil), patterns...),
			Exact:    !wildcard && !strings.HasSuffix(key, "/"),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Prefix) != len(entries[j].Prefix) {
			return len(entries[i].Prefix) > len(entries[j].Prefix)
		}
		if entries[i].Prefix != entries[j].Prefix {
			return entries[i].Prefix < entries[j].Prefix
		}
		return entries[i].Exact && !entries[j].Exact
	})

	h := xxhash.New()
	for _, e := range entries {
		_, _ = h.WriteString(e.key())
		_, _ = h.Write([]byte{0})
		for _, p := range e.Patterns {
			_, _ = h.WriteString(p)
			_, _ = h.Write([]byte{1})
		}
	}
	return AliasTable{entries: entries, id: strconv.FormatUint(h.Sum64(), 36)}
}

// Match returns the first alias that applies to the specifier, and the
// remainder of the specifier after the prefix.
func (t AliasTable) Match(specifier string) (Alias, string, bool) {
	for _, a := range t.entries {
		if a.Matches(specifier) {
			return a, specifier[len(a.Prefix):], true
		}
	}
	return Alias{}, "", false
}

// Entries returns the aliases in match order.
func (t AliasTable) Entries() []Alias {
	return append([]Alias(nil), t.entries...)
}

// Len returns the number of aliases.
func (t AliasTable) Len() int {
	return len(t.entries)
}

// ID identifies the table contents. Tables built from equal maps share an ID.
func (t AliasTable) ID() string {
	return t.id
}

// Merge returns a table holding the aliases of t and other; other wins on
// equal prefixes.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	paths := make(map[string][]string, len(t.entries)+len(other.entries))
	for _, a := range t.entries {
		paths[a.key()] = a.Patterns
	}
	for _, a := range other.entries {
		paths[a.key()] = a.Patterns
	}
	return NewAliasTable(paths)
}
