package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"nga/internal/imports"
	"nga/internal/paths"
)

// decodeJSONC decodes JSON with comments and trailing commas, as tsconfig
// and project.json files allow.
func decodeJSONC(data []byte, v any) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(std, v)
}

// maxExtendsDepth bounds extends chains.
const maxExtendsDepth = 16

type rawTSConfig struct {
	Extends         json.RawMessage `json:"extends"`
	CompilerOptions *struct {
		BaseURL *string             `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// extendsList accepts both the string and the array form of extends.
func (r rawTSConfig) extendsList() []string {
	if len(r.Extends) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(r.Extends, &one); err == nil {
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(r.Extends, &many); err == nil {
		return many
	}
	return nil
}

// TSConfig is the effective path-mapping configuration after following
// extends. Paths patterns are relative to the workspace root.
type TSConfig struct {
	File    string              `json:"file"`
	BaseURL string              `json:"baseUrl,omitempty"`
	Paths   map[string][]string `json:"paths,omitempty"`
}

// Aliases returns the alias table built from Paths.
func (c TSConfig) Aliases() imports.AliasTable {
	return imports.NewAliasTable(c.Paths)
}

// pathsEntry remembers the directory a paths pattern is relative to.
type pathsEntry struct {
	patterns []string
	dir      string
}

type tsconfigLoader struct {
	root string
}

// Load reads file and its extends chain. Child keys override parent keys;
// baseUrl is inherited.
func (l tsconfigLoader) Load(file string) (TSConfig, error) {
	entries := make(map[string]pathsEntry)
	baseURL := ""
	if err := l.load(file, entries, &baseURL, map[string]bool{}, 0); err != nil {
		return TSConfig{}, err
	}

	cfg := TSConfig{File: file, Paths: make(map[string][]string, len(entries))}
	if baseURL != "" {
		cfg.BaseURL = l.rebase(baseURL)
	}
	for key, e := range entries {
		dir := e.dir
		if baseURL != "" {
			dir = baseURL
		}
		rebased := make([]string, len(e.patterns))
		for i, p := range e.patterns {
			rebased[i] = l.rebasePattern(dir, p)
		}
		cfg.Paths[key] = rebased
	}
	return cfg, nil
}

// load merges file into entries and baseURL without overriding values
// already set by a descendant config.
func (l tsconfigLoader) load(file string, entries map[string]pathsEntry, baseURL *string, seen map[string]bool, depth int) error {
	if seen[file] {
		return fmt.Errorf("tsconfig extends cycle at %s", file)
	}
	if depth > maxExtendsDepth {
		return fmt.Errorf("tsconfig extends chain deeper than %d at %s", maxExtendsDepth, file)
	}
	seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var raw rawTSConfig
	if err := decodeJSONC(data, &raw); err != nil {
		return fmt.Errorf("invalid tsconfig %s: %w", file, err)
	}

	dir := filepath.Dir(file)
	if opts := raw.CompilerOptions; opts != nil {
		if opts.BaseURL != nil && *baseURL == "" {
			*baseURL = filepath.Join(dir, filepath.FromSlash(*opts.BaseURL))
		}
		for key, patterns := range opts.Paths {
			if _, ok := entries[key]; !ok {
				entries[key] = pathsEntry{patterns: patterns, dir: dir}
			}
		}
	}

	for _, ext := range raw.extendsList() {
		parent, ok := l.resolveExtends(dir, ext)
		if !ok {
			continue
		}
		if err := l.load(parent, entries, baseURL, seen, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// resolveExtends resolves a relative, absolute or package extends target.
// Targets that cannot be found are ignored.
func (l tsconfigLoader) resolveExtends(dir, ext string) (string, bool) {
	var candidate string
	switch {
	case filepath.IsAbs(ext):
		candidate = ext
	case strings.HasPrefix(ext, "./") || strings.HasPrefix(ext, "../"):
		candidate = filepath.Join(dir, filepath.FromSlash(ext))
	default:
		candidate = filepath.Join(l.root, paths.NodeModulesDir, filepath.FromSlash(ext))
	}

	if paths.IsFile(candidate) {
		return candidate, true
	}
	if !strings.HasSuffix(candidate, ".json") && paths.IsFile(candidate+".json") {
		return candidate + ".json", true
	}
	return "", false
}

// rebasePattern rebases a paths pattern declared relative to dir,
// keeping a trailing slash so prefix patterns still append cleanly.
func (l tsconfigLoader) rebasePattern(dir, pattern string) string {
	out := l.rebase(filepath.Join(dir, filepath.FromSlash(pattern)))
	if strings.HasSuffix(pattern, "/") && !strings.HasSuffix(out, "/") {
		out += "/"
	}
	return out
}

// rebase expresses an absolute path relative to the workspace root.
func (l tsconfigLoader) rebase(abs string) string {
	rel, err := filepath.Rel(l.root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
