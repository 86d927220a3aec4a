package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ngaerrors "nga/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}
}

func TestDecodeJSONC(t *testing.T) {
	src := `{
  // line comment
  "a": "http://x/*not a comment*/", /* block
  comment */ "b": [1, 2,],
  "c": {"d": "quote \" // still string",},
}`
	var got map[string]any
	require.NoError(t, decodeJSONC([]byte(src), &got))
	assert.Equal(t, "http://x/*not a comment*/", got["a"])
	assert.Equal(t, []any{1.0, 2.0}, got["b"])
	assert.Equal(t, map[string]any{"d": `quote " // still string`}, got["c"])

	assert.Error(t, decodeJSONC([]byte(`{"a": }`), &got))
}

func TestTSConfig_ExtendsAndRebase(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.base.json": `{
			"compilerOptions": {
				"baseUrl": ".",
				"paths": {
					"@acme/ui": ["libs/ui/src/index.ts"],
					"@acme/core/*": ["libs/core/src/*"],
					"@app/": ["src/app/"]
				}
			}
		}`,
		"apps/shell/tsconfig.json": `{
			// project overrides one key
			"extends": "../../tsconfig.base.json",
			"compilerOptions": {
				"paths": {"@acme/ui": ["libs/ui-next/src/index.ts"]},
			},
		}`,
	})

	cfg, err := tsconfigLoader{root: root}.Load(filepath.Join(root, "apps", "shell", "tsconfig.json"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.BaseURL)
	assert.Equal(t, map[string][]string{
		"@acme/ui":     {"libs/ui-next/src/index.ts"},
		"@acme/core/*": {"libs/core/src/*"},
		"@app/":        {"src/app/"},
	}, cfg.Paths)

	alias, rest, ok := cfg.Aliases().Match("@acme/core/log")
	require.True(t, ok)
	assert.Equal(t, []string{"libs/core/src/log"}, alias.Expand(rest))
}

func TestTSConfig_PathsWithoutBaseURL(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"libs/feature/tsconfig.json": `{"compilerOptions": {"paths": {"@f/*": ["./src/*"]}}}`,
	})

	cfg, err := tsconfigLoader{root: root}.Load(filepath.Join(root, "libs", "feature", "tsconfig.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"libs/feature/src/*"}, cfg.Paths["@f/*"])
}

func TestTSConfig_ExtendsCycle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.json": `{"extends": "./b.json"}`,
		"b.json": `{"extends": "./a"}`,
	})

	_, err := tsconfigLoader{root: root}.Load(filepath.Join(root, "a.json"))
	assert.ErrorContains(t, err, "cycle")
}

func TestTSConfig_MissingExtendsIgnored(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json": `{"extends": ["@nx/missing/tsconfig", "./nope.json"], "compilerOptions": {"baseUrl": "src"}}`,
	})

	cfg, err := tsconfigLoader{root: root}.Load(filepath.Join(root, "tsconfig.json"))
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.BaseURL)
}

func TestParseDeclarations(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, DeclarationFile)
	writeTree(t, root, map[string]string{DeclarationFile: `
version = 1

[[project]]
name = "assets"
root = "libs/assets"
tags = ["scope:shared"]

[aliases]
"@assets/*" = ["libs/assets/src/*"]
`})

	d, err := ParseDeclarations(path)
	require.NoError(t, err)
	require.Len(t, d.Projects, 1)
	assert.Equal(t, "assets", d.Projects[0].Name)
	assert.Equal(t, []string{"scope:shared"}, d.Projects[0].Tags)
	assert.Equal(t, []string{"libs/assets/src/*"}, d.Aliases["@assets/*"])

	out := filepath.Join(root, "copy.toml")
	require.NoError(t, d.Write(out))
	again, err := ParseDeclarations(out)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestParseDeclarations_Invalid(t *testing.T) {
	tests := map[string]string{
		"no name":   "[[project]]\nroot = \"x\"\n",
		"no root":   "[[project]]\nname = \"x\"\n",
		"duplicate": "[[project]]\nname = \"x\"\nroot = \"a\"\n[[project]]\nname = \"x\"\nroot = \"b\"\n",
		"version":   "version = 9\n",
		"syntax":    "[[project\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, map[string]string{DeclarationFile: body})
			_, err := ParseDeclarations(filepath.Join(root, DeclarationFile))
			assert.Error(t, err)
		})
	}
}

func sampleWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.base.json": `{"compilerOptions": {"baseUrl": ".", "paths": {"@acme/ui": ["libs/ui/src/index.ts"]}}}`,
		"apps/shell/project.json": `{
			"name": "shell", "sourceRoot": "apps/shell/src", "prefix": "app",
			"tags": ["type:app"], "projectType": "application"
		}`,
		"apps/shell/tsconfig.json":            `{"extends": "../../tsconfig.base.json"}`,
		"libs/ui/project.json":                `{"name": "ui", "sourceRoot": "libs/ui/src", "projectType": "library"}`,
		"libs/broken/project.json":            `{"name": `,
		"node_modules/pkg/project.json":       `{"name": "vendored"}`,
		"dist/apps/shell/project.json":        `{"name": "shell-dist"}`,
		"libs/assets/src/index.ts":            ``,
		DeclarationFile:                       "[[project]]\nname = \"assets\"\nroot = \"libs/assets\"\n\n[aliases]\n\"@assets/*\" = [\"libs/assets/src/*\"]\n",
		"libs/ui/src/index.ts":                ``,
		"apps/shell/src/app/app.component.ts": ``,
	})
	return root
}

func TestDiscover(t *testing.T) {
	root := sampleWorkspace(t)

	ws, err := Discover(root, Options{})
	require.NoError(t, err)

	var names []string
	for _, p := range ws.Projects {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"assets", "shell", "ui"}, names)

	shell, ok := ws.Project("shell")
	require.True(t, ok)
	assert.Equal(t, "apps/shell", shell.RelativeRoot)
	assert.Equal(t, "application", shell.ProjectType)
	assert.Equal(t, []string{"type:app"}, shell.Tags)
	assert.Equal(t, filepath.Join(root, "apps", "shell", "tsconfig.json"), shell.TSConfig.File)

	// tsconfig paths plus the nga.toml aliases.
	_, _, ok = shell.Aliases.Match("@acme/ui")
	assert.True(t, ok)
	_, _, ok = shell.Aliases.Match("@assets/logo")
	assert.True(t, ok)

	ui, ok := ws.Project("ui")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "tsconfig.base.json"), ui.TSConfig.File, "falls back to the base config")

	assets, ok := ws.Project("assets")
	require.True(t, ok)
	assert.True(t, assets.Declared)

	require.Len(t, ws.Warnings, 1)
	assert.Equal(t, filepath.Join(root, "libs", "broken", "project.json"), ws.Warnings[0].Path)
}

func TestDiscover_ProjectFilter(t *testing.T) {
	root := sampleWorkspace(t)

	ws, err := Discover(root, Options{Projects: []string{"ui", "missing"}})
	require.NoError(t, err)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, "ui", ws.Projects[0].Name)
}

func TestDiscover_UnreadableRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
	assert.Equal(t, ngaerrors.WorkspaceUnreadable, ngaerrors.CodeOf(err))
}

func TestDiscover_BadTSConfigSkipsProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"apps/a/project.json":  `{"name": "a"}`,
		"apps/a/tsconfig.json": `{"compilerOptions": `,
		"apps/b/project.json":  `{"name": "b"}`,
	})

	ws, err := Discover(root, Options{})
	require.NoError(t, err)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, "b", ws.Projects[0].Name)
	require.Len(t, ws.Warnings, 1)
	assert.Contains(t, ws.Warnings[0].Message, "PROJECT_CONFIG_INVALID")
}
