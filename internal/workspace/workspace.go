// Package workspace discovers the projects of an Nx workspace and their
// path-mapping configuration.
package workspace

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	ngaerrors "nga/internal/errors"
	"nga/internal/imports"
	"nga/internal/paths"
	"nga/internal/slogutil"
)

// skippedDirs are never searched for project.json.
var skippedDirs = map[string]bool{
	paths.NodeModulesDir: true,
	".git":               true,
	"dist":               true,
	".nx":                true,
	".angular":           true,
	"tmp":                true,
}

// Warning is a project-level problem that did not stop discovery.
type Warning struct {
	Path    string `json:"path" yaml:"path" toml:"path"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

// Options control discovery.
type Options struct {
	// Projects restricts discovery to these names; empty means all.
	Projects []string
	Logger   *slog.Logger
}

// Workspace is a discovered workspace.
type Workspace struct {
	Root     string
	Projects []Project
	Warnings []Warning
}

// Project returns the project with the given name.
func (w *Workspace) Project(name string) (Project, bool) {
	for _, p := range w.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// Discover loads every project of the workspace at root. A root that
// cannot be read is fatal; a broken project is skipped with a warning.
func Discover(root string, opts Options) (*Workspace, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, unreadable(root, err)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, unreadable(abs, err)
	}

	ws := &Workspace{Root: abs}
	d := &discoverer{ws: ws, loader: tsconfigLoader{root: abs}, logger: logger}

	var extra imports.AliasTable
	declPath := filepath.Join(abs, DeclarationFile)
	var decls *Declarations
	if paths.IsFile(declPath) {
		decls, err = ParseDeclarations(declPath)
		if err != nil {
			d.warn(declPath, err)
		} else {
			extra = imports.NewAliasTable(decls.Aliases)
		}
	}

	var configs []string
	err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			d.warn(path, walkErr)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != abs && skippedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Name() == ProjectFile {
			configs = append(configs, path)
		}
		return nil
	})
	if err != nil {
		return nil, unreadable(abs, err)
	}

	sort.Strings(configs)
	seen := make(map[string]bool)
	for _, cfgPath := range configs {
		p, ok := d.fromProjectFile(cfgPath)
		if !ok {
			continue
		}
		d.add(p, extra, seen)
	}
	if decls != nil {
		for _, decl := range decls.Projects {
			p, ok := d.fromDeclaration(declPath, decl)
			if !ok {
				continue
			}
			d.add(p, extra, seen)
		}
	}

	ws.Projects = filterProjects(ws.Projects, opts.Projects, d)
	sort.Slice(ws.Projects, func(i, j int) bool { return ws.Projects[i].Name < ws.Projects[j].Name })

	logger.Debug("Workspace discovered",
		"root", abs,
		"projects", len(ws.Projects),
		"warnings", len(ws.Warnings),
	)
	return ws, nil
}

type discoverer struct {
	ws     *Workspace
	loader tsconfigLoader
	logger *slog.Logger
}

func (d *discoverer) warn(path string, err error) {
	d.logger.Warn("Skipping project configuration", "path", path, "error", err.Error())
	d.ws.Warnings = append(d.ws.Warnings, Warning{Path: path, Message: err.Error()})
}

func (d *discoverer) add(p Project, extra imports.AliasTable, seen map[string]bool) {
	if seen[p.Name] {
		d.ws.Warnings = append(d.ws.Warnings, Warning{
			Path:    p.ConfigPath,
			Message: "duplicate project name " + p.Name,
		})
		return
	}
	seen[p.Name] = true
	p.Aliases = p.TSConfig.Aliases().Merge(extra)
	d.ws.Projects = append(d.ws.Projects, p)
}

func (d *discoverer) fromProjectFile(cfgPath string) (Project, bool) {
	cfg, err := readProjectConfig(cfgPath)
	if err != nil {
		d.warn(cfgPath, err)
		return Project{}, false
	}
	return d.finish(Project{
		ProjectConfig: cfg,
		Root:          filepath.Dir(cfgPath),
		ConfigPath:    cfgPath,
	})
}

func (d *discoverer) fromDeclaration(declPath string, decl ProjectDeclaration) (Project, bool) {
	root := filepath.Join(d.ws.Root, filepath.FromSlash(decl.Root))
	if !paths.IsDir(root) {
		d.warn(declPath, &declError{name: decl.Name, root: decl.Root})
		return Project{}, false
	}
	return d.finish(Project{
		ProjectConfig: ProjectConfig{
			Name:        decl.Name,
			SourceRoot:  decl.SourceRoot,
			Prefix:      decl.Prefix,
			Tags:        decl.Tags,
			ProjectType: decl.ProjectType,
		},
		Root:       root,
		ConfigPath: declPath,
		Declared:   true,
	})
}

// finish attaches the effective tsconfig.
func (d *discoverer) finish(p Project) (Project, bool) {
	p.RelativeRoot = paths.RelativeTo(p.Root, d.ws.Root)

	tsPath, ok := d.tsconfigFor(p.Root)
	if !ok {
		return p, true
	}
	ts, err := d.loader.Load(tsPath)
	if err != nil {
		d.warn(tsPath, ngaerrors.NewNgaError(ngaerrors.ProjectConfigInvalid, "cannot load tsconfig for "+p.Name, err, nil))
		return Project{}, false
	}
	p.TSConfig = ts
	return p, true
}

// tsconfigFor picks the project's tsconfig.json, falling back to the
// workspace tsconfig.base.json and then tsconfig.json.
func (d *discoverer) tsconfigFor(projectRoot string) (string, bool) {
	candidates := []string{
		filepath.Join(projectRoot, "tsconfig.json"),
		filepath.Join(d.ws.Root, "tsconfig.base.json"),
		filepath.Join(d.ws.Root, "tsconfig.json"),
	}
	for _, c := range candidates {
		if paths.IsFile(c) {
			return c, true
		}
	}
	return "", false
}

func filterProjects(projects []Project, names []string, d *discoverer) []Project {
	if len(names) == 0 {
		return projects
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" {
			wanted[n] = false
		}
	}
	var out []Project
	for _, p := range projects {
		if _, ok := wanted[p.Name]; ok {
			wanted[p.Name] = true
			out = append(out, p)
		}
	}
	for name, found := range wanted {
		if !found {
			d.logger.Warn("Requested project not found", "project", name)
		}
	}
	return out
}

type declError struct {
	name, root string
}

func (e *declError) Error() string {
	return "declared project " + e.name + " root " + e.root + " is not a directory"
}

func unreadable(root string, err error) error {
	return ngaerrors.NewNgaError(ngaerrors.WorkspaceUnreadable, "cannot read workspace", err,
		ngaerrors.GetSuggestedFixes(ngaerrors.WorkspaceUnreadable)).
		WithDetails(map[string]string{"root": root})
}
