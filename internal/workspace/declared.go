package workspace

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// DeclarationFile is the optional workspace file declaring extra projects
// and aliases.
const DeclarationFile = "nga.toml"

// ProjectDeclaration declares a project folder without a project.json.
type ProjectDeclaration struct {
	Name        string   `toml:"name"`
	Root        string   `toml:"root"`
	SourceRoot  string   `toml:"sourceRoot,omitempty"`
	Prefix      string   `toml:"prefix,omitempty"`
	Tags        []string `toml:"tags,omitempty"`
	ProjectType string   `toml:"projectType,omitempty"`
}

// Declarations is the root structure of nga.toml.
type Declarations struct {
	Version  int                  `toml:"version"`
	Projects []ProjectDeclaration `toml:"project"`
	// Aliases are merged into every project's alias table and win over
	// tsconfig paths with the same key.
	Aliases map[string][]string `toml:"aliases"`
}

// ParseDeclarations reads an nga.toml file.
func ParseDeclarations(path string) (*Declarations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", DeclarationFile, err)
	}

	var d Declarations
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DeclarationFile, err)
	}

	if d.Version == 0 {
		d.Version = 1
	}
	if d.Version != 1 {
		return nil, fmt.Errorf("unsupported %s version: %d", DeclarationFile, d.Version)
	}

	seen := make(map[string]bool, len(d.Projects))
	for i, p := range d.Projects {
		if p.Name == "" {
			return nil, fmt.Errorf("project %d: name is required", i)
		}
		if p.Root == "" {
			return nil, fmt.Errorf("project %q: root is required", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate project name: %s", p.Name)
		}
		seen[p.Name] = true
	}
	return &d, nil
}

// Write serializes the declarations to path.
func (d *Declarations) Write(path string) error {
	data, err := toml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", DeclarationFile, err)
	}
	return os.WriteFile(path, data, 0644)
}
