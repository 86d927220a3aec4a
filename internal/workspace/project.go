package workspace

import (
	"fmt"
	"os"

	"nga/internal/imports"
)

// ProjectFile is the Nx per-project configuration file name.
const ProjectFile = "project.json"

// ProjectConfig holds the project.json fields the analyzer reads.
type ProjectConfig struct {
	Name        string   `json:"name" toml:"name"`
	SourceRoot  string   `json:"sourceRoot" toml:"sourceRoot"`
	Prefix      string   `json:"prefix,omitempty" toml:"prefix,omitempty"`
	Tags        []string `json:"tags,omitempty" toml:"tags,omitempty"`
	ProjectType string   `json:"projectType" toml:"projectType"`
}

// Project is one analyzable project of the workspace.
type Project struct {
	ProjectConfig

	// Root is the absolute project directory.
	Root string `json:"root"`
	// RelativeRoot is Root relative to the workspace root.
	RelativeRoot string `json:"relativeRoot"`
	// ConfigPath is the project.json or nga.toml the project came from.
	ConfigPath string   `json:"configPath"`
	Declared   bool     `json:"declared,omitempty"`
	TSConfig   TSConfig `json:"tsconfig"`

	Aliases imports.AliasTable `json:"-"`
}

func readProjectConfig(path string) (ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectConfig{}, err
	}
	var cfg ProjectConfig
	if err := decodeJSONC(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}
	if cfg.Name == "" {
		return ProjectConfig{}, fmt.Errorf("%s has no name", ProjectFile)
	}
	return cfg, nil
}
