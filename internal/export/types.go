// Package export serializes analysis results in JSON, YAML, TOML or SCIP,
// optionally zstd compressed.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"nga/internal/depgraph"
	"nga/internal/ng"
	"nga/internal/workspace"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatSCIP Format = "scip"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatSCIP}

// CompressedSuffix marks zstd compressed output paths.
const CompressedSuffix = ".zst"

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatSCIP:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml, toml or scip)", s)
}

// FormatForPath guesses the format from the file extension, ignoring a
// trailing .zst. Unknown extensions are JSON.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, CompressedSuffix)))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".scip":
		return FormatSCIP
	}
	return FormatJSON
}

// Document is the serialized form of one analysis run. The element lists
// sit at the top level next to the run metadata.
type Document struct {
	RunID         string    `json:"runId" yaml:"runId" toml:"runId"`
	Tool          string    `json:"tool" yaml:"tool" toml:"tool"`
	Version       string    `json:"version" yaml:"version" toml:"version"`
	GeneratedAt   time.Time `json:"generatedAt" yaml:"generatedAt" toml:"generatedAt"`
	WorkspaceRoot string    `json:"workspaceRoot" yaml:"workspaceRoot" toml:"workspaceRoot"`
	Fingerprint   string    `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`

	Projects []Project `json:"projects" yaml:"projects" toml:"projects"`

	ng.Results `yaml:",inline"`

	Graph    Graph    `json:"graph" yaml:"graph" toml:"graph"`
	Warnings []string `json:"warnings" yaml:"warnings" toml:"warnings"`
}

// Project describes one analyzed project.
type Project struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Root        string   `json:"root" yaml:"root" toml:"root"`
	SourceRoot  string   `json:"sourceRoot" yaml:"sourceRoot" toml:"sourceRoot"`
	ProjectType string   `json:"projectType" yaml:"projectType" toml:"projectType"`
	Tags        []string `json:"tags" yaml:"tags" toml:"tags"`
	Files       int      `json:"files" yaml:"files" toml:"files"`
	Elements    int      `json:"elements" yaml:"elements" toml:"elements"`
}

// Graph is the workspace-relative dependency graph.
type Graph struct {
	Nodes  []string        `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges  []depgraph.Edge `json:"edges" yaml:"edges" toml:"edges"`
	Cycles [][]string      `json:"cycles" yaml:"cycles" toml:"cycles"`
}

func projectOf(p workspace.Project, files, elements int) Project {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Project{
		Name:        p.Name,
		Root:        p.RelativeRoot,
		SourceRoot:  p.SourceRoot,
		ProjectType: p.ProjectType,
		Tags:        tags,
		Files:       files,
		Elements:    elements,
	}
}
