package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// DepsResponse is the result of "nga deps".
type DepsResponse struct {
	RunID      string   `json:"runId"`
	File       string   `json:"file"`
	Reverse    bool     `json:"reverse"`
	Transitive bool     `json:"transitive"`
	Files      []string `json:"files"`
}

// CyclesResponse is the result of "nga cycles".
type CyclesResponse struct {
	RunID  string     `json:"runId"`
	Cycles [][]string `json:"cycles"`
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *DepsResponse:
		return formatDepsHuman(v), nil
	case *CyclesResponse:
		return formatCyclesHuman(v), nil
	default:
		return formatJSON(resp)
	}
}

func formatDepsHuman(resp *DepsResponse) string {
	var b strings.Builder

	relation := "Dependencies"
	if resp.Reverse {
		relation = "Dependents"
	}
	if resp.Transitive {
		relation = "Transitive " + strings.ToLower(relation)
	}
	fmt.Fprintf(&b, "%s of %s (%d):\n", relation, resp.File, len(resp.Files))

	if len(resp.Files) == 0 {
		b.WriteString("  (none)")
		return b.String()
	}
	for i, f := range resp.Files {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  " + f)
	}
	return b.String()
}

func formatCyclesHuman(resp *CyclesResponse) string {
	if len(resp.Cycles) == 0 {
		return "No circular dependencies."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Circular dependencies (%d):", len(resp.Cycles))
	for i, cycle := range resp.Cycles {
		fmt.Fprintf(&b, "\n  %d. %s -> %s", i+1, strings.Join(cycle, " -> "), cycle[0])
	}
	return b.String()
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
