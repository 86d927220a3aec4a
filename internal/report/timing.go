// Package report renders analysis summaries for terminals and records
// run timings.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// DefaultTimingFile is where SaveJSON writes when no path is configured.
const DefaultTimingFile = "timing-analysis.json"

// Timing collects the durations of one analysis run.
type Timing struct {
	WorkspaceLoad time.Duration
	Projects      map[string]time.Duration
	Files         map[string]time.Duration
	Total         time.Duration
}

// FileTotal is the summed analysis time of all files.
func (t Timing) FileTotal() time.Duration {
	var sum time.Duration
	for _, d := range t.Files {
		sum += d
	}
	return sum
}

// FileAverage is the mean analysis time per file, or zero without files.
func (t Timing) FileAverage() time.Duration {
	if len(t.Files) == 0 {
		return 0
	}
	return t.FileTotal() / time.Duration(len(t.Files))
}

// FileTiming is one file's analysis duration.
type FileTiming struct {
	Path     string
	Duration time.Duration
}

// Slowest returns the n slowest files, slowest first. Ties order by path.
func (t Timing) Slowest(n int) []FileTiming {
	out := make([]FileTiming, 0, len(t.Files))
	for p, d := range t.Files {
		out = append(out, FileTiming{Path: p, Duration: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration > out[j].Duration
		}
		return out[i].Path < out[j].Path
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type timingJSON struct {
	WorkspaceLoadMs int64              `json:"workspace_load_time_ms"`
	TotalMs         int64              `json:"total_time_ms"`
	FileAnalysisMs  [][2]any           `json:"file_analysis_times"`
	ProjectMs       map[string]float64 `json:"project_times_ms,omitempty"`
}

// MarshalJSON writes durations as milliseconds and file times as
// [path, ms] pairs ordered by path.
func (t Timing) MarshalJSON() ([]byte, error) {
	files := make([]string, 0, len(t.Files))
	for p := range t.Files {
		files = append(files, p)
	}
	sort.Strings(files)

	out := timingJSON{
		WorkspaceLoadMs: t.WorkspaceLoad.Milliseconds(),
		TotalMs:         t.Total.Milliseconds(),
		FileAnalysisMs:  make([][2]any, 0, len(files)),
	}
	for _, p := range files {
		out.FileAnalysisMs = append(out.FileAnalysisMs, [2]any{p, t.Files[p].Milliseconds()})
	}
	if len(t.Projects) > 0 {
		out.ProjectMs = make(map[string]float64, len(t.Projects))
		for name, d := range t.Projects {
			out.ProjectMs[name] = float64(d.Microseconds()) / 1000
		}
	}
	return json.Marshal(out)
}

// SaveJSON writes the timing to path as indented JSON.
func (t Timing) SaveJSON(path string) error {
	if path == "" {
		path = DefaultTimingFile
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timing: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
