package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"nga/internal/ng"
)

// ProjectSummary describes one analyzed project.
type ProjectSummary struct {
	Name     string
	Root     string
	Files    int
	Counts   map[ng.Kind]int
	Duration time.Duration
}

// Summary is everything WriteSummary prints.
type Summary struct {
	WorkspaceRoot string
	Projects      []ProjectSummary
	Nodes         int
	Edges         int
	Cycles        [][]string
	Warnings      []string
	ContentBytes  int64
	Timing        Timing
}

// Options control rendering.
type Options struct {
	// Verbose adds the slowest files and every cycle.
	Verbose bool
	// NoColor disables ANSI colors. Colors are also off when the writer is
	// not a terminal.
	NoColor bool
	// SlowestFiles bounds the verbose file timing table.
	SlowestFiles int
	// HideTiming drops the timing block, for summaries of saved results.
	HideTiming bool
}

const defaultSlowestFiles = 10

// maxCyclesShown bounds the cycle list outside verbose mode.
const maxCyclesShown = 5

// WriteSummary prints a per-project element table, graph statistics,
// cycles, warnings and timing to w.
func WriteSummary(w io.Writer, s Summary, opts Options) error {
	if opts.SlowestFiles <= 0 {
		opts.SlowestFiles = defaultSlowestFiles
	}
	colorize := !opts.NoColor && isTerminal(w)

	var b strings.Builder
	fmt.Fprintf(&b, "Workspace: %s\n\n", s.WorkspaceRoot)
	b.WriteString(projectTable(s.Projects))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Dependency graph: %s files, %s edges, %s cycles\n",
		humanize.Comma(int64(s.Nodes)), humanize.Comma(int64(s.Edges)), humanize.Comma(int64(len(s.Cycles))))
	if s.ContentBytes > 0 {
		fmt.Fprintf(&b, "Source read: %s\n", humanize.Bytes(uint64(s.ContentBytes)))
	}

	if len(s.Cycles) > 0 {
		shown := s.Cycles
		if !opts.Verbose && len(shown) > maxCyclesShown {
			shown = shown[:maxCyclesShown]
		}
		b.WriteString("\n")
		b.WriteString(paint(colorize, color.FgYellow, "Circular dependencies:\n"))
		for _, cycle := range shown {
			fmt.Fprintf(&b, "  %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
		}
		if hidden := len(s.Cycles) - len(shown); hidden > 0 {
			fmt.Fprintf(&b, "  ... and %d more (use --verbose)\n", hidden)
		}
	}

	if len(s.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(paint(colorize, color.FgRed, "Warnings:\n"))
		for _, msg := range s.Warnings {
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
	}

	if !opts.HideTiming {
		b.WriteString("\n")
		b.WriteString(timingBlock(s.Timing))
	}

	if opts.Verbose && !opts.HideTiming && len(s.Timing.Files) > 0 {
		b.WriteString("\n")
		b.WriteString(slowestTable(s.Timing.Slowest(opts.SlowestFiles)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func projectTable(projects []ProjectSummary) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	header := table.Row{"Project", "Files"}
	for _, k := range ng.Kinds {
		header = append(header, string(k))
	}
	header = append(header, "Time")
	tbl.AppendHeader(header)

	totals := make(map[ng.Kind]int)
	files := 0
	var elapsed time.Duration
	for _, p := range projects {
		row := table.Row{p.Name, p.Files}
		for _, k := range ng.Kinds {
			row = append(row, p.Counts[k])
			totals[k] += p.Counts[k]
		}
		row = append(row, p.Duration.Round(time.Millisecond).String())
		tbl.AppendRow(row)
		files += p.Files
		elapsed += p.Duration
	}

	footer := table.Row{fmt.Sprintf("Total: %d projects", len(projects)), files}
	for _, k := range ng.Kinds {
		footer = append(footer, totals[k])
	}
	footer = append(footer, elapsed.Round(time.Millisecond).String())
	tbl.AppendFooter(footer)

	return tbl.Render()
}

func timingBlock(t Timing) string {
	var b strings.Builder
	b.WriteString("Timing:\n")
	fmt.Fprintf(&b, "  Workspace load:     %s\n", t.WorkspaceLoad.Round(time.Microsecond))
	fmt.Fprintf(&b, "  File analysis:      %s\n", t.FileTotal().Round(time.Microsecond))
	fmt.Fprintf(&b, "  Total:              %s\n", t.Total.Round(time.Microsecond))
	if len(t.Files) > 0 {
		fmt.Fprintf(&b, "  Average per file:   %s\n", t.FileAverage().Round(time.Microsecond))
	}
	return b.String()
}

func slowestTable(files []FileTiming) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.AppendHeader(table.Row{"Slowest files", "Time"})
	for _, f := range files {
		tbl.AppendRow(table.Row{f.Path, f.Duration.Round(time.Microsecond).String()})
	}
	return tbl.Render()
}

func paint(enabled bool, attr color.Attribute, s string) string {
	if !enabled {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
