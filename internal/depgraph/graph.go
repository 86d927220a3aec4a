// Package depgraph holds the file-level dependency graph built while
// resolving imports.
package depgraph

import (
	"sort"
	"sync"

	"nga/internal/paths"
	"nga/internal/shardmap"
)

// Edge is a dependency from one file to another.
type Edge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// Stats summarizes the graph size.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

type nodeSet struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

func newNodeSet() *nodeSet {
	return &nodeSet{members: make(map[string]struct{})}
}

func (s *nodeSet) add(n string) {
	s.mu.Lock()
	s.members[n] = struct{}{}
	s.mu.Unlock()
}

func (s *nodeSet) sorted() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.members))
	for n := range s.members {
		out = append(out, n)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (s *nodeSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Graph is a directed file graph with forward (file -> dependencies) and
// reverse (file -> dependents) adjacency. Every forward edge a->b has the
// reverse edge b->a. Nodes exist implicitly as keys of either map and are
// never removed. Safe for concurrent use; unrelated files do not share a
// lock.
type Graph struct {
	forward *shardmap.Map[*nodeSet]
	reverse *shardmap.Map[*nodeSet]
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		forward: shardmap.New[*nodeSet](),
		reverse: shardmap.New[*nodeSet](),
	}
}

// AddDependency records that source depends on target. Adding an existing
// edge is a no-op.
func (g *Graph) AddDependency(source, target string) {
	fwd, _ := g.forward.LoadOrStore(source, newNodeSet())
	fwd.add(target)
	rev, _ := g.reverse.LoadOrStore(target, newNodeSet())
	rev.add(source)
}

// Dependencies returns the direct dependencies of file, sorted.
func (g *Graph) Dependencies(file string) []string {
	if s, ok := g.forward.Load(file); ok {
		return s.sorted()
	}
	return nil
}

// Dependents returns the files that depend directly on file, sorted.
func (g *Graph) Dependents(file string) []string {
	if s, ok := g.reverse.Load(file); ok {
		return s.sorted()
	}
	return nil
}

// AllDependencies returns every file reachable from file, sorted. file
// itself is included only when a cycle leads back to it.
func (g *Graph) AllDependencies(file string) []string {
	visited := make(map[string]struct{})
	stack := []string{file}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.Dependencies(n) {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			stack = append(stack, dep)
		}
	}

	out := make([]string, 0, len(visited))
	for n := range visited {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CircularDependencies returns dependency cycles found by a depth-first
// walk over all nodes in sorted order. Each cycle is the portion of the
// walk path starting at the repeated node. A node is explored once per
// call, so a cycle reachable only through an already explored node is not
// reported again from another entry point.
func (g *Graph) CircularDependencies() [][]string {
	var (
		visited = make(map[string]bool)
		onPath  = make(map[string]int)
		path    []string
		cycles  [][]string
	)

	var walk func(n string)
	walk = func(n string) {
		if i, ok := onPath[n]; ok {
			cycles = append(cycles, append([]string(nil), path[i:]...))
			return
		}
		if visited[n] {
			return
		}

		onPath[n] = len(path)
		path = append(path, n)
		for _, dep := range g.Dependencies(n) {
			walk(dep)
		}
		path = path[:len(path)-1]
		delete(onPath, n)
		visited[n] = true
	}

	for _, n := range g.Nodes() {
		if !visited[n] {
			walk(n)
		}
	}
	return cycles
}

// Nodes returns every file appearing in the graph, sorted.
func (g *Graph) Nodes() []string {
	seen := make(map[string]struct{})
	for _, m := range []*shardmap.Map[*nodeSet]{g.forward, g.reverse} {
		m.Range(func(k string, _ *nodeSet) bool {
			seen[k] = struct{}{}
			return true
		})
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge sorted by source then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.forward.Keys() {
		for _, to := range g.Dependencies(from) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Stats returns the node and edge counts.
func (g *Graph) Stats() Stats {
	edges := 0
	g.forward.Range(func(_ string, s *nodeSet) bool {
		edges += s.len()
		return true
	})
	return Stats{Nodes: len(g.Nodes()), Edges: edges}
}

// Relative returns a copy of g with every file inside base rewritten as a
// slash-separated path relative to base.
func (g *Graph) Relative(base string) *Graph {
	out := New()
	for _, e := range g.Edges() {
		out.AddDependency(paths.RelativeTo(e.From, base), paths.RelativeTo(e.To, base))
	}
	return out
}
