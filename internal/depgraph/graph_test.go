package depgraph

import (
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddDependency(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")

	assert.Equal(t, []string{"b", "c"}, g.Dependencies("a"))
	assert.Equal(t, []string{"a"}, g.Dependents("b"))
	assert.Equal(t, []string{"a"}, g.Dependents("c"))
	assert.Nil(t, g.Dependencies("b"))
	assert.Nil(t, g.Dependents("a"))
	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
}

func TestGraph_IdempotentEdges(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	before := struct {
		deps, dependents []string
		edges            []Edge
		stats            Stats
	}{g.Dependencies("a"), g.Dependents("b"), g.Edges(), g.Stats()}

	g.AddDependency("a", "b")

	assert.Equal(t, before.deps, g.Dependencies("a"))
	assert.Equal(t, before.dependents, g.Dependents("b"))
	assert.Equal(t, before.edges, g.Edges())
	assert.Equal(t, Stats{Nodes: 2, Edges: 1}, g.Stats())
}

func TestGraph_ReverseInvariant(t *testing.T) {
	g := New()
	pairs := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"d", "a"}, {"a", "a"}}
	for _, p := range pairs {
		g.AddDependency(p[0], p[1])
	}

	for _, e := range g.Edges() {
		assert.Contains(t, g.Dependents(e.To), e.From, "missing reverse edge for %v", e)
	}
}

func TestGraph_AllDependencies(t *testing.T) {
	g := New()
	g.AddDependency("main", "app")
	g.AddDependency("app", "ui")
	g.AddDependency("app", "core")
	g.AddDependency("ui", "core")

	assert.Equal(t, []string{"app", "core", "ui"}, g.AllDependencies("main"))
	assert.Equal(t, []string{"core", "ui"}, g.AllDependencies("app"))
	assert.Empty(t, g.AllDependencies("core"))
	assert.Empty(t, g.AllDependencies("unknown"))
}

func TestGraph_AllDependenciesIncludesStartOnCycle(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("b", "a")

	assert.Equal(t, []string{"a", "b"}, g.AllDependencies("a"))
}

func TestGraph_CircularDependencies(t *testing.T) {
	g := New()
	g.AddDependency("A", "B")
	g.AddDependency("B", "C")
	g.AddDependency("C", "A")

	cycles := g.CircularDependencies()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, cycles[0])
}

func TestGraph_CircularDependencies_PathSuffix(t *testing.T) {
	g := New()
	g.AddDependency("entry", "x")
	g.AddDependency("x", "y")
	g.AddDependency("y", "x")

	cycles := g.CircularDependencies()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"x", "y"}, cycles[0])
}

func TestGraph_CircularDependencies_None(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	g.AddDependency("a", "c")

	assert.Empty(t, g.CircularDependencies())
}

func TestGraph_CircularDependencies_SelfLoop(t *testing.T) {
	g := New()
	g.AddDependency("a", "a")

	cycles := g.CircularDependencies()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a"}, cycles[0])
}

func TestGraph_CircularDependencies_Deterministic(t *testing.T) {
	build := func() *Graph {
		g := New()
		g.AddDependency("a", "b")
		g.AddDependency("b", "a")
		g.AddDependency("c", "d")
		g.AddDependency("d", "e")
		g.AddDependency("e", "c")
		return g
	}

	first := build().CircularDependencies()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build().CircularDependencies())
	}
	assert.Len(t, first, 2)
}

func TestGraph_ConcurrentAdd(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				g.AddDependency("f"+strconv.Itoa(i), "f"+strconv.Itoa(i+1))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, Stats{Nodes: 101, Edges: 100}, g.Stats())
	assert.Len(t, g.AllDependencies("f0"), 100)
}

func TestGraph_Relative(t *testing.T) {
	base := filepath.FromSlash("/ws")
	g := New()
	g.AddDependency(filepath.FromSlash("/ws/apps/main.ts"), filepath.FromSlash("/ws/libs/ui.ts"))
	g.AddDependency(filepath.FromSlash("/ws/libs/ui.ts"), filepath.FromSlash("/ws/apps/main.ts"))

	rel := g.Relative(base)
	assert.Equal(t, []Edge{
		{From: "apps/main.ts", To: "libs/ui.ts"},
		{From: "libs/ui.ts", To: "apps/main.ts"},
	}, rel.Edges())
	assert.Equal(t, [][]string{{"apps/main.ts", "libs/ui.ts"}}, rel.CircularDependencies())
	assert.Equal(t, g.Stats(), rel.Stats())
}
