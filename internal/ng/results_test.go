package ng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Results {
	return Results{
		Components: []Component{
			{BaseInfo: BaseInfo{Name: "B", RelativePath: "b.ts"}},
			{BaseInfo: BaseInfo{Name: "A", RelativePath: "a.ts"}},
		},
		Services: []Service{{BaseInfo: BaseInfo{Name: "S", RelativePath: "s.ts"}, ProvidedIn: "root"}},
	}
}

func TestResults_MergeIdentity(t *testing.T) {
	r := sample()
	assert.Equal(t, r.Len(), r.Merge(Results{}).Len())
	assert.Equal(t, r.Len(), Results{}.Merge(r).Len())
}

func TestResults_MergeAssociative(t *testing.T) {
	a := sample()
	b := Results{Pipes: []Pipe{{BaseInfo: BaseInfo{Name: "P", RelativePath: "p.ts"}}}}
	c := Results{Others: []Other{{BaseInfo: BaseInfo{Name: "O", RelativePath: "o.ts"}}}}

	left := a.Merge(b).Merge(c).Sorted()
	right := a.Merge(b.Merge(c)).Sorted()
	assert.Equal(t, left, right)
	assert.Equal(t, 5, left.Len())
}

func TestResults_MergeCommutative(t *testing.T) {
	a := sample()
	b := Results{
		Components: []Component{{BaseInfo: BaseInfo{Name: "C", RelativePath: "c.ts"}, Selector: "app-c"}},
		Pipes:      []Pipe{{BaseInfo: BaseInfo{Name: "P", RelativePath: "p.ts"}}},
		Services:   []Service{{BaseInfo: BaseInfo{Name: "T", RelativePath: "a.ts"}}},
	}

	assert.Equal(t, a.Merge(b).Sorted(), b.Merge(a).Sorted())
	assert.Equal(t, 6, a.Merge(b).Len())
}

func TestResults_MergeDoesNotAlias(t *testing.T) {
	a := Results{Components: make([]Component, 1, 4)}
	b := Results{Components: []Component{{BaseInfo: BaseInfo{Name: "X"}}}}

	_ = a.Merge(b)
	c := a.Merge(Results{Components: []Component{{BaseInfo: BaseInfo{Name: "Y"}}}})
	require.Len(t, c.Components, 2)
	assert.Equal(t, "Y", c.Components[1].Name)
}

func TestResults_Sorted(t *testing.T) {
	got := sample().Sorted()
	assert.Equal(t, "A", got.Components[0].Name)
	assert.Equal(t, "B", got.Components[1].Name)
	assert.NotNil(t, got.Pipes)
	assert.Empty(t, got.Pipes)
}

func TestResults_Counts(t *testing.T) {
	counts := sample().Counts()
	assert.Equal(t, 2, counts[KindComponent])
	assert.Equal(t, 1, counts[KindService])
	assert.Equal(t, 0, counts[KindPipe])
	assert.Len(t, counts, len(Kinds))
}

func TestResults_Elements(t *testing.T) {
	r := sample()
	elems := r.Elements()
	require.Len(t, elems, 3)
	assert.Equal(t, KindComponent, elems[0].Kind())
	assert.Equal(t, KindService, elems[2].Kind())

	elems[0].Base().Name = "changed"
	assert.Equal(t, "changed", r.Components[0].Name)
}

func TestResults_Files(t *testing.T) {
	r := sample()
	r.Others = []Other{{BaseInfo: BaseInfo{Name: "A2", RelativePath: "a.ts"}}}
	files := r.Files()
	require.Len(t, files, 4)
	assert.Equal(t, FileKind{Path: "a.ts", Kind: KindComponent}, files[0])
	assert.Equal(t, FileKind{Path: "a.ts", Kind: KindOther}, files[1])
}
