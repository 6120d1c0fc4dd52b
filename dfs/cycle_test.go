package dfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/core"
	"github.com/katalvlaran/crtfuse/dfs"
)

// build returns an undirected graph with the given vertices and edges.
func build(t *testing.T, verts []string, edges [][2]string) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, v := range verts {
		require.NoError(t, g.AddVertex(v, 0))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1], 0)
		require.NoError(t, err)
	}
	return g
}

// TestDetectCycles_NilGraph verifies the nil guard.
func TestDetectCycles_NilGraph(t *testing.T) {
	has, cycles, err := dfs.DetectCycles(nil)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)
	assert.False(t, has)
	assert.Nil(t, cycles)
}

// TestDetectCycles_Tree ensures a tree has no loops.
func TestDetectCycles_Tree(t *testing.T) {
	// A - B - C
	//     |
	//     D - E
	g := build(t, []string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"B", "D"}, {"D", "E"}})

	has, cycles, err := dfs.DetectCycles(g)
	assert.NoError(t, err)
	assert.False(t, has)
	assert.Empty(t, cycles)
}

// TestDetectCycles_Triangle covers the smallest loop and its canonical form.
func TestDetectCycles_Triangle(t *testing.T) {
	g := build(t, []string{"C", "A", "B"}, [][2]string{{"C", "B"}, {"B", "A"}, {"A", "C"}})

	has, cycles, err := dfs.DetectCycles(g)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, [][]string{{"A", "B", "C", "A"}}, cycles)
}

// TestDetectCycles_CycleBasis checks that a square with a diagonal yields
// E − V + C = 5 − 4 + 1 = 2 loops, sorted by signature.
func TestDetectCycles_CycleBasis(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}, {"a", "c"}})

	has, cycles, err := dfs.DetectCycles(g)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, [][]string{
		{"a", "b", "c", "a"},
		{"a", "b", "c", "d", "a"},
	}, cycles)
}

// TestDetectCycles_CompleteGraph: K4 has 6 − 4 + 1 = 3 independent loops.
func TestDetectCycles_CompleteGraph(t *testing.T) {
	verts := []string{"s0000", "s0001", "s0002", "s0003"}
	var edges [][2]string
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			edges = append(edges, [2]string{verts[i], verts[j]})
		}
	}
	g := build(t, verts, edges)

	_, cycles, err := dfs.DetectCycles(g)
	require.NoError(t, err)
	assert.Len(t, cycles, 3)
	for _, c := range cycles {
		assert.GreaterOrEqual(t, len(c)-1, 3)
		assert.Equal(t, c[0], c[len(c)-1], "loops are closed")
	}
}

// TestDetectCycles_MaxLoops: K5 holds 10 − 5 + 1 = 6 independent loops; the
// cap keeps the first two found and still returns them sorted and closed.
func TestDetectCycles_MaxLoops(t *testing.T) {
	verts := []string{"a", "b", "c", "d", "e"}
	var edges [][2]string
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			edges = append(edges, [2]string{verts[i], verts[j]})
		}
	}
	g := build(t, verts, edges)

	_, all, err := dfs.DetectCycles(g)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	has, capped, err := dfs.DetectCycles(g, dfs.WithMaxLoops(2))
	require.NoError(t, err)
	assert.True(t, has)
	require.Len(t, capped, 2)
	assert.LessOrEqual(t, dfs.JoinSig(capped[0]), dfs.JoinSig(capped[1]))
	for _, c := range capped {
		assert.Equal(t, c[0], c[len(c)-1])
	}
}

func TestDetectCycles_Canceled(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}, {"A", "C"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := dfs.DetectCycles(g, dfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComponents(t *testing.T) {
	g := build(t,
		[]string{"s0004", "s0000", "s0001", "s0002", "s0003", "s0005"},
		[][2]string{{"s0000", "s0002"}, {"s0002", "s0004"}, {"s0001", "s0003"}},
	)

	comps, err := dfs.Components(g)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"s0000", "s0002", "s0004"},
		{"s0001", "s0003"},
		{"s0005"},
	}, comps)

	_, err = dfs.Components(nil)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)
}

func TestComponentsHookError(t *testing.T) {
	g := build(t, []string{"A", "B"}, [][2]string{{"A", "B"}})
	stop := errors.New("stop")
	var seen []string

	_, err := dfs.Components(g, dfs.WithOnVisit(func(id string) error {
		seen = append(seen, id)
		if id == "B" {
			return stop
		}
		return nil
	}))
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestMinimalRotation(t *testing.T) {
	in := []string{"c", "a", "b", "a"}
	assert.Equal(t, []string{"a", "b", "a", "c"}, dfs.MinimalRotation(in))
	assert.Equal(t, []string{"c", "a", "b", "a"}, in, "input is not modified")
	assert.Nil(t, dfs.MinimalRotation(nil))
	assert.Equal(t, "x,y,x", dfs.JoinSig([]string{"x", "y", "x"}))
}
