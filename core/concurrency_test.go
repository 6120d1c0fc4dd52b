// Package core_test verifies thread-safety of core.Graph under concurrent operations.
package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/core"
)

// TestConcurrentAddEdge ensures that concurrent AddEdge calls from a hub
// are safe and every neighbor appears exactly once.
func TestConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph()
	const num = 200 // number of concurrent adds
	require.NoError(t, g.AddVertex("X", 1))
	for i := 0; i < num; i++ {
		require.NoError(t, g.AddVertex(core.SampleID(i), float64(i)))
	}

	var wg sync.WaitGroup
	wg.Add(num)
	for i := 0; i < num; i++ {
		go func(id int) {
			defer wg.Done() // signal completion
			_, err := g.AddEdge("X", core.SampleID(id), 0.5)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	nbs, err := g.NeighborIDs("X")
	require.NoError(t, err)
	require.Len(t, nbs, num, "expected %d unique neighbors", num)
	require.Equal(t, num, g.EdgeCount())
}

// TestConcurrentDuplicateEdge races the same edge; exactly one insert wins.
func TestConcurrentDuplicateEdge(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddVertex("A", 0))
	require.NoError(t, g.AddVertex("B", 0))

	const racers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			from, to := "A", "B"
			if i%2 == 1 {
				from, to = to, from // both orientations name the same edge
			}
			if _, err := g.AddEdge(from, to, 1); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				require.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, 1, g.EdgeCount())
}

// TestConcurrentReaders validates concurrent reads while edges are added.
func TestConcurrentReaders(t *testing.T) {
	g := core.NewGraph()
	for i := 0; i < 40; i++ {
		require.NoError(t, g.AddVertex(core.SampleID(i), 0))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i < 40; i++ {
			_, _ = g.AddEdge(core.SampleID(0), core.SampleID(i), float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = g.Edges()
			_, _ = g.Degree(core.SampleID(0))
			_ = g.Vertices()
		}
	}()
	wg.Wait()

	d, err := g.Degree(core.SampleID(0))
	require.NoError(t, err)
	require.Equal(t, 39, d)
}
