// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/HasEdge/Edges/EdgeCount/NeighborIDs.
// Determinism:
//   - Edges() returns edges in insertion order.
//   - NeighborIDs() returns IDs sorted lex asc.
//   - nextEdgeID() is monotonic and stable ("e" + decimal).
// Concurrency:
//   - Mutations under muVert read lock + muEdgeAdj write lock.

package core

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// edgeIDPrefix is the textual prefix for edge identifiers ("e1", "e2", ...).
const edgeIDPrefix = 'e'

// AddEdge connects two existing vertices with an undirected edge.
//
// Steps:
//  1. Validate IDs, loop and weight.
//  2. Under muVert read lock, require both endpoints (ErrVertexNotFound).
//  3. Under muEdgeAdj write lock, reject parallel edges, allocate the ID,
//     store the edge and mirror adjacency.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, weight float64) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if from == to {
		return "", fmt.Errorf("AddEdge(%q,%q): %w", from, to, ErrLoopNotAllowed)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return "", fmt.Errorf("AddEdge(%q,%q): %w", from, to, ErrBadWeight)
	}
	if to < from {
		from, to = to, from
	}

	g.muVert.RLock()
	defer g.muVert.RUnlock()
	for _, id := range []string{from, to} {
		if _, ok := g.vertices[id]; !ok {
			return "", fmt.Errorf("AddEdge: endpoint %q: %w", id, ErrVertexNotFound)
		}
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if _, dup := g.adjacency[from][to]; dup {
		return "", fmt.Errorf("AddEdge(%q,%q): %w", from, to, ErrMultiEdgeNotAllowed)
	}

	g.nextEdgeID++
	e := &Edge{ID: nextEdgeID(g.nextEdgeID), From: from, To: to, Weight: weight, seq: g.nextEdgeID}
	g.edges[e.ID] = e
	ensureAdjacency(g, from)[to] = e.ID
	ensureAdjacency(g, to)[from] = e.ID

	return e.ID, nil
}

// HasEdge reports whether an edge joins from and to (in either order).
func (g *Graph) HasEdge(from, to string) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	_, ok := g.adjacency[from][to]

	return ok
}

// Edges returns copies of all edges in insertion order.
// Complexity: O(E·log E).
func (g *Graph) Edges() []Edge {
	g.muEdgeAdj.RLock()
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	g.muEdgeAdj.RUnlock()
	slices.SortFunc(out, func(a, b Edge) int { return cmp.Compare(a.seq, b.seq) })

	return out
}

// EdgeCount returns |E|.
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// NeighborIDs returns the IDs adjacent to id, sorted lex asc.
//
// Errors: ErrEmptyVertexID, ErrVertexNotFound.
// Complexity: O(d·log d).
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}

	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, fmt.Errorf("NeighborIDs(%q): %w", id, ErrVertexNotFound)
	}

	g.muEdgeAdj.RLock()
	out := make([]string, 0, len(g.adjacency[id]))
	for nbr := range g.adjacency[id] {
		out = append(out, nbr)
	}
	g.muEdgeAdj.RUnlock()
	slices.Sort(out)

	return out, nil
}

// ensureAdjacency returns adjacency[u], allocating it on first use.
// Caller must hold muEdgeAdj for writing.
func ensureAdjacency(g *Graph, u string) map[string]string {
	inner, ok := g.adjacency[u]
	if !ok {
		inner = make(map[string]string)
		g.adjacency[u] = inner
	}

	return inner
}

// nextEdgeID formats n as "e<n>" without fmt.
func nextEdgeID(n uint64) string {
	buf := make([]byte, 0, 21)
	buf = append(buf, edgeIDPrefix)

	return string(strconv.AppendUint(buf, n, 10))
}
