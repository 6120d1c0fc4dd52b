// File: methods_vertices.go
// Role: Vertex lifecycle & queries: AddVertex/HasVertex/Vertex/Vertices/VertexCount/Degree.
// Determinism:
//   - Vertices() returns IDs sorted lex asc.
// Concurrency:
//   - Mutations under muVert write lock; reads under muVert read lock.

package core

import (
	"fmt"
	"slices"
)

// AddVertex inserts a vertex carrying errValue.
// Adding an existing ID is a no-op and keeps the stored error value.
//
// Errors: ErrEmptyVertexID if id == "".
// Complexity: O(1).
func (g *Graph) AddVertex(id string, errValue float64) error {
	if id == "" {
		return ErrEmptyVertexID
	}

	g.muVert.Lock()
	defer g.muVert.Unlock()

	if _, ok := g.vertices[id]; ok {
		return nil
	}
	g.vertices[id] = &Vertex{ID: id, Error: errValue}

	return nil
}

// HasVertex reports whether id exists.
// Complexity: O(1).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.muVert.RLock()
	_, ok := g.vertices[id]
	g.muVert.RUnlock()

	return ok
}

// Vertex returns a copy of the vertex with the given id.
func (g *Graph) Vertex(id string) (Vertex, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	v, ok := g.vertices[id]
	if !ok {
		return Vertex{}, fmt.Errorf("Vertex(%q): %w", id, ErrVertexNotFound)
	}

	return *v, nil
}

// Vertices returns all vertex IDs sorted lex asc.
// Complexity: O(V·log V).
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	g.muVert.RUnlock()
	slices.Sort(ids)

	return ids
}

// VertexCount returns |V|.
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.vertices)
}

// Degree returns the number of edges incident to id.
//
// Errors: ErrVertexNotFound.
// Complexity: O(1).
func (g *Graph) Degree(id string) (int, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return 0, fmt.Errorf("Degree(%q): %w", id, ErrVertexNotFound)
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.adjacency[id]), nil
}
