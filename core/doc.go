// Package core provides the thread-safe in-memory graph used to describe
// inconsistency among a batch of residue estimates.
//
// The Graph G = (V,E) is deliberately narrow:
//
//   - Undirected edges, mirrored in adjacency[to][from].
//   - Simple: self-loops return ErrLoopNotAllowed and a second edge between
//     the same endpoints returns ErrMultiEdgeNotAllowed.
//   - Float weights (the distance between two samples' reconstruction errors).
//   - Every Vertex carries the reconstruction error of the sample it stands for.
//   - Collision-free Edge.ID generation ("e1", "e2", …).
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj).
//
// Core Methods:
//
//	// Vertex lifecycle
//	AddVertex(id string, errValue float64) error   // O(1)
//	HasVertex(id string) bool                      // O(1)
//	Vertex(id string) (Vertex, error)              // O(1), copy
//
//	// Edge lifecycle
//	AddEdge(from, to string, weight float64) (edgeID string, err error) // O(1)
//	HasEdge(from, to string) bool                  // O(1)
//
//	// Query
//	NeighborIDs(id string) ([]string, error)       // O(d·log d), sorted
//	Vertices() []string                            // O(V·log V), sorted
//	Edges() []Edge                                 // O(E·log E), insertion order
//	Degree(id string) (int, error)                 // O(1)
//	VertexCount() int, EdgeCount() int             // O(1)
//
// Determinism: every listing is sorted, so algorithms that walk the graph
// (components, cycle detection) produce identical output across runs.
//
// Vertex IDs: the homology engine uses zero-padded sample indices ("s0003")
// so that lexical order equals numeric order; see SampleID.
package core
