// Package core declares Vertex, Edge, Graph, sentinel errors and NewGraph.
//
// Errors:
//
//	ErrEmptyVertexID       - vertex ID is the empty string.
//	ErrVertexNotFound      - requested vertex does not exist.
//	ErrBadWeight           - edge weight is NaN or ±Inf.
//	ErrLoopNotAllowed      - self-loop attempted.
//	ErrMultiEdgeNotAllowed - parallel edge attempted.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided Vertex has an empty ID.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrBadWeight indicates a non-finite edge weight.
	ErrBadWeight = errors.New("core: edge weight must be finite")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Vertex represents one sample of a batch.
type Vertex struct {
	// ID is the unique identifier for this Vertex.
	ID string

	// Error is the reconstruction error of the sample.
	Error float64
}

// Edge is an undirected connection between two vertices.
// From < To lexically; AddEdge normalizes the endpoint order.
type Edge struct {
	ID     string
	From   string
	To     string
	Weight float64

	seq uint64
}

// Graph is the in-memory inconsistency graph.
//
// muVert protects vertices; muEdgeAdj protects edges and adjacency.
// Lock order is always muVert then muEdgeAdj.
type Graph struct {
	muVert    sync.RWMutex // guards vertices
	muEdgeAdj sync.RWMutex // guards edges and adjacency

	nextEdgeID uint64             // edge ID generator, guarded by muEdgeAdj
	vertices   map[string]*Vertex // vertex ID → Vertex
	edges      map[string]*Edge   // edge ID → Edge

	// adjacency[u][v] = edge ID, mirrored for both endpoints.
	adjacency map[string]map[string]string
}

// NewGraph creates an empty Graph.
// Complexity: O(1)
func NewGraph() *Graph {
	return &Graph{
		vertices:  make(map[string]*Vertex),
		edges:     make(map[string]*Edge),
		adjacency: make(map[string]map[string]string),
	}
}

// samplePrefix starts every sample vertex ID.
const samplePrefix = "s"

// SampleID returns the vertex ID for batch index i ("s0000", "s0001", …).
// IDs sort lexically in index order for batches below 10000 items; larger
// indices still round-trip through ParseSampleID.
func SampleID(i int) string {
	return fmt.Sprintf("%s%04d", samplePrefix, i)
}

// ParseSampleID inverts SampleID.
func ParseSampleID(id string) (int, error) {
	digits, ok := strings.CutPrefix(id, samplePrefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("ParseSampleID(%q): %w", id, ErrVertexNotFound)
	}
	i, err := strconv.Atoi(digits)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("ParseSampleID(%q): %w", id, ErrVertexNotFound)
	}

	return i, nil
}
