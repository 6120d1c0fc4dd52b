// Package homology turns inconsistency among a batch of residue estimates into
// a graph-structural regularization signal.
//
// For every batch row the CRT reconstruction error is computed; rows whose
// error exceeds τ are kernel members. Kernel members become vertices of an
// undirected inconsistency graph and an EdgePolicy decides which pairs are
// joined. Each connected component is reported as a Cycle; a Cycle is Closed
// when its component also contains a loop of length ≥ 3, which for a simple
// graph holds exactly when the component has at least as many edges as
// vertices.
//
// Cost of a cycle c with member errors e_i:
//
//	f(c) = Σ_i sigmoid(e_i − τ) · |c|^α · β^γ
//
// Loss = Σ f(c) over all cycles, WeightedLoss = λ·Loss.
//
// The Betti numbers are a heuristic over that graph, not simplicial homology:
// β0 counts components among kernel members and β1 counts independent closed
// loops, E − V + C, read off the edge and vertex counts. Explicit loops are
// only extracted for reporting, and at most WithMaxLoops of them, so a batch
// whose rows are all inconsistent (a complete graph) costs O(K²), not one
// walk per loop.
//
// A Loss is immutable after construction and safe for concurrent use; every
// call returns a fresh result.
package homology
