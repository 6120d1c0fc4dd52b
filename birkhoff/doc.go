// SPDX-License-Identifier: MIT

// Package birkhoff projects nonnegative square matrices onto (an approximation
// of) the Birkhoff polytope, the set of doubly-stochastic matrices, using
// Sinkhorn-Knopp alternating normalization.
//
// One iteration:
//
//  1. divide every row by its sum (a zero row becomes uniform 1/n);
//  2. divide every column by its sum (a zero column becomes uniform 1/n);
//  3. deviation = max over rows and columns of |sum − 1|.
//
// The loop stops when deviation ≤ tolerance or after maxIterations. Running
// out of iterations is not an error: the best-effort matrix is returned with
// Converged=false and a warning is logged.
//
// The input matrix is never mutated. A Projector is immutable after
// construction and safe for concurrent use.
//
// Attention builds a score matrix exp(QKᵀ/√d − rowmax), projects it and applies
// it to V; it is the building block of the fused CRT attention heads.
package birkhoff
