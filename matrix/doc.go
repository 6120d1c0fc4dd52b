// Package matrix provides the dense linear-algebra primitives used by the
// Birkhoff projector and the fused attention heads.
//
// The package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set.
//   - Constructors: NewDense, NewFromRows, Identity.
//   - Products and reductions: Mul, Transpose, Scale, RowSums, ColSums.
//   - Validators: ValidateNotNil, ValidateSquare, ValidateNonNegative.
//
// All operations allocate their result and never mutate operands. Errors are
// package sentinels wrapped with the operation name; match them with errors.Is.
//
// Complexity: At/Set O(1); Mul O(r·k·c); reductions O(r·c).
package matrix
