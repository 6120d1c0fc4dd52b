// SPDX-License-Identifier: MIT

package matrix

// Matrix is the read/write surface the projector and attention code accept.
// Dense is the only implementation in this module; callers may wrap their own
// score buffers as long as every method is O(1) apart from Clone.
type Matrix interface {
	Rows() int
	Cols() int

	// At returns the entry at (i, j) or ErrOutOfRange.
	At(i, j int) (float64, error)

	// Set writes v at (i, j) or returns ErrOutOfRange.
	Set(i, j int, v float64) error

	// Clone returns an independent deep copy.
	Clone() Matrix
}
