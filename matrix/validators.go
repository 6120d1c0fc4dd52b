// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Single source of truth for the guards used by projectors and products.
//  - Return wrapped sentinels so call sites can match with errors.Is.
//
// Note:
//  - Composite validators follow a fixed sequence (NotNil → Shape → Values).

package matrix

import (
	"fmt"
	"math"
)

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return matrixErrorf(fmt.Sprintf("ValidateSquare: %dx%d", m.Rows(), m.Cols()), ErrNonSquare)
	}

	return nil
}

// ValidateNonNegative checks that every entry is finite and ≥ 0.
// The first offending entry is reported.
// Complexity: O(r*c).
func ValidateNonNegative(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	d, err := asDense(m)
	if err != nil {
		return matrixErrorf("ValidateNonNegative", err)
	}
	for idx, v := range d.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return matrixErrorf(fmt.Sprintf("ValidateNonNegative: (%d,%d)", idx/d.c, idx%d.c), ErrNaNInf)
		}
		if v < 0 {
			return matrixErrorf(fmt.Sprintf("ValidateNonNegative: (%d,%d)=%g", idx/d.c, idx%d.c, v), ErrNegative)
		}
	}

	return nil
}
